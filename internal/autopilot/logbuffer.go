package autopilot

import "sync"

// DefaultMaxLogs is the number of activity lines kept.
const DefaultMaxLogs = 20

// LogBuffer keeps the most recent status lines, oldest first.
type LogBuffer struct {
	mu      sync.Mutex
	max     int
	entries []string
}

// NewLogBuffer creates a buffer holding at most max entries.
func NewLogBuffer(max int) *LogBuffer {
	if max <= 0 {
		max = DefaultMaxLogs
	}
	return &LogBuffer{max: max}
}

// Append adds msg and drops the oldest entries beyond the limit.
func (b *LogBuffer) Append(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, msg)
	if over := len(b.entries) - b.max; over > 0 {
		b.entries = append(b.entries[:0:0], b.entries[over:]...)
	}
}

// Entries returns a copy of the retained lines, oldest to newest.
func (b *LogBuffer) Entries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.entries...)
}

// Len returns the number of retained lines.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
