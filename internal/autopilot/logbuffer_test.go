package autopilot

import (
	"fmt"
	"testing"

	"github.com/TobiSchelling/LookTrending/internal/database"
)

func TestLogBufferBound(t *testing.T) {
	b := NewLogBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Append(fmt.Sprintf("line %d", i))
	}

	got := b.Entries()
	want := []string{"line 3", "line 4", "line 5"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if b.Len() != 3 {
		t.Errorf("expected len 3, got %d", b.Len())
	}
}

func TestLogBufferEntriesIsCopy(t *testing.T) {
	b := NewLogBuffer(2)
	b.Append("a")
	got := b.Entries()
	got[0] = "mutated"

	if b.Entries()[0] != "a" {
		t.Error("expected buffer to be unaffected by caller edits")
	}
}

func TestLogBufferDefault(t *testing.T) {
	b := NewLogBuffer(0)
	for i := 0; i < DefaultMaxLogs+5; i++ {
		b.Append("x")
	}
	if b.Len() != DefaultMaxLogs {
		t.Errorf("expected %d entries, got %d", DefaultMaxLogs, b.Len())
	}
}

func TestExclusions(t *testing.T) {
	articles := []database.Article{{Title: "C"}, {Title: "B"}, {Title: "A"}}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"limit", 2, []string{"C", "B"}},
		{"more than available", 10, []string{"C", "B", "A"}},
		{"zero", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exclusions(articles, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}

	if got := Exclusions(nil, 20); len(got) != 0 {
		t.Errorf("expected no exclusions for empty feed, got %v", got)
	}
}
