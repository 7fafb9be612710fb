// Package autopilot runs timed article generation cycles with at most one
// cycle in flight.
package autopilot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/TobiSchelling/LookTrending/internal/database"
	"github.com/TobiSchelling/LookTrending/internal/generate"
)

// ContentGenerator produces one article payload per call.
type ContentGenerator interface {
	// Configured returns a configuration error when the generator cannot run.
	Configured() error
	Generate(ctx context.Context, exclusions []string) (*generate.Content, error)
}

// ImageGenerator produces a cover image reference. An empty reference means
// no image was produced.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Store persists articles.
type Store interface {
	Initialize() error
	ListArticles() ([]database.Article, error)
	CreateArticle(a database.Article) error
}

// RunState is a point-in-time copy of the automation state.
type RunState struct {
	IsActive        bool          `json:"isActive"`
	IsGenerating    bool          `json:"isGenerating"`
	LastRunTime     *time.Time    `json:"lastRunTime"`
	NextRunTime     *time.Time    `json:"nextRunTime"`
	Interval        time.Duration `json:"-"`
	IntervalSeconds int           `json:"intervalSeconds"`
	Logs            []string      `json:"logs"`
}

// Options configures an Autopilot.
type Options struct {
	Generator ContentGenerator
	// Images may be nil to publish without cover images.
	Images ImageGenerator
	Store  Store

	Interval       time.Duration
	PollInterval   time.Duration
	MaxLogs        int
	ExclusionLimit int

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Autopilot owns the run state, the published article collection and the
// scheduler goroutine. Construct one per process with New and release it
// with Close.
type Autopilot struct {
	gen    ContentGenerator
	images ImageGenerator
	store  Store

	interval       time.Duration
	pollInterval   time.Duration
	exclusionLimit int
	now            func() time.Time
	newID          func() string

	logs     *LogBuffer
	articles atomic.Pointer[[]database.Article]

	// mu guards the fields below.
	mu         sync.Mutex
	active     bool
	generating bool
	lastRun    *time.Time
	nextRun    *time.Time
	stopPoll   context.CancelFunc
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an inactive Autopilot with an empty collection.
func New(opts Options) (*Autopilot, error) {
	if opts.Generator == nil || opts.Store == nil {
		return nil, errors.New("autopilot requires a generator and a store")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", opts.Interval)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.ExclusionLimit <= 0 {
		opts.ExclusionLimit = DefaultExclusionLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Autopilot{
		gen:            opts.Generator,
		images:         opts.Images,
		store:          opts.Store,
		interval:       opts.Interval,
		pollInterval:   opts.PollInterval,
		exclusionLimit: opts.ExclusionLimit,
		now:            opts.Now,
		newID:          opts.NewID,
		logs:           NewLogBuffer(opts.MaxLogs),
		ctx:            ctx,
		cancel:         cancel,
	}
	empty := []database.Article{}
	a.articles.Store(&empty)
	a.logf("Initializing Look Trending...")
	return a, nil
}

// Load initializes the store and replaces the collection with its contents.
// Call it once at startup, before arming the scheduler.
func (a *Autopilot) Load() error {
	a.logf("Connecting to Database...")
	if err := a.store.Initialize(); err != nil {
		a.logf("DB Error: %v", err)
		return err
	}

	a.logf("Fetching latest trends...")
	articles, err := a.store.ListArticles()
	if err != nil {
		a.logf("DB Error: %v", err)
		return err
	}
	if articles == nil {
		articles = []database.Article{}
	}
	a.articles.Store(&articles)
	a.logf("Loaded %d articles.", len(articles))
	return nil
}

// State returns a snapshot of the run state.
func (a *Autopilot) State() RunState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return RunState{
		IsActive:        a.active,
		IsGenerating:    a.generating,
		LastRunTime:     copyTime(a.lastRun),
		NextRunTime:     copyTime(a.nextRun),
		Interval:        a.interval,
		IntervalSeconds: int(a.interval / time.Second),
		Logs:            a.logs.Entries(),
	}
}

// Articles returns the published collection, newest first. The slice is a
// shared snapshot and must not be modified.
func (a *Autopilot) Articles() []database.Article {
	return *a.articles.Load()
}

// Article looks up a published article by ID.
func (a *Autopilot) Article(id string) (database.Article, bool) {
	for _, art := range a.Articles() {
		if art.ID == id {
			return art, true
		}
	}
	return database.Article{}, false
}

// Logs returns the retained activity lines, oldest first.
func (a *Autopilot) Logs() []string {
	return a.logs.Entries()
}

// Close stops the scheduler, cancels an in-flight cycle and waits for it.
func (a *Autopilot) Close() {
	a.mu.Lock()
	a.closed = true
	a.stopPollingLocked()
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

// publish prepends article to the collection without disturbing readers.
func (a *Autopilot) publish(article database.Article) {
	for {
		old := a.articles.Load()
		next := make([]database.Article, 0, len(*old)+1)
		next = append(next, article)
		next = append(next, *old...)
		if a.articles.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (a *Autopilot) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logs.Append(msg)
	log.Printf("[autopilot] %s", msg)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Configured reports whether the content generator can run.
func (a *Autopilot) Configured() error {
	return a.gen.Configured()
}
