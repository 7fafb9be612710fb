// Package trends gathers fresh headlines from RSS/Atom feeds so the writer
// has concrete leads to research.
package trends

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

const userAgent = "LookTrending/1.0 (news research)"

// Research is the material handed to the writer for one cycle.
type Research struct {
	Headlines []Headline
	// LeadStory is the extracted text of Headlines[0], when fetched.
	LeadStory string
}

// Empty reports whether no leads were found.
func (r *Research) Empty() bool {
	return r == nil || len(r.Headlines) == 0
}

// Brief renders the research as a prompt section.
func (r *Research) Brief() string {
	if r.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Recent headlines you may use as leads (verify with search before writing):\n")
	for _, h := range r.Headlines {
		fmt.Fprintf(&sb, "- %s (%s) %s\n", h.Title, h.Source, h.URL)
		if h.Summary != "" {
			fmt.Fprintf(&sb, "  %s\n", h.Summary)
		}
	}
	if r.LeadStory != "" {
		fmt.Fprintf(&sb, "\nFull text of the top lead, %q:\n%s\n", r.Headlines[0].Title, r.LeadStory)
	}
	return sb.String()
}

// Options configures a Scout.
type Options struct {
	Feeds          []FeedConfig
	MaxHeadlines   int
	FetchLeadStory bool
	Timeout        time.Duration
}

// Scout collects headlines from the configured feeds.
type Scout struct {
	feeds        []FeedConfig
	maxHeadlines int
	fetchLead    bool
	client       *http.Client
	converter    *md.Converter
	now          func() time.Time
}

// NewScout creates a new Scout.
func NewScout(opts Options) *Scout {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxHeadlines <= 0 {
		opts.MaxHeadlines = 10
	}
	return &Scout{
		feeds:        opts.Feeds,
		maxHeadlines: opts.MaxHeadlines,
		fetchLead:    opts.FetchLeadStory,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		converter: newConverter(),
		now:       time.Now,
	}
}

// Research gathers the freshest headlines across all feeds. Feed failures are
// logged and skipped; an empty result is not an error.
func (s *Scout) Research(ctx context.Context) *Research {
	r := &Research{}
	if len(s.feeds) == 0 {
		return r
	}

	cutoff := s.now().Add(-headlineMaxAge)
	seen := make(map[string]struct{})
	var all []Headline
	for _, fc := range s.feeds {
		if ctx.Err() != nil {
			break
		}
		headlines, err := s.fetchFeed(ctx, fc, cutoff)
		if err != nil {
			log.Printf("Failed to parse feed %s: %v", fc.URL, err)
			continue
		}
		for _, h := range headlines {
			if _, dup := seen[h.URL]; dup {
				continue
			}
			seen[h.URL] = struct{}{}
			all = append(all, h)
		}
	}

	// Newest first; undated items sink to the end in feed order.
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Published, all[j].Published
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	if len(all) > s.maxHeadlines {
		all = all[:s.maxHeadlines]
	}
	r.Headlines = all

	if s.fetchLead && len(all) > 0 {
		text, err := s.fetchLeadStory(ctx, all[0].URL)
		if err != nil {
			log.Printf("Lead story fetch failed for %s: %v", all[0].URL, err)
		}
		r.LeadStory = text
	}

	log.Printf("Trend research: %d headlines from %d feeds", len(r.Headlines), len(s.feeds))
	return r
}
