package trends

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mmcdole/gofeed"
)

const (
	maxPerFeed     = 20
	maxSummaryLen  = 400
	headlineMaxAge = 48 * time.Hour
)

// Headline is a candidate news lead taken from a feed.
type Headline struct {
	Title     string
	URL       string
	Source    string
	Published *time.Time
	Summary   string
}

// FeedConfig represents a single feed configuration.
type FeedConfig struct {
	URL  string
	Name string
}

// fetchFeed downloads and parses one feed, keeping items from the last two days.
func (s *Scout) fetchFeed(ctx context.Context, fc FeedConfig, cutoff time.Time) ([]Headline, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fc.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("feed returned %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	name := fc.Name
	if name == "" {
		name = extractSourceName(fc.URL)
	}

	var headlines []Headline
	for _, item := range feed.Items {
		if len(headlines) >= maxPerFeed {
			break
		}
		h := s.parseItem(item, name)
		if h == nil {
			continue
		}
		if h.Published != nil && h.Published.Before(cutoff) {
			continue
		}
		headlines = append(headlines, *h)
	}
	return headlines, nil
}

func (s *Scout) parseItem(item *gofeed.Item, source string) *Headline {
	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}
	if itemURL == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	h := &Headline{Title: title, URL: itemURL, Source: source}
	if item.PublishedParsed != nil {
		h.Published = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		h.Published = item.UpdatedParsed
	}

	raw := item.Description
	if raw == "" {
		raw = item.Content
	}
	if raw != "" {
		h.Summary = s.summarize(raw)
	}
	return h
}

// summarize converts feed HTML into a single line of markdown text.
func (s *Scout) summarize(html string) string {
	text, err := s.converter.ConvertString(html)
	if err != nil {
		text = html
	}
	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, maxSummaryLen)
}

func newConverter() *md.Converter {
	return md.NewConverter("", true, nil)
}

func extractSourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Hostname() == "" {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for _, prefix := range []string{"www.", "blog.", "blogs.", "rss.", "feeds."} {
		host = strings.TrimPrefix(host, prefix)
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		name := parts[len(parts)-2]
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToUpper(host[:1]) + host[1:]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
