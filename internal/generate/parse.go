package generate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Section names of the sentinel protocol. A section starts at ":::NAME:::"
// and runs to the next sentinel or the end of the text.
const (
	SectionTitle       = "TITLE"
	SectionExcerpt     = "EXCERPT"
	SectionAuthor      = "AUTHOR"
	SectionReadTime    = "READ_TIME"
	SectionTags        = "TAGS"
	SectionImagePrompt = "IMAGE_PROMPT"
	SectionContent     = "CONTENT"
)

// Fallbacks for optional sections.
const (
	DefaultExcerpt  = "Read the latest update on this trending story."
	DefaultAuthor   = "Trend Watcher"
	DefaultReadTime = "3 min read"
)

// ErrMalformed marks generator output that lacks a mandatory section.
var ErrMalformed = errors.New("failed to parse generated content structure")

var sentinelRe = regexp.MustCompile(`:::([A-Za-z_][A-Za-z0-9_]*):::`)

// Content is a decoded article payload.
type Content struct {
	Title       string
	Excerpt     string
	Content     string
	Author      string
	ReadTime    string
	Tags        []string
	ImagePrompt string
}

// ParseError is returned when mandatory sections are missing. Raw holds the
// full generator output for diagnostics.
type ParseError struct {
	Missing []string
	Raw     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrMalformed.Error(), strings.Join(e.Missing, ", "))
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// Sections splits text into named sections. Names are upper-cased; when a
// name repeats, the first occurrence wins.
func Sections(text string) map[string]string {
	sections := make(map[string]string)
	locs := sentinelRe.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		name := strings.ToUpper(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, ok := sections[name]; ok {
			continue
		}
		sections[name] = strings.TrimSpace(text[loc[1]:end])
	}
	return sections
}

// Parse decodes generator output into Content, applying fallbacks for the
// optional sections. Title and content are required.
func Parse(text string) (*Content, error) {
	s := Sections(text)

	c := &Content{
		Title:       s[SectionTitle],
		Excerpt:     s[SectionExcerpt],
		Content:     s[SectionContent],
		Author:      s[SectionAuthor],
		ReadTime:    s[SectionReadTime],
		Tags:        splitTags(s[SectionTags]),
		ImagePrompt: s[SectionImagePrompt],
	}

	var missing []string
	if c.Title == "" {
		missing = append(missing, SectionTitle)
	}
	if c.Content == "" {
		missing = append(missing, SectionContent)
	}
	if len(missing) > 0 {
		return nil, &ParseError{Missing: missing, Raw: text}
	}

	if c.Excerpt == "" {
		c.Excerpt = DefaultExcerpt
	}
	if c.Author == "" {
		c.Author = DefaultAuthor
	}
	if c.ReadTime == "" {
		c.ReadTime = DefaultReadTime
	}
	if c.ImagePrompt == "" {
		c.ImagePrompt = DefaultImagePrompt(c.Title)
	}
	return c, nil
}

// DefaultImagePrompt is used when the generator supplies no image prompt.
func DefaultImagePrompt(title string) string {
	return "News editorial image about " + title
}

// splitTags splits a comma-separated list, keeping order and duplicates.
func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
