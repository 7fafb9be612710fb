package generate

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseMinimal(t *testing.T) {
	c, err := Parse(":::TITLE:::\nFoo\n:::CONTENT:::\nBar\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Foo" {
		t.Errorf("expected title 'Foo', got %q", c.Title)
	}
	if c.Content != "Bar" {
		t.Errorf("expected content 'Bar', got %q", c.Content)
	}
	if c.Excerpt != DefaultExcerpt {
		t.Errorf("expected default excerpt, got %q", c.Excerpt)
	}
	if c.Author != DefaultAuthor {
		t.Errorf("expected default author, got %q", c.Author)
	}
	if c.ReadTime != DefaultReadTime {
		t.Errorf("expected default read time, got %q", c.ReadTime)
	}
	if c.ImagePrompt != "News editorial image about Foo" {
		t.Errorf("expected title-derived image prompt, got %q", c.ImagePrompt)
	}
	if len(c.Tags) != 0 {
		t.Errorf("expected no tags, got %v", c.Tags)
	}
}

func TestParseFull(t *testing.T) {
	text := `Sure! Here is your article.

:::TITLE:::
  Solar Storm Lights Up Skies
:::EXCERPT:::
Auroras were seen as far south as Texas. Scientists explain why.
:::AUTHOR:::
Trend Scout
:::READ_TIME:::
4 min read
:::TAGS:::
Science, Space,  , Weather, space
:::IMAGE_PROMPT:::
Aurora over a desert highway at night
:::CONTENT:::
## What happened

Colors: "green" and 'red'.

## References
- [NOAA](https://noaa.gov)
`
	c, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Solar Storm Lights Up Skies" {
		t.Errorf("unexpected title %q", c.Title)
	}
	if c.Author != "Trend Scout" || c.ReadTime != "4 min read" {
		t.Errorf("unexpected author/read time %q / %q", c.Author, c.ReadTime)
	}
	wantTags := []string{"Science", "Space", "Weather", "space"}
	if !reflect.DeepEqual(c.Tags, wantTags) {
		t.Errorf("expected tags %v, got %v", wantTags, c.Tags)
	}
	if c.ImagePrompt != "Aurora over a desert highway at night" {
		t.Errorf("unexpected image prompt %q", c.ImagePrompt)
	}
	wantContent := "## What happened\n\nColors: \"green\" and 'red'.\n\n## References\n- [NOAA](https://noaa.gov)"
	if c.Content != wantContent {
		t.Errorf("unexpected content:\n%q\nwant:\n%q", c.Content, wantContent)
	}
}

func TestParseOrderIndependent(t *testing.T) {
	c, err := Parse(":::CONTENT:::\nBody first\n:::TAGS:::\na,b\n:::TITLE:::\nTitle last")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Title last" || c.Content != "Body first" {
		t.Errorf("unexpected title/content %q / %q", c.Title, c.Content)
	}
	if !reflect.DeepEqual(c.Tags, []string{"a", "b"}) {
		t.Errorf("unexpected tags %v", c.Tags)
	}
}

func TestParseCaseInsensitiveNames(t *testing.T) {
	c, err := Parse(":::title:::Foo:::Content:::Bar:::read_time:::9 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Foo" || c.Content != "Bar" || c.ReadTime != "9 min" {
		t.Errorf("unexpected fields %+v", c)
	}
}

func TestParseUnknownSentinelEndsSection(t *testing.T) {
	c, err := Parse(":::TITLE:::Foo\n:::SOURCES:::\nignored\n:::CONTENT:::Bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Foo" {
		t.Errorf("expected unknown sentinel to end title, got %q", c.Title)
	}
	if c.Content != "Bar" {
		t.Errorf("unexpected content %q", c.Content)
	}
}

func TestParseFirstOccurrenceWins(t *testing.T) {
	c, err := Parse(":::TITLE:::First\n:::CONTENT:::Body\n:::TITLE:::Second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "First" {
		t.Errorf("expected first title, got %q", c.Title)
	}
}

func TestParseMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no title", ":::CONTENT:::\nBar"},
		{"no content", ":::TITLE:::\nFoo"},
		{"empty title", ":::TITLE:::   \n:::CONTENT:::\nBar"},
		{"plain text", "I could not find any trending news today."},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Raw != tt.text {
				t.Errorf("expected raw text to be preserved")
			}
		})
	}
}

func TestParseErrorNamesMissingSections(t *testing.T) {
	_, err := Parse("nothing here")
	want := "failed to parse generated content structure: missing TITLE, CONTENT"
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"AI", []string{"AI"}},
		{" AI , ML ,, AI ", []string{"AI", "ML", "AI"}},
		{",,,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitTags(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTags(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
