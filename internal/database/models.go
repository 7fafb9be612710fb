package database

import "time"

// Article is a published, generated article. Articles are append-only.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	ReadTime    string    `json:"readTime"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	ImagePrompt *string   `json:"imagePrompt,omitempty"`
}

// HasImage reports whether the article carries a cover image reference.
func (a Article) HasImage() bool {
	return a.ImageURL != nil && *a.ImageURL != ""
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalArticles int
	WithImages    int
	Latest        *time.Time
}
