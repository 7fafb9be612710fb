package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// dateLayout is the on-disk representation of Article.Date. Fixed-width UTC
// keeps lexical order equal to chronological order.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

const articleColumns = `id, title, excerpt, content, author, date, read_time, tags, image_url, image_prompt`

// CreateArticle inserts a new article. A duplicate ID is an error.
func (db *DB) CreateArticle(a Article) error {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Excerpt, a.Content, a.Author,
		a.Date.UTC().Format(dateLayout), a.ReadTime, string(tagsJSON),
		a.ImageURL, a.ImagePrompt,
	)
	if err != nil {
		return fmt.Errorf("inserting article %s: %w", a.ID, err)
	}
	return nil
}

// ListArticles returns all articles, newest first.
func (db *DB) ListArticles() ([]Article, error) {
	rows, err := db.conn.Query(
		`SELECT ` + articleColumns + ` FROM articles ORDER BY date DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetArticle returns a single article by ID, or nil if it does not exist.
func (db *DB) GetArticle(id string) (*Article, error) {
	row := db.conn.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetStats returns aggregate statistics about stored articles.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	var latest sql.NullString
	err := db.conn.QueryRow(
		`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN image_url IS NOT NULL AND image_url != '' THEN 1 ELSE 0 END), 0),
		MAX(date)
		FROM articles`,
	).Scan(&s.TotalArticles, &s.WithImages, &latest)
	if err != nil {
		return nil, err
	}
	if latest.Valid {
		t, err := parseDate(latest.String)
		if err != nil {
			return nil, err
		}
		s.Latest = &t
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

func scanArticle(row scanner) (*Article, error) {
	var a Article
	var date, tagsJSON string
	if err := row.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.Author,
		&date, &a.ReadTime, &tagsJSON, &a.ImageURL, &a.ImagePrompt); err != nil {
		return nil, err
	}

	t, err := parseDate(date)
	if err != nil {
		return nil, fmt.Errorf("article %s: %w", a.ID, err)
	}
	a.Date = t

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
			return nil, fmt.Errorf("article %s: decoding tags: %w", a.ID, err)
		}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
