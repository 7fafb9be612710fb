package trends

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

const (
	maxLeadBytes = 2 << 20
	maxLeadChars = 4000
	minLeadChars = 100
)

// fetchLeadStory downloads a headline's page and extracts its readable text.
// It returns "" when the page has no usable content.
func (s *Scout) fetchLeadStory(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLeadBytes))
	if err != nil {
		return "", err
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minLeadChars {
		return "", nil
	}
	return truncate(text, maxLeadChars), nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return "lead story returned " + http.StatusText(e.code)
}
