package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (r *geminiResponse) parts() []geminiPart {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].Content.Parts
}

// GeminiProvider generates text with the Gemini API. Web search requests
// enable the google_search grounding tool.
type GeminiProvider struct {
	Model   string
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewGeminiProvider creates a new Gemini text provider.
func NewGeminiProvider(model, apiKeyEnv string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{
		Model:   model,
		APIKey:  os.Getenv(apiKeyEnv),
		BaseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 300 * time.Second},
	}
}

func (g *GeminiProvider) Name() string { return "gemini/" + g.Model }

// IsConfigured checks if the API key is set.
func (g *GeminiProvider) IsConfigured() bool {
	return g.APIKey != ""
}

// Generate sends a prompt to Gemini and returns the concatenated text parts.
func (g *GeminiProvider) Generate(ctx context.Context, r Request) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}

	body := map[string]any{
		"contents": []geminiContent{{Role: "user", Parts: []geminiPart{{Text: r.Prompt}}}},
		"generationConfig": map[string]any{
			"temperature":     r.Temperature,
			"maxOutputTokens": r.MaxTokens,
		},
	}
	if r.System != "" {
		body["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: r.System}}}
	}
	if r.WebSearch {
		body["tools"] = []map[string]any{{"google_search": map[string]any{}}}
	}

	var result geminiResponse
	if err := postGemini(ctx, g.client, g.BaseURL, g.Model, g.APIKey, body, &result); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, p := range result.parts() {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return sb.String(), nil
}

// GeminiImager generates images with a Gemini image model.
type GeminiImager struct {
	Model   string
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewGeminiImager creates a new Gemini image generator.
func NewGeminiImager(model, apiKeyEnv string) *GeminiImager {
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	return &GeminiImager{
		Model:   model,
		APIKey:  os.Getenv(apiKeyEnv),
		BaseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *GeminiImager) IsConfigured() bool {
	return g.APIKey != ""
}

// GenerateImage returns the first inline image as a data URL, or "" when the
// model answered without image data.
func (g *GeminiImager) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}

	body := map[string]any{
		"contents": []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}

	var result geminiResponse
	if err := postGemini(ctx, g.client, g.BaseURL, g.Model, g.APIKey, body, &result); err != nil {
		return "", err
	}

	for _, p := range result.parts() {
		if p.InlineData != nil && p.InlineData.Data != "" {
			mime := p.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return "data:" + mime + ";base64," + p.InlineData.Data, nil
		}
	}
	return "", nil
}

func postGemini(ctx context.Context, client *http.Client, baseURL, model, apiKey string, body any, out *geminiResponse) error {
	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(baseURL, "/"), model)
	headers := map[string]string{"x-goog-api-key": apiKey}
	return postJSON(ctx, client, url, headers, body, out, "Gemini")
}
