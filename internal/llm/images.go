package llm

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// ImageGenerator turns a prompt into an image reference (URL or data URL).
// An empty reference with a nil error means the service produced no image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	IsConfigured() bool
}

// OpenAIImager generates images with the OpenAI Images API.
type OpenAIImager struct {
	Model   string
	APIKey  string
	BaseURL string
	Size    string
	client  *http.Client
}

// NewOpenAIImager creates a new OpenAI image generator.
func NewOpenAIImager(model, apiKeyEnv string) *OpenAIImager {
	if model == "" {
		model = "gpt-image-1"
	}
	return &OpenAIImager{
		Model:   model,
		APIKey:  os.Getenv(apiKeyEnv),
		BaseURL: "https://api.openai.com/v1",
		Size:    "1536x1024",
		client:  &http.Client{Timeout: 180 * time.Second},
	}
}

func (o *OpenAIImager) IsConfigured() bool {
	return o.APIKey != ""
}

// GenerateImage requests a single image and returns it as a data URL or the
// hosted URL, whichever the API returned.
func (o *OpenAIImager) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNoAPIKey)
	}

	body := map[string]any{
		"model":  o.Model,
		"prompt": prompt,
		"n":      1,
		"size":   o.Size,
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
	}
	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}
	if err := postJSON(ctx, o.client, o.BaseURL+"/images/generations", headers, body, &result, "OpenAI"); err != nil {
		return "", err
	}

	if len(result.Data) == 0 {
		return "", nil
	}
	d := result.Data[0]
	if d.B64JSON != "" {
		return "data:image/png;base64," + d.B64JSON, nil
	}
	return d.URL, nil
}

// CreateImageGenerator creates an image generator based on configuration.
// It returns nil when images are disabled or the provider lacks credentials.
func CreateImageGenerator(enabled bool, provider, model, apiKeyEnv string) ImageGenerator {
	if !enabled {
		return nil
	}

	var g ImageGenerator
	switch strings.ToLower(provider) {
	case "openai":
		g = NewOpenAIImager(model, apiKeyEnv)
	case "gemini", "":
		g = NewGeminiImager(model, apiKeyEnv)
	default:
		log.Printf("Unknown image provider %q, images disabled", provider)
		return nil
	}

	if !g.IsConfigured() {
		log.Printf("Image provider %s has no API key (%s), images disabled", provider, apiKeyEnv)
		return nil
	}
	return g
}
