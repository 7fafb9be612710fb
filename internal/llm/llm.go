package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrNoAPIKey is returned by providers whose credentials are not configured.
var ErrNoAPIKey = errors.New("API key is missing")

// Request is a single text-generation request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// WebSearch asks the provider to ground the answer with live search
	// results. Providers without a search tool ignore it.
	WebSearch bool
}

// Provider is the interface for LLM providers.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	IsConfigured() bool
	Name() string
}

// OllamaProvider is a local Ollama LLM provider.
type OllamaProvider struct {
	Model   string
	BaseURL string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(model, baseURL string) *OllamaProvider {
	return &OllamaProvider{
		Model:   model,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 300 * time.Second},
	}
}

func (o *OllamaProvider) Name() string { return "ollama/" + o.Model }

// IsConfigured checks if Ollama is running and the model is available.
func (o *OllamaProvider) IsConfigured() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", o.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false
	}

	modelBase := strings.SplitN(o.Model, ":", 2)[0]
	for _, m := range result.Models {
		if strings.Contains(m.Name, modelBase) {
			return true
		}
	}
	log.Printf("Ollama model %q not found", o.Model)
	return false
}

// Generate sends a prompt to Ollama and returns the response.
func (o *OllamaProvider) Generate(ctx context.Context, r Request) (string, error) {
	messages := []map[string]string{}
	if r.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": r.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": r.Prompt})

	body := map[string]any{
		"model":    o.Model,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"num_predict": r.MaxTokens,
			"temperature": r.Temperature,
		},
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := postJSON(ctx, o.client, o.BaseURL+"/api/chat", nil, body, &result, "ollama"); err != nil {
		return "", err
	}
	return result.Message.Content, nil
}

// OpenAIProvider is an OpenAI API provider.
type OpenAIProvider struct {
	Model   string
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(model, apiKeyEnv string) *OpenAIProvider {
	return &OpenAIProvider{
		Model:   model,
		APIKey:  os.Getenv(apiKeyEnv),
		BaseURL: "https://api.openai.com/v1",
		client:  &http.Client{Timeout: 300 * time.Second},
	}
}

func (o *OpenAIProvider) Name() string { return "openai/" + o.Model }

// IsConfigured checks if the API key is set.
func (o *OpenAIProvider) IsConfigured() bool {
	return o.APIKey != ""
}

// Generate sends a prompt to OpenAI and returns the response.
func (o *OpenAIProvider) Generate(ctx context.Context, r Request) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNoAPIKey)
	}

	messages := []map[string]string{}
	if r.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": r.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": r.Prompt})

	body := map[string]any{
		"model":       o.Model,
		"messages":    messages,
		"max_tokens":  r.MaxTokens,
		"temperature": r.Temperature,
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}
	if err := postJSON(ctx, o.client, o.BaseURL+"/chat/completions", headers, body, &result, "OpenAI"); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return result.Choices[0].Message.Content, nil
}

// postJSON sends body as JSON and decodes a 200 response into out.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any, service string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s API error: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s API returned %d: %s", service, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// ProviderConfig selects and configures a text provider.
type ProviderConfig struct {
	Provider       string
	Model          string
	OllamaURL      string
	OpenAIModel    string
	AnthropicModel string
	APIKeyEnv      string
}

// CreateProvider creates an LLM provider based on configuration. It returns
// nil when no provider is usable; callers surface that as a configuration error.
func CreateProvider(c ProviderConfig) Provider {
	switch strings.ToLower(c.Provider) {
	case "gemini":
		p := NewGeminiProvider(c.Model, c.APIKeyEnv)
		if p.IsConfigured() {
			log.Printf("Using Gemini with model: %s", p.Model)
			return p
		}
		log.Printf("Gemini API key not set (%s)", c.APIKeyEnv)
		return nil
	case "anthropic":
		p := NewAnthropicProvider(c.AnthropicModel, c.APIKeyEnv)
		if p.IsConfigured() {
			log.Printf("Using Anthropic with model: %s", p.Model)
			return p
		}
		log.Printf("Anthropic API key not set (%s)", c.APIKeyEnv)
		return nil
	case "ollama":
		p := NewOllamaProvider(c.Model, c.OllamaURL)
		if p.IsConfigured() {
			log.Printf("Using Ollama with model: %s", c.Model)
			return p
		}
		log.Println("Ollama not available, trying OpenAI fallback...")
	}

	p := NewOpenAIProvider(c.OpenAIModel, c.APIKeyEnv)
	if p.IsConfigured() {
		log.Printf("Using OpenAI with model: %s", c.OpenAIModel)
		return p
	}

	log.Println("No LLM provider available. Check the provider settings and API key.")
	return nil
}
