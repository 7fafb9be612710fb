package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// AnthropicProvider generates text with Claude models through llmkit.
type AnthropicProvider struct {
	Model  string
	APIKey string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(model, apiKeyEnv string) *AnthropicProvider {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	return &AnthropicProvider{Model: model, APIKey: key}
}

func (a *AnthropicProvider) Name() string { return "anthropic/" + a.Model }

// IsConfigured checks if the API key is set.
func (a *AnthropicProvider) IsConfigured() bool {
	return a.APIKey != ""
}

// Generate sends a prompt to Anthropic. llmkit does not take a context, so
// cancellation is only checked before the call.
func (a *AnthropicProvider) Generate(ctx context.Context, r Request) (string, error) {
	if a.APIKey == "" {
		return "", fmt.Errorf("anthropic: %w", ErrNoAPIKey)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       a.Model,
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
	}
	response, err := anthropic.PromptWithSettings(r.System, r.Prompt, "", a.APIKey, settings)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, c := range response.Content {
		sb.WriteString(c.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no content in Anthropic response")
	}
	return sb.String(), nil
}
