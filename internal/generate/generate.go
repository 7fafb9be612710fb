// Package generate asks an LLM for a researched article and decodes the
// sentinel-delimited answer.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/TobiSchelling/LookTrending/internal/llm"
	"github.com/TobiSchelling/LookTrending/internal/trends"
)

// ErrNotConfigured is returned when no LLM provider is available.
var ErrNotConfigured = errors.New("content generator not configured: set the provider API key")

// Researcher supplies trend leads for the prompt.
type Researcher interface {
	Research(ctx context.Context) *trends.Research
}

// Options tunes generation requests.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Generator produces article content from an LLM provider.
type Generator struct {
	provider   llm.Provider
	researcher Researcher
	opts       Options
}

// NewGenerator creates a new Generator. provider may be nil, in which case
// every call fails with ErrNotConfigured; researcher may be nil.
func NewGenerator(provider llm.Provider, researcher Researcher, opts Options) *Generator {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 4096
	}
	return &Generator{provider: provider, researcher: researcher, opts: opts}
}

// Configured reports a configuration error, if any.
func (g *Generator) Configured() error {
	if g.provider == nil {
		return ErrNotConfigured
	}
	return nil
}

// Generate researches and writes one article, steering away from exclusions.
func (g *Generator) Generate(ctx context.Context, exclusions []string) (*Content, error) {
	if err := g.Configured(); err != nil {
		return nil, err
	}

	var brief string
	if g.researcher != nil {
		brief = g.researcher.Research(ctx).Brief()
	}

	text, err := g.provider.Generate(ctx, llm.Request{
		System:      systemInstruction,
		Prompt:      BuildPrompt(exclusions, brief),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
		WebSearch:   true,
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("failed to generate text content")
	}

	content, err := Parse(text)
	if err != nil {
		log.Printf("Model output malformed: %s", text)
		return nil, err
	}
	return content, nil
}
