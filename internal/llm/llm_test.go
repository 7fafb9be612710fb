package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4o-mini", APIKey: "sk-test", BaseURL: srv.URL, client: srv.Client()}
	text, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "hi", MaxTokens: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected 'hello', got %q", text)
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", got["messages"])
	}
}

func TestOpenAIWithoutKey(t *testing.T) {
	p := &OpenAIProvider{Model: "gpt-4o-mini"}
	if p.IsConfigured() {
		t.Error("expected unconfigured provider")
	}
	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "m", APIKey: "k", BaseURL: srv.URL, client: srv.Client()}
	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestGeminiGenerateWithSearch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "g-key" {
			t.Errorf("missing api key header")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":":::TITLE:::\n"},{"text":"Foo"}]}}]}`))
	}))
	defer srv.Close()

	g := &GeminiProvider{Model: "gemini-2.5-flash", APIKey: "g-key", BaseURL: srv.URL, client: srv.Client()}
	text, err := g.Generate(context.Background(), Request{System: "be terse", Prompt: "go", WebSearch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != ":::TITLE:::\nFoo" {
		t.Errorf("expected joined parts, got %q", text)
	}
	if _, ok := got["tools"]; !ok {
		t.Error("expected google_search tool in request")
	}
	if _, ok := got["systemInstruction"]; !ok {
		t.Error("expected system instruction in request")
	}
}

func TestGeminiGenerateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := &GeminiProvider{Model: "m", APIKey: "k", BaseURL: srv.URL, client: srv.Client()}
	if _, err := g.Generate(context.Background(), Request{Prompt: "go"}); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestGeminiImagerInlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"here you go"},{"inlineData":{"mimeType":"image/png","data":"QUJD"}}]}}]}`))
	}))
	defer srv.Close()

	g := &GeminiImager{Model: "img", APIKey: "k", BaseURL: srv.URL, client: srv.Client()}
	ref, err := g.GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "data:image/png;base64,QUJD" {
		t.Errorf("unexpected image ref %q", ref)
	}
}

func TestGeminiImagerNoImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer srv.Close()

	g := &GeminiImager{Model: "img", APIKey: "k", BaseURL: srv.URL, client: srv.Client()}
	ref, err := g.GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "" {
		t.Errorf("expected empty ref, got %q", ref)
	}
}

func TestOpenAIImager(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"b64_json":"WFla"}]}`))
	}))
	defer srv.Close()

	o := &OpenAIImager{Model: "gpt-image-1", APIKey: "k", BaseURL: srv.URL, Size: "1024x1024", client: srv.Client()}
	ref, err := o.GenerateImage(context.Background(), "a skyline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "data:image/png;base64,WFla" {
		t.Errorf("unexpected image ref %q", ref)
	}
}

func TestCreateImageGeneratorDisabled(t *testing.T) {
	if g := CreateImageGenerator(false, "gemini", "", "LOOKTRENDING_TEST_UNSET_KEY"); g != nil {
		t.Error("expected nil generator when disabled")
	}
	if g := CreateImageGenerator(true, "gemini", "", "LOOKTRENDING_TEST_UNSET_KEY"); g != nil {
		t.Error("expected nil generator without API key")
	}
}

func TestCreateImageGeneratorConfigured(t *testing.T) {
	t.Setenv("LOOKTRENDING_TEST_KEY", "k")
	g := CreateImageGenerator(true, "openai", "", "LOOKTRENDING_TEST_KEY")
	if _, ok := g.(*OpenAIImager); !ok {
		t.Errorf("expected *OpenAIImager, got %T", g)
	}
}

func TestCreateProviderGemini(t *testing.T) {
	t.Setenv("LOOKTRENDING_TEST_KEY", "k")
	p := CreateProvider(ProviderConfig{Provider: "gemini", Model: "gemini-2.5-flash", APIKeyEnv: "LOOKTRENDING_TEST_KEY"})
	if _, ok := p.(*GeminiProvider); !ok {
		t.Errorf("expected *GeminiProvider, got %T", p)
	}
}

func TestCreateProviderAnthropic(t *testing.T) {
	t.Setenv("LOOKTRENDING_TEST_KEY", "k")
	p := CreateProvider(ProviderConfig{Provider: "anthropic", APIKeyEnv: "LOOKTRENDING_TEST_KEY"})
	a, ok := p.(*AnthropicProvider)
	if !ok {
		t.Fatalf("expected *AnthropicProvider, got %T", p)
	}
	if a.Model == "" {
		t.Error("expected default model")
	}
}

func TestCreateProviderUnconfigured(t *testing.T) {
	p := CreateProvider(ProviderConfig{Provider: "gemini", APIKeyEnv: "LOOKTRENDING_TEST_UNSET_KEY"})
	if p != nil {
		t.Errorf("expected nil provider, got %T", p)
	}
}
