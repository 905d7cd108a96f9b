package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yungbote/slideforge-backend/internal/llm"
)

func TestGenerateCombinesPrompts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/"+DefaultModel+":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			GenerationConfig struct {
				ResponseMIMEType string  `json:"responseMimeType"`
				Temperature      float64 `json:"temperature"`
				MaxOutputTokens  int     `json:"maxOutputTokens"`
			} `json:"generationConfig"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(body.Contents) != 1 || body.Contents[0].Role != "user" {
			t.Errorf("contents: %s", raw)
		} else if got := body.Contents[0].Parts[0].Text; got != "You are a presentation designer.\n\nSplit this" {
			t.Errorf("combined prompt: %q", got)
		}
		if body.GenerationConfig.ResponseMIMEType != "application/json" || body.GenerationConfig.MaxOutputTokens != 2000 {
			t.Errorf("generation config: %s", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"slides\":[]}"}]}}]}`))
	}))
	defer srv.Close()

	p := NewWithHTTPClient(Config{APIKey: "g-key", BaseURL: srv.URL + "/"}, srv.Client())
	text, err := p.Generate(context.Background(), llm.Request{
		SystemPrompt: "You are a presentation designer.",
		UserPrompt:   "Split this",
		JSONMode:     true,
		Temperature:  0.7,
		MaxTokens:    2000,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"slides":[]}` {
		t.Fatalf("text=%q", text)
	}
}

func TestGenerateMapsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	p := NewWithHTTPClient(Config{APIKey: "g-key", BaseURL: srv.URL + "/"}, srv.Client())
	_, err := p.Generate(context.Background(), llm.Request{UserPrompt: "x"})
	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("want ProviderError, got %T %v", err, err)
	}
	if pe.StatusCode != http.StatusTooManyRequests || !strings.Contains(pe.Body, "exhausted") {
		t.Fatalf("unexpected: %+v", pe)
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	p := New(Config{})
	_, err := p.Generate(context.Background(), llm.Request{})
	var ce *llm.ConfigurationError
	if !errors.As(err, &ce) || ce.Setting != "GEMINI_API_KEY" {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}

func TestCombinePrompts(t *testing.T) {
	if got := combinePrompts("  ", "user"); got != "user" {
		t.Fatalf("empty system: %q", got)
	}
}
