// Package gemini generates content through the Gemini API. The system and
// user prompts are sent as one combined user turn.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/yungbote/slideforge-backend/internal/llm"
)

const DefaultModel = "gemini-2.0-flash"

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; tests point it at a fake server.
	BaseURL string
}

type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

func New(cfg Config) *Provider {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		baseURL: strings.TrimSpace(cfg.BaseURL),
	}
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, httpClient *http.Client) *Provider {
	p := New(cfg)
	p.httpClient = httpClient
	return p
}

func (p *Provider) Name() string  { return "gemini" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Validate() error {
	if p.apiKey == "" {
		return &llm.ConfigurationError{Provider: p.Name(), Setting: "GEMINI_API_KEY"}
	}
	return nil
}

func (p *Provider) genaiClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	cc := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	p.client = c
	return c, nil
}

func (p *Provider) Generate(ctx context.Context, req llm.Request) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	client, err := p.genaiClient(ctx)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}
	prompt := combinePrompts(req.SystemPrompt, req.UserPrompt)

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", p.mapError(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: empty response", p.Name())
	}
	return text, nil
}

func combinePrompts(system, user string) string {
	system = strings.TrimSpace(system)
	if system == "" {
		return user
	}
	return system + "\n\n" + user
}

func (p *Provider) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.ProviderError{Provider: p.Name(), StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.ProviderError{Provider: p.Name(), StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
