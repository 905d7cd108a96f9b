// Package oaichat talks to OpenAI-compatible chat-completion endpoints
// (OpenRouter by default).
package oaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/slideforge-backend/internal/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "qwen/qwen3-235b-a22b:free"

	chatCompletionsPath = "/chat/completions"
	maxErrorBody        = 1 << 20
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// KeySetting names the credential in ConfigurationError messages.
	KeySetting string
	// Referer and Title are sent as OpenRouter attribution headers when set.
	Referer string
	Title   string
}

type Provider struct {
	baseURL    string
	apiKey     string
	model      string
	keySetting string
	referer    string
	title      string
	httpClient *http.Client
}

func New(cfg Config) *Provider {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	keySetting := cfg.KeySetting
	if keySetting == "" {
		keySetting = "OPENROUTER_API_KEY"
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Provider{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		keySetting: keySetting,
		referer:    strings.TrimSpace(cfg.Referer),
		title:      strings.TrimSpace(cfg.Title),
		httpClient: &http.Client{Transport: tr},
	}
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, httpClient *http.Client) *Provider {
	p := New(cfg)
	if httpClient != nil {
		p.httpClient = httpClient
	}
	return p
}

func (p *Provider) Name() string  { return "openrouter" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Validate() error {
	if p.apiKey == "" {
		return &llm.ConfigurationError{Provider: p.Name(), Setting: p.keySetting}
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

func (p *Provider) Generate(ctx context.Context, req llm.Request) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	body := chatCompletionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var resp chatCompletionResponse
	if err := p.doJSON(ctx, chatCompletionsPath, body, &resp); err != nil {
		return "", err
	}
	text := extractChatText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: empty completion", p.Name())
	}
	return text, nil
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}

func (p *Provider) doJSON(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, &buf)
	if err != nil {
		return err
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &llm.ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.referer != "" {
		req.Header.Set("HTTP-Referer", p.referer)
	}
	if p.title != "" {
		req.Header.Set("X-Title", p.title)
	}
}
