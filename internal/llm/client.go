package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/yungbote/slideforge-backend/internal/llm/jsonextract"
	"github.com/yungbote/slideforge-backend/internal/llm/ratelimit"
	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type ClientConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Metrics     *observability.Metrics
}

// Client is the Gateway implementation shared by every provider: credential
// check, rate limiting, per-call timeout, then JSON extraction.
type Client struct {
	log      *logger.Logger
	provider Provider
	limiter  *ratelimit.Limiter
	cfg      ClientConfig
}

func NewClient(log *logger.Logger, provider Provider, limiter *ratelimit.Limiter, cfg ClientConfig) *Client {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		log:      log.With("component", "LLMGateway", "provider", provider.Name(), "model", provider.Model()),
		provider: provider,
		limiter:  limiter,
		cfg:      cfg,
	}
}

func (c *Client) Provider() Provider { return c.provider }

func (c *Client) Call(ctx context.Context, systemPrompt, userPrompt string) (any, error) {
	label := ContextLabel(systemPrompt)
	if err := c.provider.Validate(); err != nil {
		c.observe(label, "config_error", 0)
		return nil, err
	}

	waited, err := c.limiter.Wait(ctx)
	if err != nil {
		c.observe(label, "cancelled", 0)
		return nil, err
	}
	if waited > 0 {
		c.cfg.Metrics.ObserveRateLimitWait(c.provider.Name(), waited)
		c.log.Debug("rate limit wait", "context", label, "waited_ms", waited.Milliseconds())
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := c.provider.Generate(callCtx, Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		JSONMode:     true,
		Temperature:  c.cfg.Temperature,
		MaxTokens:    c.cfg.MaxTokens,
	})
	dur := time.Since(start)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = &TimeoutError{Provider: c.provider.Name(), After: c.cfg.Timeout.String(), Err: err}
		}
		outcome := classify(err)
		c.observe(label, outcome, dur)
		c.log.Warn("llm call failed", "context", label, "outcome", outcome, "duration_ms", dur.Milliseconds(), "error", err)
		return nil, err
	}

	value, strategy, err := jsonextract.ExtractStrategy(text, label)
	if err != nil {
		c.observe(label, "extraction_error", dur)
		c.log.Warn("llm response not parseable", "context", label, "raw", rawPreview(text), "raw_len", len(text), "error", err)
		return nil, err
	}
	c.observe(label, "ok", dur)
	c.log.Debug("llm call ok", "context", label, "strategy", string(strategy), "duration_ms", dur.Milliseconds(), "raw_len", len(text))
	return value, nil
}

// maxRawLog bounds how much of an unparseable reply reaches the logs,
// independent of logger redaction settings.
const maxRawLog = 1000

func rawPreview(s string) string {
	if len(s) <= maxRawLog {
		return s
	}
	cut := maxRawLog
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func (c *Client) observe(label, outcome string, dur time.Duration) {
	c.cfg.Metrics.ObserveLLMRequest(c.provider.Name(), label, outcome, dur)
}

func classify(err error) string {
	var cfgErr *ConfigurationError
	var provErr *ProviderError
	var timeoutErr *TimeoutError
	switch {
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.As(err, &provErr):
		return "provider_error"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "transport_error"
	}
}

// String is used in logs and in the /healthcheck detail.
func (c *Client) String() string {
	return fmt.Sprintf("%s(%s)", c.provider.Name(), c.provider.Model())
}
