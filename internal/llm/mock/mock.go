// Package mock provides a scripted Gateway. Unscripted calls fail with a
// ProviderError, which drives every stage onto its deterministic fallback.
package mock

import (
	"context"
	"net/http"
	"sync"

	"github.com/yungbote/slideforge-backend/internal/llm"
	"github.com/yungbote/slideforge-backend/internal/llm/jsonextract"
)

// Response is one scripted reply. Raw is passed through the extractor;
// Value is returned as-is; Err is returned instead of either.
type Response struct {
	Value any
	Raw   string
	Err   error
}

type Call struct {
	Context      string
	SystemPrompt string
	UserPrompt   string
}

type Gateway struct {
	mu      sync.Mutex
	scripts map[string][]Response
	calls   []Call
}

func New() *Gateway {
	return &Gateway{scripts: make(map[string][]Response)}
}

// On queues responses for a context label. The last queued response repeats.
func (g *Gateway) On(contextLabel string, responses ...Response) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scripts[contextLabel] = append(g.scripts[contextLabel], responses...)
	return g
}

func (g *Gateway) Call(ctx context.Context, systemPrompt, userPrompt string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	label := llm.ContextLabel(systemPrompt)

	g.mu.Lock()
	g.calls = append(g.calls, Call{Context: label, SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	queue := g.scripts[label]
	var resp Response
	scripted := len(queue) > 0
	if scripted {
		resp = queue[0]
		if len(queue) > 1 {
			g.scripts[label] = queue[1:]
		}
	}
	g.mu.Unlock()

	if !scripted {
		return nil, &llm.ProviderError{Provider: "mock", StatusCode: http.StatusServiceUnavailable, Body: "no scripted response for " + label}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.Raw != "" {
		return jsonextract.Extract(resp.Raw, label)
	}
	return resp.Value, nil
}

func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// CallsFor counts calls issued under a context label.
func (g *Gateway) CallsFor(contextLabel string) int {
	n := 0
	for _, c := range g.Calls() {
		if c.Context == contextLabel {
			n++
		}
	}
	return n
}

// Func adapts a plain function to llm.Gateway.
type Func func(ctx context.Context, systemPrompt, userPrompt string) (any, error)

func (f Func) Call(ctx context.Context, systemPrompt, userPrompt string) (any, error) {
	return f(ctx, systemPrompt, userPrompt)
}
