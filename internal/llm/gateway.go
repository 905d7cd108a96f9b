// Package llm sends prompt pairs to a text-generation provider and returns
// the JSON value recovered from the model's reply.
package llm

import (
	"context"
	"strings"
)

// Gateway is what pipeline stages depend on.
type Gateway interface {
	Call(ctx context.Context, systemPrompt, userPrompt string) (any, error)
}

// Request is the provider-neutral form of one generation call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	JSONMode     bool
	Temperature  float64
	MaxTokens    int
}

// Provider adapts one vendor's request/response envelope. Generate returns the
// raw text content of the model reply.
type Provider interface {
	Name() string
	Model() string
	// Validate reports a *ConfigurationError when no credential is set.
	// It never touches the network.
	Validate() error
	Generate(ctx context.Context, req Request) (string, error)
}

const (
	ContextSegmentation = "segmentation"
	ContextLayout       = "layout"
	ContextRefinement   = "refinement"
	ContextUnknown      = "unknown"
)

// ContextLabel infers which stage issued a call from its system prompt.
// The label is diagnostic only.
func ContextLabel(systemPrompt string) string {
	switch {
	case strings.Contains(systemPrompt, "presentation designer"),
		strings.Contains(systemPrompt, "Split the user"):
		return ContextSegmentation
	case strings.Contains(systemPrompt, "Plan element positions"),
		strings.Contains(systemPrompt, "1600x900px"):
		return ContextLayout
	case strings.Contains(systemPrompt, "design critic"):
		return ContextRefinement
	default:
		return ContextUnknown
	}
}
