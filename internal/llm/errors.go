package llm

import "fmt"

// ConfigurationError means a required credential is missing. It is never retried.
type ConfigurationError struct {
	Provider string
	Setting  string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "llm not configured"
	}
	return fmt.Sprintf("%s not configured", e.Setting)
}

// ProviderError is a non-success HTTP status from the provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s API error: %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}

func (e *ProviderError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// TimeoutError wraps a provider call that exceeded the per-call timeout
// while the caller's context was still live.
type TimeoutError struct {
	Provider string
	After    string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out after %s", e.Provider, e.After)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
