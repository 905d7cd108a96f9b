// Package jsonextract recovers a JSON value from unreliable model output.
//
// Strategies are tried in order and the first successful parse wins:
// direct parse, fenced ```json block, greedy outer braces, aggressive cleanup.
// A failure in one strategy never prevents the next from running.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Strategy string

const (
	StrategyDirect  Strategy = "direct"
	StrategyFence   Strategy = "fence"
	StrategyBraces  Strategy = "braces"
	StrategyCleanup Strategy = "cleanup"
)

var (
	fenceRE        = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	outerBracesRE  = regexp.MustCompile(`(?s)\{.*\}`)
	leadingJunkRE  = regexp.MustCompile(`^[^{]*\{`)
	trailingJunkRE = regexp.MustCompile(`\}[^}]*$`)
	newlineRE      = regexp.MustCompile(`\r\n|\n|\r`)
	controlRE      = regexp.MustCompile(`[\x00-\x1F]+`)
	toAssignRE     = regexp.MustCompile(`\s*to=`)

	smartQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
		"‘", "'", "’", "'",
	)
)

// ExtractionError is returned when every strategy failed.
type ExtractionError struct {
	Context  string
	Attempts map[Strategy]error
	Err      error
}

func (e *ExtractionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("failed to parse JSON for %s: %v", e.Context, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

var errNoCandidate = errors.New("no candidate found")

// Extract parses raw model text. label names the calling stage and only
// appears in the returned error.
func Extract(raw, label string) (any, error) {
	v, _, err := ExtractStrategy(raw, label)
	return v, err
}

// ExtractStrategy is Extract that also reports which strategy succeeded.
func ExtractStrategy(raw, label string) (any, Strategy, error) {
	if label == "" {
		label = "unknown"
	}
	attempts := make(map[Strategy]error, 4)

	steps := []struct {
		name Strategy
		fn   func(string) (any, error)
	}{
		{StrategyDirect, parse},
		{StrategyFence, fromFence},
		{StrategyBraces, fromOuterBraces},
		{StrategyCleanup, fromCleanup},
	}
	var last error
	for _, step := range steps {
		v, err := step.fn(raw)
		if err == nil {
			return v, step.name, nil
		}
		attempts[step.name] = err
		last = err
	}
	return nil, "", &ExtractionError{Context: label, Attempts: attempts, Err: last}
}

func parse(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func fromFence(raw string) (any, error) {
	m := fenceRE.FindStringSubmatch(raw)
	if m == nil {
		return nil, errNoCandidate
	}
	return parse(strings.TrimSpace(m[1]))
}

func fromOuterBraces(raw string) (any, error) {
	m := outerBracesRE.FindString(raw)
	if m == "" {
		return nil, errNoCandidate
	}
	return parse(m)
}

// fromCleanup first applies the lossless repairs and only then the lossy ones
// (unescaping quotes and the "to=" rewrite), so well-formed escapes survive
// when the lighter pass is enough.
func fromCleanup(raw string) (any, error) {
	light := Clean(raw, false)
	v, err := parse(light)
	if err == nil {
		return v, nil
	}
	heavy := Clean(raw, true)
	if heavy == light {
		return nil, err
	}
	return parse(heavy)
}

// Clean applies the aggressive repairs used by the last strategy.
func Clean(raw string, lossy bool) string {
	s := strings.TrimSpace(raw)
	s = leadingJunkRE.ReplaceAllString(s, "{")
	s = trailingJunkRE.ReplaceAllString(s, "}")
	s = newlineRE.ReplaceAllString(s, " ")
	if lossy {
		s = strings.ReplaceAll(s, `\"`, `"`)
	}
	s = smartQuotes.Replace(s)
	s = controlRE.ReplaceAllString(s, "")
	if lossy {
		s = toAssignRE.ReplaceAllString(s, `": "`)
	}
	return s
}
