// Package jsonval reads loosely-typed values decoded from model output.
// Models return numbers as strings, strings as numbers and nulls anywhere,
// so every accessor reports whether the value had a usable shape.
package jsonval

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func List(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// String returns v as text. Numbers are formatted; anything else is "".
func String(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// Int rounds numeric values and parses numeric strings.
func Int(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(math.Round(t)), true
	case int:
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return Int(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return Int(f)
	default:
		return 0, false
	}
}

// Strings returns the non-blank string items of a list. ok is false when v
// is not a list at all.
func Strings(v any) ([]string, bool) {
	l, ok := List(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		s := strings.TrimSpace(String(item))
		if s != "" {
			out = append(out, s)
		}
	}
	return out, true
}
