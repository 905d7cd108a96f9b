package assets

import (
	"fmt"
	"strings"

	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

const defaultGradientAngle = 135

var defaultPalette = []string{"#667eea", "#764ba2"}

var stylePalettes = map[string][]string{
	"modern minimal": {"#f5f5f5", "#ffffff"},
	"bold pastel":    {"#ffd1dc", "#ffb3d9"},
	"corporate":      {"#1e3a8a", "#3b82f6"},
	"warm":           {"#fbbf24", "#f59e0b"},
	"cool":           {"#06b6d4", "#0891b2"},
	"dark":           {"#0a0a0a", "#1a1a1a"},
}

// ThemedGradient looks the style up case-insensitively. Unknown styles get
// the purple default.
func ThemedGradient(style string) deck.Gradient {
	colors, ok := stylePalettes[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		colors = defaultPalette
	}
	return NewGradient(deck.GradientLinear, defaultGradientAngle, colors...)
}

func NewGradient(kind deck.GradientType, angle int, colors ...string) deck.Gradient {
	colors = append([]string(nil), colors...)
	return deck.Gradient{CSS: GradientCSS(kind, angle, colors), Type: kind, Colors: colors, Angle: angle}
}

func GradientCSS(kind deck.GradientType, angle int, colors []string) string {
	stops := strings.Join(colors, ", ")
	switch kind {
	case deck.GradientRadial:
		return fmt.Sprintf("radial-gradient(circle, %s)", stops)
	case deck.GradientConic:
		return fmt.Sprintf("conic-gradient(from %ddeg, %s)", angle, stops)
	default:
		return fmt.Sprintf("linear-gradient(%ddeg, %s)", angle, stops)
	}
}
