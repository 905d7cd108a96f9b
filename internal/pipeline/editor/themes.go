package editor

import (
	"slices"
	"sort"
	"strings"
)

const DefaultTheme = "modern-blue"

type Theme struct {
	Name       string
	Background Background
	Title      Style
	Body       Style
}

var Themes = map[string]Theme{
	"modern-blue": {
		Name:       "modern-blue",
		Background: gradient(32, "#0B1220", "#1C2B4A"),
		Title:      Style{FontFamily: "DM Sans", FontSize: 72, FontWeight: 700, Fill: "#FFFFFF", Align: "center"},
		Body:       Style{FontFamily: "Inter", FontSize: 36, FontWeight: 500, Fill: "#E6E9EF", Align: "center", LineHeight: 1.5},
	},
	"minimal-light": {
		Name:       "minimal-light",
		Background: solid("#FFFFFF"),
		Title:      Style{FontFamily: "DM Sans", FontSize: 68, FontWeight: 700, Fill: "#0B0D0F", Align: "center"},
		Body:       Style{FontFamily: "Inter", FontSize: 34, FontWeight: 400, Fill: "#1A1D22", Align: "center", LineHeight: 1.5},
	},
	"warm-gradient": {
		Name:       "warm-gradient",
		Background: gradient(135, "#2D1810", "#5C3A21"),
		Title:      Style{FontFamily: "DM Sans", FontSize: 70, FontWeight: 700, Fill: "#F5C26B", Align: "center"},
		Body:       Style{FontFamily: "Inter", FontSize: 36, FontWeight: 400, Fill: "#F2F3F5", Align: "center", LineHeight: 1.5},
	},
	"dark-elegant": {
		Name:       "dark-elegant",
		Background: solid("#0A0A0A"),
		Title:      Style{FontFamily: "DM Sans", FontSize: 75, FontWeight: 700, Fill: "#FFFFFF", Align: "center", LetterSpacing: -1},
		Body:       Style{FontFamily: "Inter", FontSize: 36, FontWeight: 300, Fill: "#A0A0A0", Align: "center", LineHeight: 1.7},
	},
	"ocean-depth": {
		Name:       "ocean-depth",
		Background: gradient(180, "#0C2340", "#16425B", "#1A5F7A"),
		Title:      Style{FontFamily: "DM Sans", FontSize: 72, FontWeight: 700, Fill: "#FFFFFF", Align: "center"},
		Body:       Style{FontFamily: "Inter", FontSize: 36, FontWeight: 400, Fill: "#E0F4FF", Align: "center", LineHeight: 1.5},
	},
	"sunset-glow": {
		Name:       "sunset-glow",
		Background: gradient(45, "#1A1A2E", "#3E2C41", "#4A1C40"),
		Title:      Style{FontFamily: "DM Sans", FontSize: 70, FontWeight: 700, Fill: "#FFB6C1", Align: "center"},
		Body:       Style{FontFamily: "Inter", FontSize: 34, FontWeight: 400, Fill: "#FFC8D3", Align: "center", LineHeight: 1.6},
	},
}

func gradient(angle int, colors ...string) Background {
	return Background{Type: BackgroundGradient, Gradient: &GradientFill{Angle: angle, Colors: colors}}
}

func solid(color string) Background {
	return Background{Type: BackgroundSolid, Solid: &SolidFill{Color: color}}
}

// ThemeNames lists the presets in a stable order.
func ThemeNames() []string {
	out := make([]string, 0, len(Themes))
	for k := range Themes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LookupTheme falls back to DefaultTheme for unknown names.
func LookupTheme(name string) Theme {
	if t, ok := Themes[strings.TrimSpace(strings.ToLower(name))]; ok {
		return t
	}
	return Themes[DefaultTheme]
}

// ApplyTheme returns a copy of s with the preset's background and text styles.
// Positions and non-text elements are untouched.
func ApplyTheme(s Slide, name string) Slide {
	t := LookupTheme(name)
	out := s
	out.Background = cloneBackground(t.Background)
	out.Elements = slices.Clone(s.Elements)
	for i, el := range out.Elements {
		if el.Type != ElementText {
			continue
		}
		st := t.Body
		if strings.HasPrefix(el.ID, "title-") {
			st = t.Title
		}
		if el.Style.Align != "" {
			st.Align = el.Style.Align
		}
		out.Elements[i].Style = st
	}
	out.Meta.Theme = t.Name
	return out
}

func cloneBackground(b Background) Background {
	out := Background{Type: b.Type}
	if b.Solid != nil {
		s := *b.Solid
		out.Solid = &s
	}
	if b.Gradient != nil {
		out.Gradient = &GradientFill{Angle: b.Gradient.Angle, Colors: slices.Clone(b.Gradient.Colors)}
	}
	if b.Image != nil {
		im := *b.Image
		out.Image = &im
	}
	return out
}
