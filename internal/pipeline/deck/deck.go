// Package deck holds the value types passed between pipeline stages. Every
// stage returns new values and never mutates its inputs.
package deck

import "strings"

const (
	CanvasWidth  = 1600
	CanvasHeight = 900
)

// UserInput is one generation request as accepted at the API boundary.
type UserInput struct {
	Prompt    string `json:"prompt"`
	NumSlides int    `json:"num_slides"`
	Tone      string `json:"tone"`
	Style     string `json:"style"`
	Verbatim  bool   `json:"use_word_for_word"`
}

// Segment is the content outline of one slide. SlideIndex is 1-based.
type Segment struct {
	SlideIndex int      `json:"slide_index"`
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	BodyText   string   `json:"body_text"`
	Keywords   []string `json:"keywords"`
}

// Keyword returns the i-th keyword or "".
func (s Segment) Keyword(i int) string {
	if i < 0 || i >= len(s.Keywords) {
		return ""
	}
	return s.Keywords[i]
}

type ElementKind string

const (
	KindHeadline         ElementKind = "headline"
	KindBody             ElementKind = "body"
	KindImagePlaceholder ElementKind = "image_placeholder"
	KindIconPlaceholder  ElementKind = "icon_placeholder"
	KindBlob             ElementKind = "blob"
)

var elementKinds = map[string]ElementKind{
	"headline":          KindHeadline,
	"title":             KindHeadline,
	"body":              KindBody,
	"image_placeholder": KindImagePlaceholder,
	"image":             KindImagePlaceholder,
	"icon_placeholder":  KindIconPlaceholder,
	"icon":              KindIconPlaceholder,
	"blob":              KindBlob,
}

// ParseElementKind maps a model-supplied type string onto a known kind.
func ParseElementKind(raw string) (ElementKind, bool) {
	k, ok := elementKinds[strings.ToLower(strings.TrimSpace(raw))]
	return k, ok
}

func (k ElementKind) IsText() bool { return k == KindHeadline || k == KindBody }

type Composition string

const (
	CompositionRuleOfThirds   Composition = "rule_of_thirds"
	CompositionCentered       Composition = "centered"
	CompositionAsymmetric     Composition = "asymmetric"
	CompositionSplitScreen    Composition = "split_screen"
	CompositionHeroBackground Composition = "hero_background"
)

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// LayoutElement is one positioned placeholder in canvas space. Width and
// Height are zero when the plan did not specify them.
type LayoutElement struct {
	Kind   ElementKind `json:"type"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Align  TextAlign   `json:"align,omitempty"`
}

type LayoutPlan struct {
	Composition Composition     `json:"composition"`
	Elements    []LayoutElement `json:"elements"`
}

// First returns the first element of kind k.
func (p LayoutPlan) First(k ElementKind) (LayoutElement, bool) {
	for _, el := range p.Elements {
		if el.Kind == k {
			return el, true
		}
	}
	return LayoutElement{}, false
}

// All returns every element of kind k in plan order.
func (p LayoutPlan) All(k ElementKind) []LayoutElement {
	var out []LayoutElement
	for _, el := range p.Elements {
		if el.Kind == k {
			out = append(out, el)
		}
	}
	return out
}

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
