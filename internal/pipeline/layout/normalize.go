package layout

import (
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/pipeline/profile"
)

// Normalize keeps every element inside the canvas and guarantees the plan has
// a headline and a decorative element. Compositions the profile does not
// allow become centered. Overlap is not resolved.
func Normalize(plan deck.LayoutPlan, p *profile.Profile, seg deck.Segment) deck.LayoutPlan {
	grid := 0
	if p != nil {
		grid = p.GridSnap
	}
	out := deck.LayoutPlan{Composition: plan.Composition, Elements: make([]deck.LayoutElement, 0, len(plan.Elements)+2)}
	if p == nil || !p.AllowsComposition(out.Composition) {
		out.Composition = deck.CompositionCentered
	}

	var hasHeadline, hasDecor bool
	for _, el := range plan.Elements {
		el = clampElement(el, grid)
		switch el.Kind {
		case deck.KindHeadline:
			hasHeadline = true
		case deck.KindBlob, deck.KindIconPlaceholder:
			hasDecor = true
		}
		out.Elements = append(out.Elements, el)
	}

	fb := Fallback(seg)
	if !hasHeadline {
		h, _ := fb.First(deck.KindHeadline)
		out.Elements = append(out.Elements, h)
	}
	if !hasDecor {
		b, _ := fb.First(deck.KindBlob)
		out.Elements = append(out.Elements, b)
	}
	return out
}

func clampElement(el deck.LayoutElement, grid int) deck.LayoutElement {
	if grid > 0 {
		el.X = snap(el.X, grid)
		el.Y = snap(el.Y, grid)
		el.Width = snap(el.Width, 2*grid)
		el.Height = snap(el.Height, 2*grid)
	}
	el.X = clamp(el.X, 0, deck.CanvasWidth)
	el.Y = clamp(el.Y, 0, deck.CanvasHeight)
	el.Width = clamp(el.Width, 0, deck.CanvasWidth-el.X)
	el.Height = clamp(el.Height, 0, deck.CanvasHeight-el.Y)
	return el
}

func snap(v, step int) int {
	if v <= 0 {
		return v
	}
	return ((v + step/2) / step) * step
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
