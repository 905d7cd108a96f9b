// Package layout plans element positions for one slide.
package layout

import (
	"context"
	"strings"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/pipeline/jsonval"
	"github.com/yungbote/slideforge-backend/internal/pipeline/profile"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type Stage struct {
	log     *logger.Logger
	pp      profile.PromptProfile
	metrics *observability.Metrics
}

func New(log *logger.Logger, pp profile.PromptProfile, metrics *observability.Metrics) *Stage {
	return &Stage{log: log.With("stage", "layout"), pp: pp, metrics: metrics}
}

// Plan asks the model for a layout and normalizes it. A response without an
// element list, or with no usable elements, yields Fallback. The only error
// is ctx's.
func (s *Stage) Plan(ctx context.Context, seg deck.Segment, style string) (deck.LayoutPlan, error) {
	system, user, err := s.pp.LayoutPrompts(seg, style)
	if err != nil {
		s.log.Error("render layout prompt", "error", err)
		return s.fallback(seg, "render"), nil
	}

	resp, err := s.pp.Gateway.Call(ctx, system, user)
	if cerr := ctx.Err(); cerr != nil {
		return deck.LayoutPlan{}, cerr
	}
	if err != nil {
		s.log.Warn("layout call failed; using fallback", "slide_index", seg.SlideIndex, "error", err)
		return s.fallback(seg, "gateway"), nil
	}

	obj, ok := jsonval.Object(resp)
	if !ok {
		return s.fallback(seg, "not_object"), nil
	}
	rawElements, ok := jsonval.List(obj["elements"])
	if !ok {
		return s.fallback(seg, "no_elements"), nil
	}
	plan := deck.LayoutPlan{Composition: deck.Composition(strings.TrimSpace(jsonval.String(obj["composition"])))}
	for _, raw := range rawElements {
		if el, ok := parseElement(raw); ok {
			plan.Elements = append(plan.Elements, el)
		}
	}
	if len(plan.Elements) == 0 {
		return s.fallback(seg, "no_usable_elements"), nil
	}
	return Normalize(plan, s.pp.Profile, seg), nil
}

func (s *Stage) fallback(seg deck.Segment, reason string) deck.LayoutPlan {
	s.metrics.IncFallback("layout")
	s.log.Info("layout fallback", "slide_index", seg.SlideIndex, "reason", reason)
	return Fallback(seg)
}

// Fallback is the fixed centered plan used whenever the model's plan is unusable.
func Fallback(deck.Segment) deck.LayoutPlan {
	return deck.LayoutPlan{
		Composition: deck.CompositionCentered,
		Elements: []deck.LayoutElement{
			{Kind: deck.KindHeadline, X: 100, Y: 250, Width: 1400, Align: deck.AlignCenter},
			{Kind: deck.KindBody, X: 200, Y: 450, Width: 1200, Align: deck.AlignCenter},
			{Kind: deck.KindBlob, X: 50, Y: 650, Width: 300, Height: 250},
			{Kind: deck.KindIconPlaceholder, X: 1350, Y: 700},
		},
	}
}

func parseElement(raw any) (deck.LayoutElement, bool) {
	obj, ok := jsonval.Object(raw)
	if !ok {
		return deck.LayoutElement{}, false
	}
	kind, ok := deck.ParseElementKind(jsonval.String(obj["type"]))
	if !ok {
		return deck.LayoutElement{}, false
	}
	x, okX := jsonval.Int(obj["x"])
	y, okY := jsonval.Int(obj["y"])
	if !okX || !okY {
		return deck.LayoutElement{}, false
	}
	el := deck.LayoutElement{Kind: kind, X: x, Y: y}
	el.Width, _ = jsonval.Int(obj["width"])
	el.Height, _ = jsonval.Int(obj["height"])
	switch a := deck.TextAlign(strings.ToLower(strings.TrimSpace(jsonval.String(obj["align"])))); a {
	case deck.AlignLeft, deck.AlignCenter, deck.AlignRight:
		el.Align = a
	}
	return el, true
}
