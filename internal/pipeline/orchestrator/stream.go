package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/assemble"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

const (
	segmentationStartPct = 5
	segmentationDonePct  = 15
	slidesBudgetPct      = 70
	finalizingPct        = 95
)

// emitter drops every event once the run's context is done and clamps each
// percentage to the highest one already sent.
type emitter struct {
	ctx  context.Context
	fn   deck.ProgressFunc
	high float64
}

func (e *emitter) emit(p deck.Progress) {
	if e.fn == nil || e.ctx.Err() != nil {
		return
	}
	if p.Percentage < e.high {
		p.Percentage = e.high
	}
	e.high = p.Percentage
	e.fn(p)
}

// slidePct places frac of slide i (0-based) inside the per-slide budget.
func slidePct(i int, frac, per float64) float64 {
	return segmentationDonePct + per*(float64(i)+frac)
}

// RunStream builds slides one at a time, reporting each sub-step to
// onProgress synchronously. Percentages never decrease. No event is emitted
// after cancellation is observed.
func (o *Orchestrator) RunStream(ctx context.Context, in deck.UserInput, onProgress deck.ProgressFunc) (slides []deck.AssembledSlide, err error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.run",
		attribute.String("pipeline.mode", "stream"),
		attribute.Int("pipeline.num_slides", in.NumSlides),
	)
	defer span.End()
	defer func() { o.finish(span, "stream", err) }()

	start := time.Now()
	e := &emitter{ctx: ctx, fn: onProgress}
	o.log.Info("pipeline run started", "mode", "stream", "num_slides", in.NumSlides, "verbatim", in.Verbatim)

	e.emit(deck.Progress{
		Type:       deck.ProgressStatus,
		Step:       deck.StepSegmentation,
		Message:    "📝 Analyzing content and splitting into slides...",
		Percentage: segmentationStartPct,
	})
	segs, err := o.runSegmentation(ctx, in)
	if err != nil {
		return nil, err
	}
	total := len(segs)
	e.emit(deck.Progress{
		Type:        deck.ProgressStatus,
		Step:        deck.StepSegmentationComplete,
		Message:     fmt.Sprintf("✅ Created %d slide outlines", total),
		TotalSlides: total,
		Percentage:  segmentationDonePct,
	})

	out := make([]deck.AssembledSlide, 0, total)
	per := float64(slidesBudgetPct) / float64(max(total, 1))
	for i, seg := range segs {
		n := i + 1
		at := func(frac float64) float64 { return slidePct(i, frac, per) }

		e.emit(deck.Progress{
			Type:        deck.ProgressStatus,
			Step:        deck.StepSlideStart,
			Message:     fmt.Sprintf("🎨 Designing slide %d/%d: \"%s\"", n, total, seg.Title),
			SlideIndex:  n,
			TotalSlides: total,
			Percentage:  at(0),
		})

		e.emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepLayout, Message: "📐 Planning layout composition...", SlideIndex: n, Percentage: at(0.2)})
		plan, err := o.runLayout(ctx, seg, in.Style)
		if err != nil {
			return nil, err
		}
		e.emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepLayoutComplete, Message: fmt.Sprintf("✓ Layout: %s", plan.Composition), SlideIndex: n, Percentage: at(0.3)})

		e.emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepAssets, Message: "🖼️ Generating visuals (blobs, gradients, icons)...", SlideIndex: n, Percentage: at(0.4)})
		a, err := o.runAssets(ctx, plan, seg, in)
		if err != nil {
			return nil, err
		}
		if a.Image != nil {
			e.emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepImageFound, Message: fmt.Sprintf("📸 Found image by %s", a.Image.Photographer), SlideIndex: n, Percentage: at(0.6)})
		}

		e.emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepAssembling, Message: "🔧 Assembling slide elements...", SlideIndex: n, Percentage: at(0.8)})
		slide := assemble.Slide(seg, plan, a, o.defaultRefinement())
		out = append(out, slide)
		if err := cancelled(ctx); err != nil {
			return nil, err
		}

		preview := slide
		e.emit(deck.Progress{
			Type:         deck.ProgressSlidePreview,
			Step:         deck.StepSlideComplete,
			Message:      fmt.Sprintf("✅ Slide %d complete!", n),
			SlideIndex:   n,
			TotalSlides:  total,
			SlidePreview: &preview,
			Percentage:   at(1),
		})
	}

	e.emit(deck.Progress{
		Type:       deck.ProgressStatus,
		Step:       deck.StepFinalizing,
		Message:    "🎉 All slides designed! Finalizing presentation...",
		Percentage: finalizingPct,
	})
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	o.log.Info("pipeline run complete", "mode", "stream", "slides", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}
