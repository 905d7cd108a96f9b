package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/assemble"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

// Run builds every slide and returns them in segment order. Slides may be
// built concurrently up to Options.Concurrency.
func (o *Orchestrator) Run(ctx context.Context, in deck.UserInput) (slides []deck.AssembledSlide, err error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.run",
		attribute.String("pipeline.mode", "batch"),
		attribute.Int("pipeline.num_slides", in.NumSlides),
	)
	defer span.End()
	defer func() { o.finish(span, "batch", err) }()

	start := time.Now()
	o.log.Info("pipeline run started", "mode", "batch", "num_slides", in.NumSlides, "verbatim", in.Verbatim)

	segs, err := o.runSegmentation(ctx, in)
	if err != nil {
		return nil, err
	}

	out := make([]deck.AssembledSlide, len(segs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(o.opts.Concurrency)
	for i, seg := range segs {
		eg.Go(func() error {
			s, err := o.buildSlide(egCtx, seg, in)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	o.log.Info("pipeline run complete", "mode", "batch", "slides", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

func (o *Orchestrator) buildSlide(ctx context.Context, seg deck.Segment, in deck.UserInput) (deck.AssembledSlide, error) {
	plan, err := o.runLayout(ctx, seg, in.Style)
	if err != nil {
		return deck.AssembledSlide{}, err
	}
	a, err := o.runAssets(ctx, plan, seg, in)
	if err != nil {
		return deck.AssembledSlide{}, err
	}
	slide := assemble.Slide(seg, plan, a, o.defaultRefinement())
	if !o.opts.RefineBatch || o.stages.Refiner == nil {
		return slide, nil
	}

	var ref deck.Refinement
	err = o.stage(ctx, "refinement", seg.SlideIndex, func(ctx context.Context) error {
		var err error
		ref, err = o.stages.Refiner.Refine(ctx, slide)
		return err
	})
	if err != nil {
		return deck.AssembledSlide{}, err
	}
	return assemble.Slide(seg, plan, a, ref), nil
}
