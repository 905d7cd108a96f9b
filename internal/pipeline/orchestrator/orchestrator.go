// Package orchestrator runs the slide pipeline: segmentation, then per slide
// layout, assets and assembly.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/assets"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/pipeline/layout"
	"github.com/yungbote/slideforge-backend/internal/pipeline/profile"
	"github.com/yungbote/slideforge-backend/internal/pipeline/refine"
	"github.com/yungbote/slideforge-backend/internal/pipeline/segment"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

// ErrCancelled is returned, wrapping the context error, when a run observes
// cancellation.
var ErrCancelled = errors.New("pipeline cancelled")

type Segmenter interface {
	Segment(ctx context.Context, in deck.UserInput) ([]deck.Segment, error)
}

type Planner interface {
	Plan(ctx context.Context, seg deck.Segment, style string) (deck.LayoutPlan, error)
}

type AssetGenerator interface {
	Generate(ctx context.Context, plan deck.LayoutPlan, seg deck.Segment, style, tone string) (deck.SlideAssets, error)
}

type Refiner interface {
	Refine(ctx context.Context, slide deck.AssembledSlide) (deck.Refinement, error)
	Default() deck.Refinement
}

type Stages struct {
	Segmenter Segmenter
	Planner   Planner
	Assets    AssetGenerator
	Refiner   Refiner
}

type Options struct {
	// Concurrency bounds how many slides a batch run builds at once.
	Concurrency int
	// RefineBatch asks the critic to score every slide of a batch run.
	RefineBatch bool
}

type Orchestrator struct {
	log     *logger.Logger
	stages  Stages
	opts    Options
	metrics *observability.Metrics
}

func New(log *logger.Logger, stages Stages, opts Options, metrics *observability.Metrics) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Orchestrator{log: log.With("component", "Orchestrator"), stages: stages, opts: opts, metrics: metrics}
}

// NewForProfile wires the standard stages for one prompt profile.
func NewForProfile(log *logger.Logger, pp profile.PromptProfile, searcher assets.ImageSearcher, texture *assets.TextureSource, concurrency int, metrics *observability.Metrics) *Orchestrator {
	return New(log, Stages{
		Segmenter: segment.New(log, pp, metrics),
		Planner:   layout.New(log, pp, metrics),
		Assets:    assets.NewGenerator(log, searcher, texture, metrics),
		Refiner:   refine.New(log, pp, metrics),
	}, Options{Concurrency: concurrency, RefineBatch: pp.RefineBatch}, metrics)
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}

// stage times fn under a span and records its outcome.
func (o *Orchestrator) stage(ctx context.Context, name string, slideIndex int, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{attribute.String("pipeline.stage", name)}
	if slideIndex > 0 {
		attrs = append(attrs, attribute.Int("pipeline.slide_index", slideIndex))
	}
	spanCtx, span := observability.StartSpan(ctx, "pipeline."+name, attrs...)
	defer span.End()

	start := time.Now()
	err := fn(spanCtx)
	outcome := "ok"
	switch {
	case err != nil && ctx.Err() != nil:
		outcome = "cancelled"
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	o.metrics.ObserveStage(name, outcome, time.Since(start))
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return cerr
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (o *Orchestrator) runSegmentation(ctx context.Context, in deck.UserInput) ([]deck.Segment, error) {
	var segs []deck.Segment
	err := o.stage(ctx, "segmentation", 0, func(ctx context.Context) error {
		var err error
		segs, err = o.stages.Segmenter.Segment(ctx, in)
		return err
	})
	return segs, err
}

func (o *Orchestrator) runLayout(ctx context.Context, seg deck.Segment, style string) (deck.LayoutPlan, error) {
	var plan deck.LayoutPlan
	err := o.stage(ctx, "layout", seg.SlideIndex, func(ctx context.Context) error {
		var err error
		plan, err = o.stages.Planner.Plan(ctx, seg, style)
		return err
	})
	return plan, err
}

func (o *Orchestrator) runAssets(ctx context.Context, plan deck.LayoutPlan, seg deck.Segment, in deck.UserInput) (deck.SlideAssets, error) {
	var a deck.SlideAssets
	err := o.stage(ctx, "assets", seg.SlideIndex, func(ctx context.Context) error {
		var err error
		a, err = o.stages.Assets.Generate(ctx, plan, seg, in.Style, in.Tone)
		return err
	})
	return a, err
}

func (o *Orchestrator) defaultRefinement() deck.Refinement {
	if o.stages.Refiner == nil {
		return deck.DefaultRefinement()
	}
	return o.stages.Refiner.Default()
}

func (o *Orchestrator) finish(span trace.Span, mode string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrCancelled):
		outcome = "cancelled"
	case err != nil:
		outcome = "error"
		span.SetStatus(codes.Error, err.Error())
	}
	o.metrics.IncRun(mode, outcome)
}
