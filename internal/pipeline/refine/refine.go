// Package refine asks a design critic to score an assembled slide.
package refine

import (
	"context"

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
	return &Stage{log: log.With("stage", "refinement"), pp: pp, metrics: metrics}
}

// Default is the refinement used when no critique is requested or the
// critique fails.
func (s *Stage) Default() deck.Refinement {
	return deck.Refinement{Improvements: []string{}, FinalScore: s.pp.DefaultScore}
}

// Refine scores a slide. Scores are clamped to 0..100; a failed call or a
// missing score yields Default. The only error is ctx's.
func (s *Stage) Refine(ctx context.Context, slide deck.AssembledSlide) (deck.Refinement, error) {
	system, user, err := s.pp.RefinementPrompts(slide)
	if err != nil {
		s.log.Error("render refinement prompt", "error", err)
		return s.Default(), nil
	}
	resp, err := s.pp.Gateway.Call(ctx, system, user)
	if cerr := ctx.Err(); cerr != nil {
		return deck.Refinement{}, cerr
	}
	if err != nil {
		s.log.Warn("refinement call failed; using default score", "slide_index", slide.Meta.SlideIndex, "error", err)
		s.metrics.IncFallback("refinement")
		return s.Default(), nil
	}
	obj, _ := jsonval.Object(resp)
	score, ok := jsonval.Int(obj["final_score"])
	if !ok {
		s.metrics.IncFallback("refinement")
		return s.Default(), nil
	}
	improvements, _ := jsonval.Strings(obj["improvements"])
	if improvements == nil {
		improvements = []string{}
	}
	return deck.Refinement{Improvements: improvements, FinalScore: min(max(score, 0), 100)}, nil
}
