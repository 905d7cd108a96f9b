// Package assets derives the visual assets of one slide from its layout plan:
// gradient, blobs, icons, grain texture and a stock photo.
package assets

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

const IconSize = 48

type Generator struct {
	log      *logger.Logger
	searcher ImageSearcher
	texture  *TextureSource
	metrics  *observability.Metrics
}

func NewGenerator(log *logger.Logger, searcher ImageSearcher, texture *TextureSource, metrics *observability.Metrics) *Generator {
	if texture == nil {
		texture = NewTextureSource(TextureModeOff)
	}
	return &Generator{log: log.With("stage", "assets"), searcher: searcher, texture: texture, metrics: metrics}
}

// Generate never fails on a missing image. Errors come from ctx or from the
// texture renderer.
func (g *Generator) Generate(ctx context.Context, plan deck.LayoutPlan, seg deck.Segment, style, tone string) (deck.SlideAssets, error) {
	gradient := ThemedGradient(style)
	out := deck.SlideAssets{
		Gradient: gradient,
		Blobs:    Blobs(plan, seg, gradient.Primary()),
		Icons:    Icons(plan, seg, gradient.Primary()),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		out.Image = g.searchImage(egCtx, seg.Keywords, tone)
		return nil
	})
	eg.Go(func() error {
		tex, err := g.texture.Grain(deck.CanvasWidth, deck.CanvasHeight, TextureOpacity)
		if err != nil {
			return err
		}
		out.Texture = tex
		return nil
	})
	if err := eg.Wait(); err != nil {
		return deck.SlideAssets{}, err
	}
	if err := ctx.Err(); err != nil {
		return deck.SlideAssets{}, err
	}
	return out, nil
}

// Blobs synthesizes one blob per blob element, all seeded by the slide index.
func Blobs(plan deck.LayoutPlan, seg deck.Segment, color string) []deck.Blob {
	seed := BlobSeed(seg.SlideIndex)
	var out []deck.Blob
	for _, el := range plan.All(deck.KindBlob) {
		w, h := el.Width, el.Height
		if w <= 0 {
			w = defaultBlobWidth
		}
		if h <= 0 {
			h = defaultBlobHeight
		}
		out = append(out, deck.Blob{
			SVG:    BlobSVG(BlobParams{Seed: seed, Complexity: BlobComplexity, Contrast: BlobContrast, Color: color}),
			Seed:   seed,
			X:      el.X,
			Y:      el.Y,
			Width:  w,
			Height: h,
			Color:  color,
		})
	}
	return out
}

// Icons maps the i-th icon placeholder to the i-th keyword.
func Icons(plan deck.LayoutPlan, seg deck.Segment, color string) []deck.Icon {
	var out []deck.Icon
	for i, el := range plan.All(deck.KindIconPlaceholder) {
		kw := seg.Keyword(i)
		if kw == "" {
			kw = "default"
		}
		out = append(out, deck.Icon{
			Name:     IconForKeyword(kw),
			Variant:  deck.IconOutline,
			Color:    color,
			Size:     IconSize,
			Position: deck.Point{X: el.X, Y: el.Y},
		})
	}
	return out
}
