// Package assemble combines a slide's outline, layout and assets into the
// renderer-agnostic slide.
package assemble

import (
	"github.com/yungbote/slideforge-backend/internal/pipeline/assets"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

// Slide is pure and total. The refinement score is copied as given; callers
// without a critique pass deck.DefaultRefinement.
func Slide(seg deck.Segment, plan deck.LayoutPlan, a deck.SlideAssets, ref deck.Refinement) deck.AssembledSlide {
	return deck.AssembledSlide{
		Background: background(a),
		Shapes:     shapes(seg, a.Blobs),
		Icons:      append([]deck.Icon{}, a.Icons...),
		Image:      image(plan, a.Image),
		Text: deck.TextBlock{
			Headline: seg.Title,
			Subtext:  seg.Subtitle,
			Body:     seg.BodyText,
			Color:    deck.DefaultTextColor,
			Font:     deck.DefaultFont,
			Layout:   textLayout(plan),
		},
		Meta: deck.SlideMeta{
			SlideIndex:   seg.SlideIndex,
			Composition:  plan.Composition,
			Score:        ref.FinalScore,
			Keywords:     append([]string{}, seg.Keywords...),
			Improvements: append([]string(nil), ref.Improvements...),
		},
	}
}

func background(a deck.SlideAssets) deck.Background {
	from := a.Gradient.Primary()
	to := from
	if len(a.Gradient.Colors) > 1 {
		to = a.Gradient.Colors[1]
	}
	angle := a.Gradient.Angle
	if angle == 0 {
		angle = 135
	}
	return deck.Background{
		Gradient: deck.BackgroundGradient{From: from, To: to, Angle: angle, Type: a.Gradient.Type, CSS: a.Gradient.CSS},
		Texture:  deck.BackgroundTexture{Type: assets.TextureType, Opacity: a.Texture.Opacity, DataURL: a.Texture.DataURL},
	}
}

func shapes(seg deck.Segment, blobs []deck.Blob) []deck.Shape {
	out := make([]deck.Shape, 0, len(blobs))
	for _, b := range blobs {
		seed := b.Seed
		if seed == "" {
			seed = assets.BlobSeed(seg.SlideIndex)
		}
		out = append(out, deck.Shape{
			Type:       deck.ShapeBlob,
			Seed:       seed,
			Color:      b.Color,
			Complexity: assets.BlobComplexity,
			Contrast:   assets.BlobContrast,
			SVG:        b.SVG,
			X:          b.X,
			Y:          b.Y,
			Width:      b.Width,
			Height:     b.Height,
		})
	}
	return out
}

func image(plan deck.LayoutPlan, photo *deck.Photo) *deck.PlacedImage {
	if photo == nil {
		return nil
	}
	img := &deck.PlacedImage{URL: photo.Src.Large, Photographer: photo.Photographer, Fit: "cover"}
	if img.URL == "" {
		img.URL = photo.Src.Original
	}
	if el, ok := plan.First(deck.KindImagePlaceholder); ok {
		img.Rect = &deck.Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
	}
	return img
}

func textLayout(plan deck.LayoutPlan) *deck.TextLayout {
	var tl deck.TextLayout
	if el, ok := plan.First(deck.KindHeadline); ok {
		tl.Headline = box(el)
	}
	if el, ok := plan.First(deck.KindBody); ok {
		tl.Body = box(el)
	}
	if tl.Headline == nil && tl.Body == nil {
		return nil
	}
	return &tl
}

func box(el deck.LayoutElement) *deck.TextBox {
	return &deck.TextBox{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height, Align: el.Align}
}
