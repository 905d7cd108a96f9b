// Package editor converts assembled slides into the flat element document
// the canvas editor works on.
package editor

import (
	"fmt"
	"time"

	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

const (
	CanvasWidth  = deck.CanvasWidth
	CanvasHeight = deck.CanvasHeight

	DecorationOpacity = 0.3
	decorationZ       = 0
	imageZ            = 5
	textZ             = 10
	iconZ             = 11
)

type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
)

type SolidFill struct {
	Color string `json:"color"`
}

type GradientFill struct {
	Angle  int      `json:"angle"`
	Colors []string `json:"colors"`
}

type ImageFill struct {
	URL string `json:"url"`
}

type Background struct {
	Type     BackgroundType `json:"type"`
	Solid    *SolidFill     `json:"solid,omitempty"`
	Gradient *GradientFill  `json:"gradient,omitempty"`
	Image    *ImageFill     `json:"image,omitempty"`
}

type ElementType string

const (
	ElementText  ElementType = "text"
	ElementRect  ElementType = "rect"
	ElementImage ElementType = "image"
	ElementShape ElementType = "shape"
)

type Props struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Opacity  float64 `json:"opacity,omitempty"`
	ZIndex   int     `json:"zIndex"`
}

type Style struct {
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSize      int     `json:"fontSize,omitempty"`
	FontWeight    int     `json:"fontWeight,omitempty"`
	Fill          string  `json:"fill,omitempty"`
	Align         string  `json:"align,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	Radius        float64 `json:"radius,omitempty"`
}

type Element struct {
	ID      string      `json:"id"`
	Type    ElementType `json:"type"`
	Props   Props       `json:"props"`
	Style   Style       `json:"style"`
	Content string      `json:"content,omitempty"`
}

type Meta struct {
	Title string `json:"title,omitempty"`
	Notes string `json:"notes,omitempty"`
	Theme string `json:"theme,omitempty"`
}

type Slide struct {
	ID         string     `json:"id"`
	Background Background `json:"background"`
	Elements   []Element  `json:"elements"`
	Meta       Meta       `json:"meta"`
}

// Document is the editor's top-level shape.
type Document struct {
	Slides []Slide `json:"slides"`
}

var (
	headlineSlot = deck.Rect{X: 100, Y: 200, Width: CanvasWidth - 200, Height: 150}
	subtextSlot  = deck.Rect{X: 150, Y: 340, Width: CanvasWidth - 300, Height: 60}
	bodySlot     = deck.Rect{X: 150, Y: 400, Width: CanvasWidth - 300, Height: 350}
	imageSlot    = deck.Rect{X: 900, Y: 150, Width: 600, Height: 600}
)

// IconMarker is the content payload of an icon element.
func IconMarker(name string, variant deck.IconVariant) string {
	if variant == "" {
		variant = deck.IconOutline
	}
	return fmt.Sprintf("icon:%s:%s", name, variant)
}

// Convert is total and does not modify s. Everything except the slide ID is a
// function of s alone.
func Convert(s deck.AssembledSlide) Slide {
	i := s.Meta.SlideIndex
	var els []Element

	for j, sh := range s.Shapes {
		els = append(els, Element{
			ID:   fmt.Sprintf("blob-%d-%d", i, j),
			Type: ElementShape,
			Props: Props{
				X: float64(sh.X), Y: float64(sh.Y),
				Width: float64(sh.Width), Height: float64(sh.Height),
				Opacity: DecorationOpacity, ZIndex: decorationZ,
			},
			Style:   Style{Fill: sh.Color},
			Content: sh.SVG,
		})
	}

	if s.Image != nil {
		r := imageSlot
		if pr := s.Image.Rect; pr != nil {
			r = *pr
			if r.Width <= 0 {
				r.Width = imageSlot.Width
			}
			if r.Height <= 0 {
				r.Height = imageSlot.Height
			}
		}
		els = append(els, Element{
			ID:      fmt.Sprintf("image-%d", i),
			Type:    ElementImage,
			Props:   rectProps(r, imageZ),
			Content: s.Image.URL,
		})
	}

	head, sub, body := textSlots(s.Text.Layout)
	align := func(b *deck.TextBox) string {
		if b != nil && b.Align != "" {
			return string(b.Align)
		}
		return string(deck.AlignCenter)
	}
	var hb, bb *deck.TextBox
	if s.Text.Layout != nil {
		hb, bb = s.Text.Layout.Headline, s.Text.Layout.Body
	}
	els = append(els,
		textElement(fmt.Sprintf("title-%d", i), head, s.Text.Headline, Style{
			FontFamily: s.Text.Font, FontSize: 72, FontWeight: 700, Fill: s.Text.Color, Align: align(hb), LineHeight: 1.2,
		}),
		textElement(fmt.Sprintf("subtext-%d", i), sub, s.Text.Subtext, Style{
			FontFamily: s.Text.Font, FontSize: 40, FontWeight: 500, Fill: s.Text.Color, Align: align(hb), LineHeight: 1.3,
		}),
		textElement(fmt.Sprintf("body-%d", i), body, s.Text.Body, Style{
			FontFamily: s.Text.Font, FontSize: 36, FontWeight: 400, Fill: s.Text.Color, Align: align(bb), LineHeight: 1.5,
		}),
	)

	for j, ic := range s.Icons {
		els = append(els, Element{
			ID:   fmt.Sprintf("icon-%d-%d", i, j),
			Type: ElementShape,
			Props: Props{
				X: float64(ic.Position.X), Y: float64(ic.Position.Y),
				Width: float64(ic.Size), Height: float64(ic.Size),
				Opacity: 1, ZIndex: iconZ,
			},
			Style:   Style{Fill: ic.Color},
			Content: IconMarker(ic.Name, ic.Variant),
		})
	}

	return Slide{
		ID:         fmt.Sprintf("slide-%d-%d", i, time.Now().UnixMilli()),
		Background: background(s.Background.Gradient),
		Elements:   els,
		Meta:       Meta{Title: s.Text.Headline, Notes: s.Text.Body},
	}
}

// ConvertAll converts slides in order, applying theme when it names a preset.
func ConvertAll(slides []deck.AssembledSlide, theme string) Document {
	doc := Document{Slides: make([]Slide, 0, len(slides))}
	for _, s := range slides {
		es := Convert(s)
		if _, ok := Themes[theme]; ok {
			es = ApplyTheme(es, theme)
		}
		doc.Slides = append(doc.Slides, es)
	}
	return doc
}

// textSlots places the subtext directly under the planned headline when the
// slide carries one.
func textSlots(l *deck.TextLayout) (head, sub, body deck.Rect) {
	head, sub, body = headlineSlot, subtextSlot, bodySlot
	if l == nil {
		return
	}
	if b := l.Headline; b != nil {
		head = boxRect(b, headlineSlot)
		sub = deck.Rect{X: head.X, Y: head.Y + head.Height, Width: head.Width, Height: subtextSlot.Height}
	}
	if b := l.Body; b != nil {
		body = boxRect(b, bodySlot)
	}
	return
}

func boxRect(b *deck.TextBox, def deck.Rect) deck.Rect {
	r := deck.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	if r.Width <= 0 {
		r.Width = min(def.Width, CanvasWidth-r.X)
	}
	if r.Height <= 0 {
		r.Height = def.Height
	}
	return r
}

func textElement(id string, r deck.Rect, content string, st Style) Element {
	return Element{ID: id, Type: ElementText, Props: rectProps(r, textZ), Style: st, Content: content}
}

func rectProps(r deck.Rect, z int) Props {
	return Props{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height), Opacity: 1, ZIndex: z}
}

func background(g deck.BackgroundGradient) Background {
	switch {
	case g.From == "" && g.To == "":
		return cloneBackground(Themes[DefaultTheme].Background)
	case g.To == "" || g.To == g.From:
		return Background{Type: BackgroundSolid, Solid: &SolidFill{Color: g.From}}
	}
	return Background{Type: BackgroundGradient, Gradient: &GradientFill{Angle: g.Angle, Colors: []string{g.From, g.To}}}
}
