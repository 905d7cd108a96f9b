package deck

const (
	DefaultTextColor = "#111111"
	DefaultFont      = "DM Sans"
	DefaultScore     = 85
)

type ShapeKind string

const ShapeBlob ShapeKind = "blob"

type BackgroundGradient struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Angle int          `json:"angle"`
	Type  GradientType `json:"type"`
	CSS   string       `json:"css,omitempty"`
}

type BackgroundTexture struct {
	Type    string  `json:"type"`
	Opacity float64 `json:"opacity"`
	DataURL string  `json:"dataUrl"`
}

type Background struct {
	Gradient BackgroundGradient `json:"gradient"`
	Texture  BackgroundTexture  `json:"texture"`
}

// Shape is a decorative element. Complexity and Contrast record the nominal
// generator settings; they are not needed to re-render the SVG.
type Shape struct {
	Type       ShapeKind `json:"type"`
	Seed       string    `json:"seed"`
	Color      string    `json:"color"`
	Complexity float64   `json:"complexity"`
	Contrast   float64   `json:"contrast"`
	SVG        string    `json:"svg"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
}

// PlacedImage carries position only when the layout had an image placeholder.
type PlacedImage struct {
	URL          string `json:"url"`
	Photographer string `json:"photographer"`
	Fit          string `json:"fit"`
	*Rect
}

type TextBox struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
	Align  TextAlign `json:"align,omitempty"`
}

// TextLayout holds the planned positions of the text elements.
type TextLayout struct {
	Headline *TextBox `json:"headline,omitempty"`
	Body     *TextBox `json:"body,omitempty"`
}

type TextBlock struct {
	Headline string      `json:"headline"`
	Subtext  string      `json:"subtext"`
	Body     string      `json:"body"`
	Color    string      `json:"color"`
	Font     string      `json:"font"`
	Layout   *TextLayout `json:"layout,omitempty"`
}

type SlideMeta struct {
	SlideIndex   int         `json:"slide_index"`
	Composition  Composition `json:"composition"`
	Score        int         `json:"score"`
	Keywords     []string    `json:"keywords"`
	Improvements []string    `json:"improvements,omitempty"`
}

// AssembledSlide is the renderer-agnostic output of the pipeline.
type AssembledSlide struct {
	Background Background   `json:"background"`
	Shapes     []Shape      `json:"shapes"`
	Icons      []Icon       `json:"icons"`
	Image      *PlacedImage `json:"image"`
	Text       TextBlock    `json:"text"`
	Meta       SlideMeta    `json:"meta"`
}

// Refinement is a critic's verdict on an assembled slide.
type Refinement struct {
	Improvements []string `json:"improvements"`
	FinalScore   int      `json:"final_score"`
}

// DefaultRefinement stands in when no critique was requested or it failed.
func DefaultRefinement() Refinement {
	return Refinement{Improvements: []string{}, FinalScore: DefaultScore}
}
