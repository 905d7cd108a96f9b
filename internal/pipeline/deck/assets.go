package deck

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
	GradientConic  GradientType = "conic"
)

type Gradient struct {
	CSS    string       `json:"css"`
	Type   GradientType `json:"type"`
	Colors []string     `json:"colors"`
	Angle  int          `json:"angle"`
}

// Primary is the first gradient color, the tint for blobs and icons.
func (g Gradient) Primary() string {
	if len(g.Colors) == 0 {
		return ""
	}
	return g.Colors[0]
}

type Blob struct {
	SVG    string `json:"svg"`
	Seed   string `json:"seed"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
}

type IconVariant string

const (
	IconOutline IconVariant = "outline"
	IconSolid   IconVariant = "solid"
)

type Icon struct {
	Name     string      `json:"name"`
	Variant  IconVariant `json:"variant"`
	Color    string      `json:"color"`
	Size     int         `json:"size"`
	Position Point       `json:"position"`
}

type Texture struct {
	DataURL string  `json:"dataUrl"`
	Opacity float64 `json:"opacity"`
}

type PhotoSources struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// Photo is a stock image search result.
type Photo struct {
	ID              int64        `json:"id"`
	URL             string       `json:"url"`
	Photographer    string       `json:"photographer"`
	PhotographerURL string       `json:"photographer_url"`
	Src             PhotoSources `json:"src"`
	Alt             string       `json:"alt"`
	AvgColor        string       `json:"avg_color"`
}

type SlideAssets struct {
	Blobs    []Blob   `json:"blobs"`
	Gradient Gradient `json:"gradient"`
	Icons    []Icon   `json:"icons"`
	Texture  Texture  `json:"texture"`
	Image    *Photo   `json:"image"`
}
