package assets

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html"
	"math"
	"math/rand"
	"regexp"
	"strings"

	"github.com/fogleman/gg"
)

const (
	BlobSize          = 400
	BlobComplexity    = 0.6
	BlobContrast      = 0.5
	DefaultBlobColor  = "#667eea"
	defaultBlobWidth  = 400
	defaultBlobHeight = 400
)

// BlobParams drives the procedural blob. Complexity and Contrast are in
// [0,1]; the same params always produce the same shape.
type BlobParams struct {
	Seed       string
	Complexity float64
	Contrast   float64
	Color      string
}

type point struct{ x, y float64 }

// BlobSeed is the seed used for every blob of a slide.
func BlobSeed(slideIndex int) string { return fmt.Sprintf("slide-%d", slideIndex) }

// blobPoints places 3..13 control points around the center; contrast scales
// how far each may fall inward.
func blobPoints(p BlobParams) []point {
	n := int(math.Floor(clamp01(p.Complexity)*10)) + 3
	variance := float64(int(math.Floor(clamp01(p.Contrast)*10))+3) / 20

	h := fnv.New64a()
	_, _ = h.Write([]byte(p.Seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	c := float64(BlobSize) / 2
	pts := make([]point, n)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := c * (1 - variance*rng.Float64())
		pts[i] = point{x: c + r*math.Cos(angle), y: c + r*math.Sin(angle)}
	}
	return pts
}

// segments returns the closed Catmull-Rom spline through pts as cubic
// Bezier control triples.
func segments(pts []point) [][3]point {
	n := len(pts)
	out := make([][3]point, n)
	for i := 0; i < n; i++ {
		p0, p1 := pts[(i-1+n)%n], pts[i]
		p2, p3 := pts[(i+1)%n], pts[(i+2)%n]
		out[i] = [3]point{
			{p1.x + (p2.x-p0.x)/6, p1.y + (p2.y-p0.y)/6},
			{p2.x - (p3.x-p1.x)/6, p2.y - (p3.y-p1.y)/6},
			p2,
		}
	}
	return out
}

// BlobSVG renders the blob as standalone SVG markup.
func BlobSVG(p BlobParams) string {
	pts := blobPoints(p)
	var d strings.Builder
	fmt.Fprintf(&d, "M%.2f,%.2f", pts[0].x, pts[0].y)
	for _, s := range segments(pts) {
		fmt.Fprintf(&d, "C%.2f,%.2f,%.2f,%.2f,%.2f,%.2f", s[0].x, s[0].y, s[1].x, s[1].y, s[2].x, s[2].y)
	}
	d.WriteString("Z")
	return fmt.Sprintf(
		`<svg viewBox="0 0 %d %d" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg"><path transform="translate(0, 0)" d="%s" fill="%s"></path></svg>`,
		BlobSize, BlobSize, BlobSize, BlobSize, d.String(), html.EscapeString(blobColor(p.Color)),
	)
}

// BlobPNG rasterizes the same shape on a transparent square.
func BlobPNG(p BlobParams) ([]byte, error) {
	pts := blobPoints(p)
	dc := gg.NewContext(BlobSize, BlobSize)
	dc.MoveTo(pts[0].x, pts[0].y)
	for _, s := range segments(pts) {
		dc.CubicTo(s[0].x, s[0].y, s[1].x, s[1].y, s[2].x, s[2].y)
	}
	dc.ClosePath()
	dc.SetHexColor(blobColor(p.Color))
	dc.Fill()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode blob png: %w", err)
	}
	return buf.Bytes(), nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// blobColor returns c when it is a hex color and the default otherwise.
func blobColor(c string) string {
	c = strings.TrimSpace(c)
	if !hexColor.MatchString(c) {
		return DefaultBlobColor
	}
	return c
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
