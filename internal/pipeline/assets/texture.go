package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/patrickmn/go-cache"
	"golang.org/x/image/draw"

	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

const (
	TextureOpacity = 0.2
	TextureType    = "grain"

	TextureModeRaster = "raster"
	TextureModeOff    = "off"

	// grain is drawn at a quarter of the canvas and scaled up.
	grainScale = 4
	grainSeed  = 1600900
)

// TextureSource renders the grain overlay. Renders are deterministic, so each
// (size, opacity) is rendered once and served from cache.
type TextureSource struct {
	mode  string
	cache *cache.Cache
	mu    sync.Mutex
}

func NewTextureSource(mode string) *TextureSource {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != TextureModeRaster {
		mode = TextureModeOff
	}
	return &TextureSource{mode: mode, cache: cache.New(6*time.Hour, time.Hour)}
}

func (t *TextureSource) Mode() string {
	if t == nil {
		return TextureModeOff
	}
	return t.mode
}

// Grain returns the texture for the canvas. In off mode the data URL is empty
// and only the opacity is set.
func (t *TextureSource) Grain(width, height int, opacity float64) (deck.Texture, error) {
	out := deck.Texture{Opacity: opacity}
	if t.Mode() == TextureModeOff {
		return out, nil
	}
	key := fmt.Sprintf("grain:%dx%d:%.3f", width, height, opacity)
	if v, ok := t.cache.Get(key); ok {
		out.DataURL = v.(string)
		return out, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.cache.Get(key); ok {
		out.DataURL = v.(string)
		return out, nil
	}
	png, err := renderGrain(width, height, opacity)
	if err != nil {
		return deck.Texture{}, err
	}
	out.DataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	t.cache.SetDefault(key, out.DataURL)
	return out, nil
}

func renderGrain(width, height int, opacity float64) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	tw, th := max(1, width/grainScale), max(1, height/grainScale)
	tile := image.NewNRGBA(image.Rect(0, 0, tw, th))
	rng := rand.New(rand.NewSource(grainSeed))
	alpha := uint8(clamp01(opacity) * 255)
	for i := 0; i < len(tile.Pix); i += 4 {
		v := uint8(rng.Intn(256))
		tile.Pix[i], tile.Pix[i+1], tile.Pix[i+2], tile.Pix[i+3] = v, v, v, alpha
	}

	dc := gg.NewContext(width, height)
	dst, ok := dc.Image().(draw.Image)
	if !ok {
		return nil, fmt.Errorf("texture canvas is not drawable")
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), tile, tile.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode texture png: %w", err)
	}
	return buf.Bytes(), nil
}
