package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/pipeline/assets"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/platform/validate"
)

const (
	defaultImagesPerPage = 12
	randomParamMin       = 0.3
	randomParamSpan      = 0.5
)

// PhotoSearcher is an assets.ImageSearcher that can report whether it has a
// credential.
type PhotoSearcher interface {
	assets.ImageSearcher
	Configured() bool
}

// BlobRequest fields left at zero are randomized; Seed is random when empty.
type BlobRequest struct {
	Complexity float64 `json:"complexity"`
	Contrast   float64 `json:"contrast"`
	Color      string  `json:"color" binding:"omitempty,hexcolor"`
	Seed       string  `json:"seed"`
}

type BlobResult struct {
	SVG    string            `json:"svg"`
	Params assets.BlobParams `json:"-"`
}

type DesignService interface {
	SearchImages(ctx context.Context, query string, perPage int) ([]deck.Photo, error)
	Blob(ctx context.Context, req BlobRequest) (*BlobResult, error)
	BlobPNG(ctx context.Context, req BlobRequest) ([]byte, error)
	Gradient(ctx context.Context, style string) deck.Gradient
}

type designService struct {
	log      *logger.Logger
	searcher PhotoSearcher
	rand     func() float64
}

func NewDesignService(log *logger.Logger, searcher PhotoSearcher) DesignService {
	return &designService{
		log:      log.With("service", "DesignService"),
		searcher: searcher,
		rand:     rand.Float64,
	}
}

type httpStatusCoder interface{ HTTPStatusCode() int }

func (ds *designService) SearchImages(ctx context.Context, query string, perPage int) ([]deck.Photo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.New(http.StatusBadRequest, "query_required", errors.New("Query parameter required"))
	}
	if ds.searcher == nil || !ds.searcher.Configured() {
		return nil, apierr.New(http.StatusInternalServerError, "pexels_not_configured", errors.New("PEXELS_API_KEY not configured"))
	}
	if perPage <= 0 {
		perPage = defaultImagesPerPage
	}
	photos, err := ds.searcher.Search(ctx, query, "landscape", perPage)
	if err != nil {
		var sc httpStatusCoder
		if errors.As(err, &sc) {
			ds.log.Warn("Image search rejected", "query", query, "status", sc.HTTPStatusCode())
			return nil, apierr.New(sc.HTTPStatusCode(), "pexels_error", fmt.Errorf("Pexels API error: %d", sc.HTTPStatusCode()))
		}
		ds.log.Error("Image search failed", "query", query, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "image_search_failed", errors.New("Failed to search images"))
	}
	if photos == nil {
		photos = []deck.Photo{}
	}
	return photos, nil
}

func (ds *designService) params(req BlobRequest) (assets.BlobParams, error) {
	req.Color = strings.TrimSpace(req.Color)
	if err := validate.Struct(req); err != nil {
		return assets.BlobParams{}, err
	}
	p := assets.BlobParams{
		Seed:       req.Seed,
		Complexity: req.Complexity,
		Contrast:   req.Contrast,
		Color:      req.Color,
	}
	if p.Seed == "" {
		p.Seed = uuid.NewString()
	}
	if p.Complexity <= 0 {
		p.Complexity = randomParamMin + ds.rand()*randomParamSpan
	}
	if p.Contrast <= 0 {
		p.Contrast = randomParamMin + ds.rand()*randomParamSpan
	}
	if p.Color == "" {
		p.Color = assets.DefaultBlobColor
	}
	return p, nil
}

func (ds *designService) Blob(ctx context.Context, req BlobRequest) (*BlobResult, error) {
	p, err := ds.params(req)
	if err != nil {
		return nil, err
	}
	return &BlobResult{SVG: assets.BlobSVG(p), Params: p}, nil
}

func (ds *designService) BlobPNG(ctx context.Context, req BlobRequest) ([]byte, error) {
	p, err := ds.params(req)
	if err != nil {
		return nil, err
	}
	png, err := assets.BlobPNG(p)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "blob_failed", errors.New("Failed to generate blob"))
	}
	return png, nil
}

func (ds *designService) Gradient(ctx context.Context, style string) deck.Gradient {
	return assets.ThemedGradient(style)
}
