package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/slideforge-backend/internal/pipeline/assets"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type statusErr struct{ code int }

func (e statusErr) Error() string       { return "status" }
func (e statusErr) HTTPStatusCode() int { return e.code }

type stubSearcher struct {
	configured bool
	perPage    int
	photos     []deck.Photo
	err        error
}

func (s *stubSearcher) Configured() bool { return s.configured }

func (s *stubSearcher) Search(ctx context.Context, query, orientation string, perPage int) ([]deck.Photo, error) {
	s.perPage = perPage
	return s.photos, s.err
}

func TestSearchImages(t *testing.T) {
	s := &stubSearcher{configured: true, photos: []deck.Photo{{ID: 7}}}
	ds := NewDesignService(logger.Nop(), s)

	photos, err := ds.SearchImages(context.Background(), "sunrise", 0)
	if err != nil || len(photos) != 1 || s.perPage != 12 {
		t.Fatalf("photos=%v err=%v perPage=%d", photos, err, s.perPage)
	}
	if _, err := ds.SearchImages(context.Background(), "  ", 5); apierr.As(err).Error() != "Query parameter required" {
		t.Fatalf("empty query: %v", err)
	}

	s.photos = nil
	if photos, err := ds.SearchImages(context.Background(), "x", 5); err != nil || photos == nil || len(photos) != 0 {
		t.Fatalf("empty result should be an empty list: %v %v", photos, err)
	}

	s.err = statusErr{code: http.StatusTooManyRequests}
	if _, err := ds.SearchImages(context.Background(), "x", 5); apierr.As(err).Status != http.StatusTooManyRequests {
		t.Fatalf("status passthrough: %v", err)
	}
	s.err = errors.New("dial tcp")
	if _, err := ds.SearchImages(context.Background(), "x", 5); apierr.As(err).Status != http.StatusInternalServerError {
		t.Fatalf("transport error: %v", err)
	}
}

func TestSearchImagesUnconfigured(t *testing.T) {
	ds := NewDesignService(logger.Nop(), &stubSearcher{})
	ae := apierr.As(func() error { _, err := ds.SearchImages(context.Background(), "x", 1); return err }())
	if ae.Status != http.StatusInternalServerError || ae.Error() != "PEXELS_API_KEY not configured" {
		t.Fatalf("got %+v", ae)
	}
}

func TestBlobDefaults(t *testing.T) {
	ds := NewDesignService(logger.Nop(), nil).(*designService)
	ds.rand = func() float64 { return 0.5 }

	res, err := ds.Blob(context.Background(), BlobRequest{Seed: "s"})
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	if math.Abs(res.Params.Complexity-0.55) > 1e-9 || math.Abs(res.Params.Contrast-0.55) > 1e-9 || res.Params.Color != "#667eea" {
		t.Fatalf("params: %+v", res.Params)
	}
	if !strings.HasPrefix(res.SVG, "<svg") || !strings.Contains(res.SVG, `fill="#667eea"`) {
		t.Fatalf("svg: %s", res.SVG)
	}
	again, _ := ds.Blob(context.Background(), BlobRequest{Seed: "s"})
	if again.SVG != res.SVG {
		t.Fatalf("same seed should give the same blob")
	}
	if random, _ := ds.Blob(context.Background(), BlobRequest{}); random.Params.Seed == "" {
		t.Fatalf("seed not generated")
	}
}

func TestBlobPNG(t *testing.T) {
	ds := NewDesignService(logger.Nop(), nil)
	png, err := ds.BlobPNG(context.Background(), BlobRequest{Seed: "s", Complexity: 0.4, Contrast: 0.4, Color: "#ff0000"})
	if err != nil || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("png: %v", err)
	}
}

func TestBlobRejectsNonHexColor(t *testing.T) {
	ds := NewDesignService(logger.Nop(), nil)
	bad := BlobRequest{Seed: "s", Color: `#fff"></path><script>alert(1)</script><path fill="`}

	res, err := ds.Blob(context.Background(), bad)
	ae := apierr.As(err)
	if res != nil || ae.Status != http.StatusBadRequest || len(ae.Details) != 1 || ae.Details[0].Field != "color" {
		t.Fatalf("svg: res=%v err=%+v", res, ae)
	}
	if _, err := ds.BlobPNG(context.Background(), bad); apierr.As(err).Status != http.StatusBadRequest {
		t.Fatalf("png: %v", err)
	}
	if res, err := ds.Blob(context.Background(), BlobRequest{Seed: "s", Color: " #ABC "}); err != nil || res.Params.Color != "#ABC" {
		t.Fatalf("short hex: %v %+v", err, res)
	}
}

func TestGradient(t *testing.T) {
	ds := NewDesignService(logger.Nop(), nil)
	g := ds.Gradient(context.Background(), "Corporate")
	if g.CSS != assets.ThemedGradient("corporate").CSS || g.Primary() != "#1e3a8a" {
		t.Fatalf("gradient: %+v", g)
	}
}
