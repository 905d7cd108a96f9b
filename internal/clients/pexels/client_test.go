package pexels

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/yungbote/slideforge-backend/internal/pipeline/assets"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

var _ assets.ImageSearcher = (*Client)(nil)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

const onePhoto = `{"total_results":1,"page":1,"per_page":5,"photos":[{"id":42,"url":"https://pexels.com/p/42","photographer":"Ana Lee","photographer_url":"https://pexels.com/@ana","src":{"original":"https://img/o.jpg","large":"https://img/l.jpg"},"alt":"Warm sunrise","avg_color":"#A0522D"}]}`

func TestSearchBuildsRequestAndCaches(t *testing.T) {
	var calls int32
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		if req.URL.Host != "api.pexels.com" || req.URL.Path != "/v1/search" {
			t.Fatalf("url: %s", req.URL)
		}
		q := req.URL.Query()
		if q.Get("query") != "open road" || q.Get("orientation") != "landscape" || q.Get("per_page") != "5" {
			t.Fatalf("query: %v", q)
		}
		if req.Header.Get("Authorization") != "px-key" {
			t.Fatalf("authorization: %q", req.Header.Get("Authorization"))
		}
		return textResponse(http.StatusOK, onePhoto), nil
	})}
	c := NewWithHTTPClient(logger.Nop(), Config{APIKey: "px-key"}, hc)

	photos, err := c.Search(context.Background(), "open road", "", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != 42 || photos[0].Src.Large != "https://img/l.jpg" || photos[0].PhotographerURL != "https://pexels.com/@ana" {
		t.Fatalf("photos: %+v", photos)
	}
	if _, err := c.Search(context.Background(), "Open Road", "landscape", 5); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected cached second call, got %d requests", calls)
	}
}

func TestSearchWithoutKeyReturnsEmpty(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})}
	c := NewWithHTTPClient(logger.Nop(), Config{}, hc)
	photos, err := c.Search(context.Background(), "faith", "landscape", 10)
	if err != nil || photos != nil {
		t.Fatalf("got %v %v", photos, err)
	}
	if c.Configured() {
		t.Fatalf("configured without key")
	}
}

func TestSearchStatusError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(http.StatusTooManyRequests, "slow down"), nil
	})}
	c := NewWithHTTPClient(logger.Nop(), Config{APIKey: "k"}, hc)
	_, err := c.Search(context.Background(), "faith", "landscape", 10)
	var se *StatusError
	if !errors.As(err, &se) || se.HTTPStatusCode() != http.StatusTooManyRequests || se.Body != "slow down" {
		t.Fatalf("got %v", err)
	}
}

func TestSearchClampsPerPage(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.URL.Query().Get("per_page"); got != "80" {
			t.Fatalf("per_page=%s", got)
		}
		return textResponse(http.StatusOK, `{"photos":[]}`), nil
	})}
	c := NewWithHTTPClient(logger.Nop(), Config{APIKey: "k"}, hc)
	if _, err := c.Search(context.Background(), "x", "portrait", 500); err != nil {
		t.Fatalf("search: %v", err)
	}
}
