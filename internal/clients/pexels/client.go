// Package pexels searches the Pexels stock photo API.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.pexels.com/v1"
	DefaultTimeout = 10 * time.Second

	cacheTTL       = 30 * time.Minute
	cacheCleanup   = time.Hour
	maxErrorBody   = 4 << 10
	defaultPerPage = 10
	maxPerPage     = 80
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pexels: status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

type Client struct {
	log        *logger.Logger
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	cache      *gocache.Cache
}

func New(log *logger.Logger, cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		log:        log.With("client", "Pexels"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr},
		cache:      gocache.New(cacheTTL, cacheCleanup),
	}
}

// NewWithHTTPClient is intended for tests.
func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) *Client {
	c := New(log, cfg)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

type searchResponse struct {
	TotalResults int          `json:"total_results"`
	Page         int          `json:"page"`
	PerPage      int          `json:"per_page"`
	Photos       []deck.Photo `json:"photos"`
	NextPage     string       `json:"next_page"`
}

// Search returns no photos and no error when the client has no API key.
// Results are cached per (query, orientation, perPage).
func (c *Client) Search(ctx context.Context, query, orientation string, perPage int) ([]deck.Photo, error) {
	if !c.Configured() {
		c.log.Warn("PEXELS_API_KEY not configured, returning empty results")
		return nil, nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if orientation == "" {
		orientation = "landscape"
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)

	key := strings.ToLower(query) + "|" + orientation + "|" + strconv.Itoa(perPage)
	if v, ok := c.cache.Get(key); ok {
		return v.([]deck.Photo), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("query", query)
	q.Set("orientation", orientation)
	q.Set("per_page", strconv.Itoa(perPage))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pexels decode: %w", err)
	}
	c.log.Debug("pexels search", "query", query, "results", len(out.Photos), "duration_ms", time.Since(start).Milliseconds())
	c.cache.Set(key, out.Photos, gocache.DefaultExpiration)
	return out.Photos, nil
}
