package assets

import (
	"context"
	"sort"
	"strings"

	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

const (
	OrientationLandscape = "landscape"
	imageSearchPerPage   = 15
	defaultImageQuery    = "abstract"
)

// ImageSearcher queries a stock photo provider. A searcher without a
// credential returns no photos and no error.
type ImageSearcher interface {
	Search(ctx context.Context, query, orientation string, perPage int) ([]deck.Photo, error)
}

var toneKeywords = map[string][]string{
	"warm":    {"warm", "orange", "yellow", "red"},
	"cool":    {"blue", "cyan", "purple"},
	"minimal": {"white", "gray", "simple"},
	"vibrant": {"colorful", "bright", "vivid"},
}

// SelectBestImage scores each photo by how many tone words appear in its alt
// text. Ties keep provider order.
func SelectBestImage(photos []deck.Photo, tone string) *deck.Photo {
	if len(photos) == 0 {
		return nil
	}
	words := toneKeywords[strings.ToLower(strings.TrimSpace(tone))]
	scores := make([]int, len(photos))
	order := make([]int, len(photos))
	for i, p := range photos {
		order[i] = i
		alt := strings.ToLower(p.Alt)
		for _, w := range words {
			if strings.Contains(alt, w) {
				scores[i]++
			}
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	best := photos[order[0]]
	return &best
}

// searchImage tries the first keyword, then the second. A failed search is
// treated like an empty one.
func (g *Generator) searchImage(ctx context.Context, keywords []string, tone string) *deck.Photo {
	if g.searcher == nil {
		return nil
	}
	queries := []string{defaultImageQuery}
	if len(keywords) > 0 && strings.TrimSpace(keywords[0]) != "" {
		queries[0] = keywords[0]
	}
	if len(keywords) > 1 && strings.TrimSpace(keywords[1]) != "" {
		queries = append(queries, keywords[1])
	}
	for _, q := range queries {
		photos, err := g.searcher.Search(ctx, q, OrientationLandscape, imageSearchPerPage)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			g.log.Warn("image search failed", "query", q, "error", err)
			g.metrics.IncImageSearch("error")
			continue
		}
		if len(photos) == 0 {
			g.metrics.IncImageSearch("empty")
			continue
		}
		g.metrics.IncImageSearch("found")
		return SelectBestImage(photos, tone)
	}
	return nil
}
