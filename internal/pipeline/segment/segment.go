// Package segment splits free text into per-slide outlines.
package segment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/pipeline/jsonval"
	"github.com/yungbote/slideforge-backend/internal/pipeline/profile"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

const fallbackBodyRunes = 100

type Stage struct {
	log     *logger.Logger
	pp      profile.PromptProfile
	metrics *observability.Metrics
}

func New(log *logger.Logger, pp profile.PromptProfile, metrics *observability.Metrics) *Stage {
	return &Stage{log: log.With("stage", "segmentation"), pp: pp, metrics: metrics}
}

// Segment returns exactly in.NumSlides outlines indexed 1..N. Gateway and
// parse failures degrade to Fallback; the only error is ctx's.
func (s *Stage) Segment(ctx context.Context, in deck.UserInput) ([]deck.Segment, error) {
	n := slideCount(in)
	system, user, err := s.pp.SegmentationPrompts(in)
	if err != nil {
		s.log.Error("render segmentation prompt", "error", err)
		return s.fallback(in, "render"), nil
	}

	resp, err := s.pp.Gateway.Call(ctx, system, user)
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		s.log.Warn("segmentation call failed; using fallback", "error", err)
		return s.fallback(in, "gateway"), nil
	}

	obj, ok := jsonval.Object(resp)
	if !ok {
		return s.fallback(in, "not_object"), nil
	}
	slides, ok := jsonval.List(obj["slides"])
	if !ok {
		return s.fallback(in, "no_slides"), nil
	}

	out := s.normalize(slides)
	if len(out) != n {
		s.log.Debug("segment count mismatch", "want", n, "got", len(out))
	}
	return fit(out, Fallback(in, s.pp.FallbackKeywords), n), nil
}

func (s *Stage) fallback(in deck.UserInput, reason string) []deck.Segment {
	s.metrics.IncFallback("segmentation")
	s.log.Info("segmentation fallback", "reason", reason)
	return Fallback(in, s.pp.FallbackKeywords)
}

func (s *Stage) normalize(slides []any) []deck.Segment {
	out := make([]deck.Segment, 0, len(slides))
	for i, raw := range slides {
		item, _ := jsonval.Object(raw)
		pos := i + 1
		idx, ok := jsonval.Int(item["slide_index"])
		if !ok || idx <= 0 {
			idx = pos
		}
		title := strings.TrimSpace(jsonval.String(item["title"]))
		if title == "" {
			title = fmt.Sprintf("Slide %d", pos)
		}
		keywords, ok := jsonval.Strings(item["keywords"])
		if !ok {
			keywords = append([]string(nil), s.pp.FallbackKeywords...)
		}
		out = append(out, deck.Segment{
			SlideIndex: idx,
			Title:      title,
			Subtitle:   strings.TrimSpace(jsonval.String(item["subtitle"])),
			BodyText:   strings.TrimSpace(jsonval.String(item["body_text"])),
			Keywords:   keywords,
		})
	}
	return out
}

// Fallback builds N outlines from the non-blank lines of the prompt, one line
// per slide. Slides past the last line get a generic title and the start of
// the prompt as body.
func Fallback(in deck.UserInput, keywords []string) []deck.Segment {
	if len(keywords) == 0 {
		keywords = []string{"presentation", "slide"}
	}
	var lines []string
	for _, l := range strings.Split(in.Prompt, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	n := slideCount(in)
	out := make([]deck.Segment, n)
	for i := range out {
		seg := deck.Segment{
			SlideIndex: i + 1,
			Title:      fmt.Sprintf("Slide %d", i+1),
			BodyText:   truncateRunes(in.Prompt, fallbackBodyRunes),
			Keywords:   append([]string(nil), keywords...),
		}
		if i < len(lines) {
			seg.Title = lines[i]
			seg.BodyText = lines[i]
		}
		out[i] = seg
	}
	return out
}

// fit orders segs by index when the model's indexes are a permutation of
// 1..len, otherwise by position, then pads from pad or truncates to n.
func fit(segs, pad []deck.Segment, n int) []deck.Segment {
	seen := make(map[int]bool, len(segs))
	dense := true
	for _, s := range segs {
		if s.SlideIndex > len(segs) || seen[s.SlideIndex] {
			dense = false
			break
		}
		seen[s.SlideIndex] = true
	}
	if dense {
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].SlideIndex < segs[j].SlideIndex })
	}
	if len(segs) > n {
		segs = segs[:n]
	}
	for len(segs) < n {
		segs = append(segs, pad[len(segs)])
	}
	for i := range segs {
		segs[i].SlideIndex = i + 1
	}
	return segs
}

func slideCount(in deck.UserInput) int {
	if in.NumSlides < 1 {
		return 1
	}
	return in.NumSlides
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
