package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/slideforge-backend/internal/llm"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
)

func mustEmbedded(t *testing.T) *Set {
	t.Helper()
	set, err := Load("")
	if err != nil {
		t.Fatalf("embedded profiles: %v", err)
	}
	return set
}

func TestEmbeddedProfilesLoad(t *testing.T) {
	set := mustEmbedded(t)
	if got := set.Default().Name; got != "v1" {
		t.Fatalf("default profile: got %q want v1", got)
	}
	v1, err := set.Get("v1")
	if err != nil {
		t.Fatalf("get v1: %v", err)
	}
	if len(v1.Compositions) != 3 || v1.GridSnap != 0 {
		t.Fatalf("v1: compositions=%v grid=%d", v1.Compositions, v1.GridSnap)
	}
	v2, err := set.Get("v2")
	if err != nil {
		t.Fatalf("get v2: %v", err)
	}
	if !v2.AllowsComposition(deck.CompositionSplitScreen) || !v2.AllowsComposition(deck.CompositionHeroBackground) {
		t.Fatalf("v2 compositions: %v", v2.Compositions)
	}
	if v2.GridSnap != 50 {
		t.Fatalf("v2 grid snap: %d", v2.GridSnap)
	}
	if _, err := set.Get("v9"); err == nil {
		t.Fatalf("expected unknown profile error")
	}
}

func TestSegmentationPrompts(t *testing.T) {
	p := mustEmbedded(t).Default()
	in := deck.UserInput{Prompt: "God is good", NumSlides: 4, Tone: "warm", Style: "minimal"}

	system, user, err := p.SegmentationPrompts(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(system, "Split the user's content into 4 logical slides") {
		t.Fatalf("system prompt missing slide count:\n%s", system)
	}
	if llm.ContextLabel(system) != llm.ContextSegmentation {
		t.Fatalf("system prompt not labelled segmentation")
	}
	want := "Transform this into 4 professional slides:\n\nGod is good\n\nTone: warm\nStyle: minimal"
	if user != want {
		t.Fatalf("transform prompt:\ngot  %q\nwant %q", user, want)
	}

	in.Verbatim = true
	_, user, err = p.SegmentationPrompts(in)
	if err != nil {
		t.Fatalf("render verbatim: %v", err)
	}
	if user != "Use this text word-for-word, split into 4 slides:\n\nGod is good" {
		t.Fatalf("verbatim prompt: %q", user)
	}
}

func TestLayoutPrompts(t *testing.T) {
	set := mustEmbedded(t)
	seg := deck.Segment{SlideIndex: 2, Title: "Grace", Subtitle: "Daily", BodyText: "Every morning", Keywords: []string{"sunrise", "field"}}

	for _, name := range set.Names() {
		p, _ := set.Get(name)
		system, user, err := p.LayoutPrompts(seg, "bold")
		if err != nil {
			t.Fatalf("%s: render: %v", name, err)
		}
		if llm.ContextLabel(system) != llm.ContextLayout {
			t.Fatalf("%s: layout prompt not labelled layout", name)
		}
		if !strings.HasSuffix(system, "Style preference: bold") {
			t.Fatalf("%s: style missing from system prompt", name)
		}
		if !strings.Contains(system, `"centered"`) {
			t.Fatalf("%s: compositions not listed", name)
		}
		want := "Slide 2:\nTitle: Grace\nSubtitle: Daily\nBody: Every morning\nKeywords: sunrise, field\n\nPlan layout positions."
		if user != want {
			t.Fatalf("%s: user prompt:\ngot  %q\nwant %q", name, user, want)
		}
	}
}

func TestRefinementPrompts(t *testing.T) {
	p := mustEmbedded(t).Default()
	slide := deck.AssembledSlide{
		Text:       deck.TextBlock{Headline: "Grace"},
		Meta:       deck.SlideMeta{Composition: deck.CompositionCentered},
		Background: deck.Background{Gradient: deck.BackgroundGradient{Type: deck.GradientRadial}},
		Shapes:     make([]deck.Shape, 2),
		Icons:      make([]deck.Icon, 1),
	}
	system, user, err := p.RefinementPrompts(slide)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if llm.ContextLabel(system) != llm.ContextRefinement {
		t.Fatalf("refinement prompt not labelled refinement")
	}
	want := "Evaluate this slide:\nTitle: Grace\nComposition: centered\nBackground: radial gradient\nElements: 2 shapes, 1 icons\nHas image: no"
	if user != want {
		t.Fatalf("user prompt:\ngot  %q\nwant %q", user, want)
	}
}

func TestParseRejectsInvalidBundles(t *testing.T) {
	cases := map[string]string{
		"empty":     "bundle: x\nprofiles: []\n",
		"no name":   "profiles:\n  - compositions: [centered]\n",
		"no center": "profiles:\n  - name: a\n    compositions: [asymmetric]\n",
		"bad template": `profiles:
  - name: a
    compositions: [centered]
    segmentation:
      system: "presentation designer {{.NumSlides"
`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFromPath(t *testing.T) {
	data, err := promptsFS.ReadFile("prompts.yaml")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	doc := strings.Replace(string(data), "default: v1", "default: v2", 1)
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Default().Name != "v2" {
		t.Fatalf("default: got %q", set.Default().Name)
	}
}
