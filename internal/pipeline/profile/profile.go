// Package profile holds the versioned prompt sets used by the LLM-backed
// stages. Profiles are loaded from YAML, embedded by default.
package profile

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/slideforge-backend/internal/llm"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

const (
	PathEnv = "PROMPT_PROFILE_PATH"
	NameEnv = "PROMPT_PROFILE"
)

//go:embed prompts.yaml
var promptsFS embed.FS

type yamlBundle struct {
	Bundle   string        `yaml:"bundle"`
	Default  string        `yaml:"default"`
	Profiles []yamlProfile `yaml:"profiles"`
}

type yamlProfile struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Compositions     []string `yaml:"compositions"`
	GridSnap         int      `yaml:"grid_snap"`
	RefineBatch      bool     `yaml:"refine_batch"`
	DefaultScore     int      `yaml:"default_score"`
	FallbackKeywords []string `yaml:"fallback_keywords"`
	Segmentation     struct {
		System        string `yaml:"system"`
		UserVerbatim  string `yaml:"user_verbatim"`
		UserTransform string `yaml:"user_transform"`
	} `yaml:"segmentation"`
	Layout     yamlPromptPair `yaml:"layout"`
	Refinement yamlPromptPair `yaml:"refinement"`
}

type yamlPromptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Profile is one parsed, validated prompt set.
type Profile struct {
	Name             string
	Description      string
	Compositions     []deck.Composition
	GridSnap         int
	RefineBatch      bool
	DefaultScore     int
	FallbackKeywords []string

	segSystem, segVerbatim, segTransform *template.Template
	layoutSystem, layoutUser             *template.Template
	refineSystem, refineUser             *template.Template
}

var funcs = template.FuncMap{
	"join": func(items []string, sep string) string { return strings.Join(items, sep) },
	"quoteJoin": func(items []deck.Composition) string {
		parts := make([]string, len(items))
		for i, c := range items {
			parts[i] = `"` + string(c) + `"`
		}
		return strings.Join(parts, ", ")
	},
}

type segmentationData struct {
	NumSlides int
	Prompt    string
	Tone      string
	Style     string
}

type layoutSystemData struct {
	Compositions []deck.Composition
	Style        string
}

type refinementData struct {
	Title        string
	Composition  deck.Composition
	GradientType deck.GradientType
	Shapes       int
	Icons        int
	HasImage     bool
}

// SegmentationPrompts renders the system and user prompts for one request.
func (p *Profile) SegmentationPrompts(in deck.UserInput) (string, string, error) {
	data := segmentationData{NumSlides: in.NumSlides, Prompt: in.Prompt, Tone: in.Tone, Style: in.Style}
	system, err := render(p.segSystem, data)
	if err != nil {
		return "", "", err
	}
	userTpl := p.segTransform
	if in.Verbatim {
		userTpl = p.segVerbatim
	}
	user, err := render(userTpl, data)
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

func (p *Profile) LayoutPrompts(seg deck.Segment, style string) (string, string, error) {
	system, err := render(p.layoutSystem, layoutSystemData{Compositions: p.Compositions, Style: style})
	if err != nil {
		return "", "", err
	}
	user, err := render(p.layoutUser, seg)
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

func (p *Profile) RefinementPrompts(slide deck.AssembledSlide) (string, string, error) {
	system, err := render(p.refineSystem, nil)
	if err != nil {
		return "", "", err
	}
	user, err := render(p.refineUser, refinementData{
		Title:        slide.Text.Headline,
		Composition:  slide.Meta.Composition,
		GradientType: slide.Background.Gradient.Type,
		Shapes:       len(slide.Shapes),
		Icons:        len(slide.Icons),
		HasImage:     slide.Image != nil,
	})
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

// AllowsComposition reports whether c is one of the profile's compositions.
func (p *Profile) AllowsComposition(c deck.Composition) bool {
	for _, allowed := range p.Compositions {
		if allowed == c {
			return true
		}
	}
	return false
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// Set is every profile from one YAML bundle.
type Set struct {
	defaultName string
	byName      map[string]*Profile
	names       []string
}

// Get returns the named profile, or the bundle default when name is empty.
func (s *Set) Get(name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultName
	}
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt profile %q (have %s)", name, strings.Join(s.names, ", "))
	}
	return p, nil
}

func (s *Set) Default() *Profile { return s.byName[s.defaultName] }

func (s *Set) Names() []string { return append([]string(nil), s.names...) }

// Load reads a bundle from path, or the embedded bundle when path is empty.
func Load(path string) (*Set, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(path) != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = promptsFS.ReadFile("prompts.yaml")
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Set, error) {
	var b yamlBundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse prompt profiles: %w", err)
	}
	if len(b.Profiles) == 0 {
		return nil, errors.New("prompt profiles: no profiles defined")
	}
	set := &Set{defaultName: strings.TrimSpace(b.Default), byName: make(map[string]*Profile, len(b.Profiles))}
	for _, yp := range b.Profiles {
		p, err := compile(yp)
		if err != nil {
			return nil, err
		}
		if _, dup := set.byName[p.Name]; dup {
			return nil, fmt.Errorf("prompt profiles: duplicate profile name %q", p.Name)
		}
		set.byName[p.Name] = p
		set.names = append(set.names, p.Name)
	}
	if set.defaultName == "" {
		set.defaultName = set.names[0]
	}
	if _, ok := set.byName[set.defaultName]; !ok {
		return nil, fmt.Errorf("prompt profiles: default %q is not defined", set.defaultName)
	}
	return set, nil
}

func compile(yp yamlProfile) (*Profile, error) {
	name := strings.TrimSpace(yp.Name)
	if name == "" {
		return nil, errors.New("prompt profiles: profile missing name")
	}
	p := &Profile{
		Name:             name,
		Description:      yp.Description,
		GridSnap:         yp.GridSnap,
		RefineBatch:      yp.RefineBatch,
		DefaultScore:     yp.DefaultScore,
		FallbackKeywords: yp.FallbackKeywords,
	}
	if p.DefaultScore <= 0 {
		p.DefaultScore = deck.DefaultScore
	}
	if len(p.FallbackKeywords) == 0 {
		p.FallbackKeywords = []string{"presentation", "slide"}
	}
	if p.GridSnap < 0 {
		return nil, fmt.Errorf("prompt profile %s: grid_snap must be >= 0", name)
	}
	for _, c := range yp.Compositions {
		p.Compositions = append(p.Compositions, deck.Composition(strings.TrimSpace(c)))
	}
	if len(p.Compositions) == 0 {
		return nil, fmt.Errorf("prompt profile %s: no compositions", name)
	}
	if !p.AllowsComposition(deck.CompositionCentered) {
		return nil, fmt.Errorf("prompt profile %s: compositions must include %q", name, deck.CompositionCentered)
	}

	parse := func(field, text string, want string) (*template.Template, error) {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("prompt profile %s: %s is empty", name, field)
		}
		t, err := template.New(name + "." + field).Funcs(funcs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompt profile %s: %s: %w", name, field, err)
		}
		if want != "" && llm.ContextLabel(text) != want {
			return nil, fmt.Errorf("prompt profile %s: %s would not be labelled %q", name, field, want)
		}
		return t, nil
	}

	var err error
	if p.segSystem, err = parse("segmentation.system", yp.Segmentation.System, llm.ContextSegmentation); err != nil {
		return nil, err
	}
	if p.segVerbatim, err = parse("segmentation.user_verbatim", yp.Segmentation.UserVerbatim, ""); err != nil {
		return nil, err
	}
	if p.segTransform, err = parse("segmentation.user_transform", yp.Segmentation.UserTransform, ""); err != nil {
		return nil, err
	}
	if p.layoutSystem, err = parse("layout.system", yp.Layout.System, llm.ContextLayout); err != nil {
		return nil, err
	}
	if p.layoutUser, err = parse("layout.user", yp.Layout.User, ""); err != nil {
		return nil, err
	}
	if p.refineSystem, err = parse("refinement.system", yp.Refinement.System, llm.ContextRefinement); err != nil {
		return nil, err
	}
	if p.refineUser, err = parse("refinement.user", yp.Refinement.User, ""); err != nil {
		return nil, err
	}
	return p, nil
}

var (
	runtimeOnce sync.Once
	runtimeSet  *Set
)

// Runtime returns the process-wide bundle. PROMPT_PROFILE_PATH overrides the
// embedded file; a bad override is logged and the embedded bundle is used.
func Runtime(log *logger.Logger) *Set {
	runtimeOnce.Do(func() {
		path := strings.TrimSpace(os.Getenv(PathEnv))
		if path != "" {
			set, err := Load(path)
			if err == nil {
				runtimeSet = set
				return
			}
			if log != nil {
				log.Warn("prompt profile override invalid; using embedded", "path", path, "error", err)
			}
		}
		set, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("embedded prompt profiles invalid: %v", err))
		}
		runtimeSet = set
	})
	return runtimeSet
}

// PromptProfile pairs a profile with the gateway its prompts are sent to.
type PromptProfile struct {
	*Profile
	Gateway llm.Gateway
}
