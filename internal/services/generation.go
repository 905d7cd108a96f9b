package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/pipeline/orchestrator"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/platform/validate"
	"github.com/yungbote/slideforge-backend/internal/realtime"
)

const (
	defaultBatchSlides = 5
	savingPct          = 97
	completePct        = 100
)

var (
	errGenerationFailed = apierr.New(http.StatusUnprocessableEntity, "generation_failed", errors.New("Failed to generate slides. Please try again."))
	errSaveFailed       = apierr.New(http.StatusInternalServerError, "save_failed", errors.New("Failed to save presentation"))
)

// Pipeline is the slide generation pipeline as the service consumes it.
type Pipeline interface {
	Run(ctx context.Context, in deck.UserInput) ([]deck.AssembledSlide, error)
	RunStream(ctx context.Context, in deck.UserInput, onProgress deck.ProgressFunc) ([]deck.AssembledSlide, error)
}

// BatchRequest is the body of POST /api/generate-slides.
// NumSlides 0 means defaultBatchSlides.
type BatchRequest struct {
	Title             string `json:"title" binding:"required,max=100"`
	Style             string `json:"style" binding:"required,max=200"`
	Notes             string `json:"notes" binding:"required,min=10,max=5000"`
	PresentationTitle string `json:"presentationTitle" binding:"required,max=200"`
	Tone              string `json:"tone,omitempty"`
	NumSlides         int    `json:"numSlides,omitempty" binding:"min=0,max=20"`
	UseVerbatim       bool   `json:"useVerbatim,omitempty"`
}

type StreamSlide struct {
	ID      string `json:"id"`
	Content string `json:"content" binding:"required"`
}

// StreamRequest is the body of POST /api/generate-slides/stream.
type StreamRequest struct {
	PresentationTitle string        `json:"presentationTitle" binding:"required,max=200"`
	Theme             string        `json:"theme" binding:"required,max=100"`
	Style             string        `json:"style" binding:"required,max=200"`
	NumSlides         int           `json:"numSlides" binding:"min=1,max=20"`
	Slides            []StreamSlide `json:"slides" binding:"dive"`
	UseUniformDesign  bool          `json:"useUniformDesign"`
	UseVerbatim       bool          `json:"useVerbatim"`
}

type SlidesMeta struct {
	UniformDesign bool   `json:"uniformDesign"`
	Theme         string `json:"theme"`
	Style         string `json:"style"`
}

// SlidesDocument is what a presentation's slides_json column holds.
type SlidesDocument struct {
	Slides []deck.AssembledSlide `json:"slides"`
	Meta   SlidesMeta            `json:"meta"`
}

type GenerationService interface {
	Generate(ctx context.Context, req BatchRequest) (*types.Presentation, error)
	ValidateStream(req StreamRequest) error
	GenerateStream(ctx context.Context, req StreamRequest, send deck.ProgressFunc) (*types.Presentation, error)
}

type generationService struct {
	db               *gorm.DB
	log              *logger.Logger
	pipeline         Pipeline
	presentationRepo repos.PresentationRepo
	historyRepo      repos.PromptHistoryRepo
	emitter          SSEEmitter
}

func NewGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	pipeline Pipeline,
	presentationRepo repos.PresentationRepo,
	historyRepo repos.PromptHistoryRepo,
	emitter SSEEmitter,
) GenerationService {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &generationService{
		db:               db,
		log:              log.With("service", "GenerationService"),
		pipeline:         pipeline,
		presentationRepo: presentationRepo,
		historyRepo:      historyRepo,
		emitter:          emitter,
	}
}

func (gs *generationService) ValidateStream(req StreamRequest) error {
	return validate.Struct(req)
}

// CombinePrompt numbers each slide's content and separates them with a blank line.
func CombinePrompt(slides []StreamSlide) string {
	parts := make([]string, len(slides))
	for i, s := range slides {
		parts[i] = fmt.Sprintf("Slide %d: %s", i+1, s.Content)
	}
	return strings.Join(parts, "\n\n")
}

// Generate runs the batch pipeline, retrying the whole run once before
// giving up with a 422.
func (gs *generationService) Generate(ctx context.Context, req BatchRequest) (*types.Presentation, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	numSlides := req.NumSlides
	if numSlides == 0 {
		numSlides = defaultBatchSlides
	}
	in := deck.UserInput{
		Prompt:    req.Title + "\n\n" + req.Notes,
		NumSlides: numSlides,
		Tone:      req.Tone,
		Style:     req.Style,
		Verbatim:  req.UseVerbatim,
	}

	emitToUser(ctx, gs.emitter, rd.UserID, realtime.SSEEventGenerationStarted, map[string]any{"title": req.PresentationTitle, "mode": "batch"})
	slides, err := gs.pipeline.Run(ctx, in)
	if err != nil && !errors.Is(err, orchestrator.ErrCancelled) {
		gs.log.Warn("Generation failed, retrying once", "user_id", rd.UserID, "error", err)
		slides, err = gs.pipeline.Run(ctx, in)
	}
	if err != nil {
		gs.log.Error("Generation retry failed", "user_id", rd.UserID, "error", err)
		emitToUser(ctx, gs.emitter, rd.UserID, realtime.SSEEventGenerationFailed, map[string]any{"message": errGenerationFailed.Error()})
		if errors.Is(err, orchestrator.ErrCancelled) {
			return nil, err
		}
		return nil, errGenerationFailed
	}

	doc := SlidesDocument{Slides: slides, Meta: SlidesMeta{Style: req.Style}}
	p, err := gs.save(ctx, rd.UserID, req.PresentationTitle, req.Notes, doc)
	if err != nil {
		return nil, err
	}
	emitToUser(ctx, gs.emitter, rd.UserID, realtime.SSEEventPresentationSaved, p)
	return p, nil
}

// GenerateStream reports every step through send, then the saved
// presentation as the final complete event. A failure after validation is
// reported as an error event as well as returned. Nothing is sent once ctx
// is cancelled.
func (gs *generationService) GenerateStream(ctx context.Context, req StreamRequest, send deck.ProgressFunc) (*types.Presentation, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := gs.ValidateStream(req); err != nil {
		return nil, err
	}

	emit := func(p deck.Progress) {
		if ctx.Err() != nil {
			return
		}
		if send != nil {
			send(p)
		}
		event := realtime.SSEEventGenerationProgress
		switch p.Type {
		case deck.ProgressComplete:
			event = realtime.SSEEventGenerationDone
		case deck.ProgressError:
			event = realtime.SSEEventGenerationFailed
		}
		p.SlidePreview = nil
		emitToUser(ctx, gs.emitter, rd.UserID, event, p)
	}
	fail := func(apiErr *apierr.Error) {
		emit(deck.Progress{Type: deck.ProgressError, Message: apiErr.Error()})
	}

	emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepInit, Message: "🚀 Starting AI slide generation..."})

	prompt := CombinePrompt(req.Slides)
	in := deck.UserInput{
		Prompt:    prompt,
		NumSlides: req.NumSlides,
		Tone:      req.Theme,
		Style:     req.Style,
		Verbatim:  req.UseVerbatim,
	}
	slides, err := gs.pipeline.RunStream(ctx, in, emit)
	if err != nil {
		if errors.Is(err, orchestrator.ErrCancelled) || ctx.Err() != nil {
			gs.log.Info("Streaming generation cancelled", "user_id", rd.UserID)
			return nil, err
		}
		gs.log.Error("Streaming generation failed", "user_id", rd.UserID, "error", err)
		fail(errGenerationFailed)
		return nil, errGenerationFailed
	}

	emit(deck.Progress{Type: deck.ProgressStatus, Step: deck.StepSaving, Message: "💾 Saving presentation...", Percentage: savingPct})
	doc := SlidesDocument{
		Slides: slides,
		Meta:   SlidesMeta{UniformDesign: req.UseUniformDesign, Theme: req.Theme, Style: req.Style},
	}
	p, err := gs.save(ctx, rd.UserID, req.PresentationTitle, prompt, doc)
	if err != nil {
		fail(apierr.As(err))
		return nil, err
	}

	emit(deck.Progress{Type: deck.ProgressComplete, Step: deck.StepComplete, Message: "Presentation ready", Percentage: completePct, Presentation: p})
	return p, nil
}

// save writes the presentation and its prompt-history row in one transaction.
func (gs *generationService) save(ctx context.Context, userID uuid.UUID, title, input string, doc SlidesDocument) (*types.Presentation, error) {
	slidesJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal slides: %w", err)
	}
	historyJSON, err := json.Marshal(map[string]any{"slides": doc.Slides})
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	var saved *types.Presentation
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := gs.presentationRepo.Create(ctx, tx, &types.Presentation{
			UserID:     userID,
			Title:      title,
			SlidesJSON: datatypes.JSON(slidesJSON),
		})
		if err != nil {
			return err
		}
		if _, err := gs.historyRepo.Create(ctx, tx, &types.PromptHistory{
			UserID:     userID,
			InputText:  input,
			AIResponse: datatypes.JSON(historyJSON),
		}); err != nil {
			return err
		}
		saved = p
		return nil
	})
	if err != nil {
		gs.log.Error("Failed to save presentation", "user_id", userID, "error", err)
		return nil, errSaveFailed
	}
	gs.log.Info("Presentation saved", "user_id", userID, "presentation_id", saved.ID, "slides", len(doc.Slides))
	return saved, nil
}
