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

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/pipeline/editor"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

var (
	errPresentationIDRequired = apierr.New(http.StatusBadRequest, "presentation_id_required", errors.New("Presentation ID required"))
	errPresentationNotFound   = apierr.New(http.StatusNotFound, "presentation_not_found", errors.New("Presentation not found"))
)

// PresentationPatch is the body of PATCH /api/presentations.
type PresentationPatch struct {
	ID         string          `json:"id"`
	Title      *string         `json:"title,omitempty"`
	SlidesJSON json.RawMessage `json:"slides_json,omitempty"`
}

type PresentationService interface {
	List(ctx context.Context) ([]*types.Presentation, error)
	Get(ctx context.Context, id string) (*types.Presentation, error)
	Update(ctx context.Context, patch PresentationPatch) (*types.Presentation, error)
	Delete(ctx context.Context, id string) error
	ExportEditor(ctx context.Context, id, theme string) (editor.Document, error)
}

type presentationService struct {
	log              *logger.Logger
	presentationRepo repos.PresentationRepo
}

func NewPresentationService(log *logger.Logger, presentationRepo repos.PresentationRepo) PresentationService {
	return &presentationService{
		log:              log.With("service", "PresentationService"),
		presentationRepo: presentationRepo,
	}
}

func parsePresentationID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errPresentationIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Validation(apierr.FieldError{Field: "id", Message: "must be a valid UUID"})
	}
	return id, nil
}

func (ps *presentationService) List(ctx context.Context) ([]*types.Presentation, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	out, err := ps.presentationRepo.ListByUser(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	return out, nil
}

func (ps *presentationService) Get(ctx context.Context, rawID string) (*types.Presentation, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parsePresentationID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := ps.presentationRepo.GetByID(ctx, nil, rd.UserID, id)
	if err != nil {
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	if p == nil {
		return nil, errPresentationNotFound
	}
	return p, nil
}

func (ps *presentationService) Update(ctx context.Context, patch PresentationPatch) (*types.Presentation, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parsePresentationID(patch.ID)
	if err != nil {
		return nil, err
	}
	upd := repos.PresentationUpdate{Title: patch.Title}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apierr.Validation(apierr.FieldError{Field: "title", Message: "is required"})
	}
	if len(patch.SlidesJSON) > 0 && string(patch.SlidesJSON) != "null" {
		if !json.Valid(patch.SlidesJSON) {
			return nil, apierr.Validation(apierr.FieldError{Field: "slides_json", Message: "must be valid JSON"})
		}
		upd.SlidesJSON = datatypes.JSON(patch.SlidesJSON)
	}
	p, err := ps.presentationRepo.Update(ctx, nil, rd.UserID, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update presentation: %w", err)
	}
	if p == nil {
		return nil, errPresentationNotFound
	}
	return p, nil
}

func (ps *presentationService) Delete(ctx context.Context, rawID string) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	id, err := parsePresentationID(rawID)
	if err != nil {
		return err
	}
	ok, err := ps.presentationRepo.Delete(ctx, nil, rd.UserID, id)
	if err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	if !ok {
		return errPresentationNotFound
	}
	ps.log.Info("Presentation deleted", "user_id", rd.UserID, "presentation_id", id)
	return nil
}

// ExportEditor converts the stored assembled slides to the editor document.
// An empty theme falls back to the one recorded with the presentation; only
// preset names change styling.
func (ps *presentationService) ExportEditor(ctx context.Context, rawID, theme string) (editor.Document, error) {
	p, err := ps.Get(ctx, rawID)
	if err != nil {
		return editor.Document{}, err
	}
	var doc SlidesDocument
	if len(p.SlidesJSON) > 0 {
		if err := json.Unmarshal(p.SlidesJSON, &doc); err != nil {
			return editor.Document{}, apierr.New(http.StatusUnprocessableEntity, "slides_unreadable", fmt.Errorf("Stored slides are not in generated format: %w", err))
		}
	}
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme == "" {
		theme = strings.ToLower(strings.TrimSpace(doc.Meta.Theme))
	}
	return editor.ConvertAll(doc.Slides, theme), nil
}
