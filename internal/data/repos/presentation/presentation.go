package presentation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

// PresentationUpdate leaves a field untouched when it is nil.
type PresentationUpdate struct {
	Title      *string
	SlidesJSON datatypes.JSON
}

type PresentationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, p *types.Presentation) (*types.Presentation, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (*types.Presentation, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Presentation, error)
	Update(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID, upd PresentationUpdate) (*types.Presentation, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (bool, error)
	ReassignUser(ctx context.Context, tx *gorm.DB, fromUserID, toUserID uuid.UUID) (int64, error)
}

type presentationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPresentationRepo(db *gorm.DB, baseLog *logger.Logger) PresentationRepo {
	return &presentationRepo{db: db, log: baseLog.With("repo", "PresentationRepo")}
}

func (r *presentationRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func (r *presentationRepo) Create(ctx context.Context, tx *gorm.DB, p *types.Presentation) (*types.Presentation, error) {
	if err := r.tx(tx).WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID is scoped to the owner; it returns nil, nil when not found.
func (r *presentationRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (*types.Presentation, error) {
	var p types.Presentation
	err := r.tx(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns newest first.
func (r *presentationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Presentation, error) {
	out := []*types.Presentation{}
	if err := r.tx(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *presentationRepo) Update(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID, upd PresentationUpdate) (*types.Presentation, error) {
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if len(upd.SlidesJSON) > 0 {
		fields["slides_json"] = upd.SlidesJSON
	}
	t := r.tx(tx).WithContext(ctx)
	if len(fields) > 0 {
		res := t.Model(&types.Presentation{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.GetByID(ctx, tx, userID, id)
}

func (r *presentationRepo) Delete(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (bool, error) {
	res := r.tx(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Presentation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *presentationRepo) ReassignUser(ctx context.Context, tx *gorm.DB, fromUserID, toUserID uuid.UUID) (int64, error) {
	res := r.tx(tx).WithContext(ctx).
		Model(&types.Presentation{}).
		Where("user_id = ?", fromUserID).
		Update("user_id", toUserID)
	return res.RowsAffected, res.Error
}
