package presentation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type PromptHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, h *types.PromptHistory) (*types.PromptHistory, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PromptHistory, error)
	ReassignUser(ctx context.Context, tx *gorm.DB, fromUserID, toUserID uuid.UUID) (int64, error)
}

type promptHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PromptHistoryRepo {
	return &promptHistoryRepo{db: db, log: baseLog.With("repo", "PromptHistoryRepo")}
}

func (r *promptHistoryRepo) Create(ctx context.Context, tx *gorm.DB, h *types.PromptHistory) (*types.PromptHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func (r *promptHistoryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PromptHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := []*types.PromptHistory{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptHistoryRepo) ReassignUser(ctx context.Context, tx *gorm.DB, fromUserID, toUserID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.PromptHistory{}).
		Where("user_id = ?", fromUserID).
		Update("user_id", toUserID)
	return res.RowsAffected, res.Error
}
