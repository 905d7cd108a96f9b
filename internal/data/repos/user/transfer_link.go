package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type TransferLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.TransferLink) (*types.TransferLink, error)
	ListByDemoUser(ctx context.Context, tx *gorm.DB, demoUserID uuid.UUID) ([]*types.TransferLink, error)
}

type transferLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransferLinkRepo(db *gorm.DB, baseLog *logger.Logger) TransferLinkRepo {
	return &transferLinkRepo{db: db, log: baseLog.With("repo", "TransferLinkRepo")}
}

func (r *transferLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.TransferLink) (*types.TransferLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *transferLinkRepo) ListByDemoUser(ctx context.Context, tx *gorm.DB, demoUserID uuid.UUID) ([]*types.TransferLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TransferLink
	if err := transaction.WithContext(ctx).
		Where("demo_user_id = ?", demoUserID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
