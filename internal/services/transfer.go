package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type TransferResult struct {
	Presentations int64 `json:"presentations"`
	Prompts       int64 `json:"prompts"`
}

type TransferService interface {
	// TransferDemoData moves every presentation and prompt of the demo user
	// to the authenticated account.
	TransferDemoData(ctx context.Context, demoUserID string) (*TransferResult, error)
}

type transferService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	presentationRepo repos.PresentationRepo
	historyRepo      repos.PromptHistoryRepo
	linkRepo         repos.TransferLinkRepo
}

func NewTransferService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	presentationRepo repos.PresentationRepo,
	historyRepo repos.PromptHistoryRepo,
	linkRepo repos.TransferLinkRepo,
) TransferService {
	return &transferService{
		db:               db,
		log:              log.With("service", "TransferService"),
		userRepo:         userRepo,
		presentationRepo: presentationRepo,
		historyRepo:      historyRepo,
		linkRepo:         linkRepo,
	}
}

func (ts *transferService) TransferDemoData(ctx context.Context, rawDemoID string) (*TransferResult, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if rd.IsDemo {
		return nil, apierr.New(http.StatusBadRequest, "demo_caller", errors.New("Cannot transfer from demo user"))
	}
	demoID, err := uuid.Parse(rawDemoID)
	if err != nil {
		return nil, apierr.Validation(apierr.FieldError{Field: "demo_user_id", Message: "must be a valid UUID"})
	}
	if demoID == rd.UserID {
		return nil, apierr.New(http.StatusBadRequest, "same_user", errors.New("Cannot transfer to the same user"))
	}

	res := &TransferResult{}
	err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		demo, err := ts.userRepo.GetByID(ctx, tx, demoID)
		if err != nil {
			return fmt.Errorf("load demo user: %w", err)
		}
		if demo == nil || !demo.IsDemo {
			return apierr.New(http.StatusNotFound, "demo_user_not_found", errors.New("Demo user not found"))
		}
		if res.Presentations, err = ts.presentationRepo.ReassignUser(ctx, tx, demoID, rd.UserID); err != nil {
			return fmt.Errorf("reassign presentations: %w", err)
		}
		if res.Prompts, err = ts.historyRepo.ReassignUser(ctx, tx, demoID, rd.UserID); err != nil {
			return fmt.Errorf("reassign prompts: %w", err)
		}
		realID := rd.UserID
		if _, err := ts.linkRepo.Create(ctx, tx, &types.TransferLink{
			DemoUserID: demoID,
			RealUserID: &realID,
			Claimed:    true,
		}); err != nil {
			return fmt.Errorf("record transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ts.log.Info("Demo data transferred",
		"user_id", rd.UserID,
		"demo_user_id", demoID,
		"presentations", res.Presentations,
		"prompts", res.Prompts,
	)
	return res, nil
}
