package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/repos/presentation"
	"github.com/yungbote/slideforge-backend/internal/data/repos/user"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type TransferLinkRepo = user.TransferLinkRepo

type PresentationRepo = presentation.PresentationRepo
type PresentationUpdate = presentation.PresentationUpdate
type PromptHistoryRepo = presentation.PromptHistoryRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewTransferLinkRepo(db *gorm.DB, log *logger.Logger) TransferLinkRepo {
	return user.NewTransferLinkRepo(db, log)
}

func NewPresentationRepo(db *gorm.DB, log *logger.Logger) PresentationRepo {
	return presentation.NewPresentationRepo(db, log)
}

func NewPromptHistoryRepo(db *gorm.DB, log *logger.Logger) PromptHistoryRepo {
	return presentation.NewPromptHistoryRepo(db, log)
}
