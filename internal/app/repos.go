package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	TransferLink  repos.TransferLinkRepo
	Presentation  repos.PresentationRepo
	PromptHistory repos.PromptHistoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		TransferLink:  repos.NewTransferLinkRepo(db, log),
		Presentation:  repos.NewPresentationRepo(db, log),
		PromptHistory: repos.NewPromptHistoryRepo(db, log),
	}
}
