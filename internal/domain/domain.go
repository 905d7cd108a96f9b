package domain

import (
	"github.com/yungbote/slideforge-backend/internal/domain/presentation"
	"github.com/yungbote/slideforge-backend/internal/domain/user"
)

type User = user.User
type TransferLink = user.TransferLink

type Presentation = presentation.Presentation
type PromptHistory = presentation.PromptHistory

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&TransferLink{},
		&Presentation{},
		&PromptHistory{},
	}
}
