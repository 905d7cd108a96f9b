package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type SSEEvent string

const (
	SSEEventGenerationStarted  SSEEvent = "GenerationStarted"
	SSEEventGenerationProgress SSEEvent = "GenerationProgress"
	SSEEventGenerationDone     SSEEvent = "GenerationDone"
	SSEEventGenerationFailed   SSEEvent = "GenerationFailed"
	SSEEventPresentationSaved  SSEEvent = "PresentationSaved"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger
}

// UserChannel is the channel every authenticated stream joins.
func UserChannel(userID uuid.UUID) string { return "user:" + userID.String() }
