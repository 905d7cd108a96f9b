package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
	"github.com/yungbote/slideforge-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// BusEmitter publishes through the cross-replica bus; failures are logged and
// otherwise ignored.
type BusEmitter struct {
	Bus bus.Publisher
	Log *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("SSE publish failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, realtime.SSEMessage) {}

func emitToUser(ctx context.Context, e SSEEmitter, userID uuid.UUID, event realtime.SSEEvent, data any) {
	if e == nil {
		return
	}
	e.Emit(context.WithoutCancel(ctx), realtime.SSEMessage{Channel: realtime.UserChannel(userID), Event: event, Data: data})
}
