package bus

import (
	"context"

	"github.com/yungbote/slideforge-backend/internal/realtime"
)

// Bus carries hub messages between API replicas.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// Publisher delivers a message to subscribers, wherever they are connected.
type Publisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

// Local publishes straight into the in-process hub.
type Local struct{ Hub *realtime.SSEHub }

func (l Local) Publish(_ context.Context, msg realtime.SSEMessage) error {
	if l.Hub != nil {
		l.Hub.Broadcast(msg)
	}
	return nil
}
