package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
)

const (
	defaultRedisChannel = "slideforge:sse"
	// Progress events older than this are dropped on receipt; the stream
	// that produced them has moved on.
	maxEnvelopeAge = 30 * time.Second
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// envelope is the wire form on the Redis channel.
type envelope struct {
	Origin  string              `json:"origin"`
	SentAt  time.Time           `json:"sent_at"`
	Message realtime.SSEMessage `json:"message"`
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	origin  string
	now     func() time.Time
}

func NewRedisBus(log *logger.Logger, cfg RedisConfig) (Bus, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis bus: address required")
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = defaultRedisChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	b := newRedisBus(log, rdb, channel)
	b.log.Info("Redis SSE bus connected", "addr", addr, "channel", channel)
	return b, nil
}

func newRedisBus(log *logger.Logger, rdb *goredis.Client, channel string) *redisBus {
	origin := uuid.NewString()
	return &redisBus{
		log:     log.With("component", "RedisSSEBus", "origin", origin),
		rdb:     rdb,
		channel: channel,
		origin:  origin,
		now:     time.Now,
	}
}

func (b *redisBus) encode(msg realtime.SSEMessage) ([]byte, error) {
	return json.Marshal(envelope{Origin: b.origin, SentAt: b.now().UTC(), Message: msg})
}

// decode returns ok=false for payloads that should be skipped.
func (b *redisBus) decode(payload string) (realtime.SSEMessage, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.log.Warn("Dropping malformed SSE payload", "error", err)
		return realtime.SSEMessage{}, false
	}
	if env.Message.Channel == "" {
		return realtime.SSEMessage{}, false
	}
	if age := b.now().Sub(env.SentAt); !env.SentAt.IsZero() && age > maxEnvelopeAge {
		b.log.Debug("Dropping stale SSE payload", "channel", env.Message.Channel, "event", env.Message.Event, "age", age)
		return realtime.SSEMessage{}, false
	}
	return env.Message, true
}

func (b *redisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	raw, err := b.encode(msg)
	if err != nil {
		return fmt.Errorf("encode SSE message: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// StartForwarder subscribes and hands every decoded message to onMsg until
// ctx is done. It returns once the subscription is confirmed.
func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return errors.New("redis bus: onMsg callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					b.log.Warn("Redis subscription closed")
					return
				}
				if msg, ok := b.decode(m.Payload); ok {
					onMsg(msg)
				}
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error {
	return b.rdb.Close()
}
