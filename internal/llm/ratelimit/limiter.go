// Package ratelimit spaces calls to one provider credential by a minimum interval.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between consecutive calls. Concurrent
// callers queue behind each other, so the interval holds exactly even under
// contention. A nil Limiter or a non-positive interval never waits.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	lim      *rate.Limiter
}

func New(interval time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = RealClock()
	}
	l := &Limiter{interval: interval, clock: clock}
	if interval > 0 {
		l.lim = rate.NewLimiter(rate.Every(interval), 1)
	}
	return l
}

func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}

// Wait blocks until the caller may issue its request and returns how long it
// waited. If ctx ends first the reserved slot is released and ctx's error is
// returned.
func (l *Limiter) Wait(ctx context.Context) (time.Duration, error) {
	if l == nil || l.lim == nil {
		return 0, ctx.Err()
	}
	l.mu.Lock()
	now := l.clock.Now()
	r := l.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	l.mu.Unlock()

	if delay <= 0 {
		return 0, ctx.Err()
	}
	if err := l.clock.Sleep(ctx, delay); err != nil {
		l.mu.Lock()
		r.CancelAt(l.clock.Now())
		l.mu.Unlock()
		return 0, err
	}
	return delay, nil
}

// Registry hands out one Limiter per credential so every gateway sharing a
// key shares its spacing.
type Registry struct {
	mu       sync.Mutex
	clock    Clock
	limiters map[string]*Limiter
}

func NewRegistry(clock Clock) *Registry {
	return &Registry{clock: clock, limiters: make(map[string]*Limiter)}
}

// For returns the limiter for credential, creating it with interval on first use.
func (r *Registry) For(credential string, interval time.Duration) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[credential]; ok {
		return l
	}
	l := New(interval, r.clock)
	r.limiters[credential] = l
	return l
}
