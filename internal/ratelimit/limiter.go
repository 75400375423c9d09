// Package ratelimit enforces a minimum spacing between outbound requests.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/cre-scout/loopnet-mcp/internal/metrics"
)

// Limiter spaces request dispatches process-wide. All callers of one client
// share a single Limiter, so consecutive dispatch starts are separated by at
// least the configured delay.
type Limiter struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// New creates a Limiter enforcing the given inter-request delay. A
// non-positive delay disables spacing entirely.
func New(delay time.Duration) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		delay:   delay,
	}
}

// Wait blocks until the caller may dispatch, respecting the context.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveRateLimitDelay(waited)
	}
	return nil
}

// Delay reports the configured inter-request spacing.
func (l *Limiter) Delay() time.Duration {
	return l.delay
}
