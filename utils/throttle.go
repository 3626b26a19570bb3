package utils

import (
	"context"
	"sync"
	"time"
)

// Throttle spaces out calls to a rate-limited collaborator so that at least
// the configured interval elapses between two consecutive calls.
type Throttle struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

// NewThrottle creates a Throttle. A non-positive rateLimitMs disables waiting.
func NewThrottle(rateLimitMs int) *Throttle {
	return &Throttle{interval: time.Duration(rateLimitMs) * time.Millisecond}
}

// Wait blocks until the next call is allowed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if wait := t.interval - time.Since(t.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	t.last = time.Now()
	return nil
}
