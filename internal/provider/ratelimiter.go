package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding a free-tier API. One token is
// returned to the bucket every refillEvery, up to capacity.
type RateLimiter struct {
	mu          sync.Mutex
	available   int
	capacity    int
	refillEvery time.Duration
	lastTopUp   time.Time
}

func NewRateLimiter(capacity int, refillEvery time.Duration) *RateLimiter {
	return &RateLimiter{
		available:   capacity,
		capacity:    capacity,
		refillEvery: refillEvery,
		lastTopUp:   time.Now(),
	}
}

// Wait blocks until a token can be taken or ctx is cancelled.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		if l.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.refillEvery):
		}
	}
}

func (l *RateLimiter) take() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	earned := int(time.Since(l.lastTopUp) / l.refillEvery)
	if earned > 0 {
		l.available = min(l.available+earned, l.capacity)
		l.lastTopUp = l.lastTopUp.Add(time.Duration(earned) * l.refillEvery)
	}
	if l.available == 0 {
		return false
	}
	l.available--
	return true
}
