package collector

import (
	"context"
	"sync"
	"time"
)

// RateLimiter manages Congress.gov API rate limiting
type RateLimiter interface {
	// Wait blocks until the minimum inter-request interval has elapsed.
	Wait(ctx context.Context) error

	// BackoffDelay returns the delay before retry number attempt (0-based).
	// Delays double per attempt and are capped, so successive delays are
	// strictly increasing until the cap is reached.
	BackoffDelay(attempt int) time.Duration
}

// intervalLimiter implements RateLimiter with a fixed minimum interval
type intervalLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	baseBackoff time.Duration
	maxBackoff  time.Duration
	lastCall    time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(minInterval, baseBackoff, maxBackoff time.Duration) RateLimiter {
	return &intervalLimiter{
		minInterval: minInterval,
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
	}
}

// Wait waits until it's safe to make another API call
func (r *intervalLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	elapsed := time.Since(r.lastCall)
	if elapsed < r.minInterval {
		wait := r.minInterval - elapsed
		r.mu.Unlock()
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
		r.mu.Lock()
	}
	r.lastCall = time.Now()
	r.mu.Unlock()
	return nil
}

// BackoffDelay returns the exponential backoff delay for a retry attempt
func (r *intervalLimiter) BackoffDelay(attempt int) time.Duration {
	delay := r.baseBackoff
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= r.maxBackoff {
			return r.maxBackoff
		}
	}
	return delay
}

// sleepCtx sleeps for the given duration or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
