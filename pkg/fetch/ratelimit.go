package fetch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimiter enforces the fixed politeness pause between the crawl's network-facing
// steps. Unlike a per-host limiter it always waits the full delay.
type RateLimiter struct {
	delay time.Duration
	log   *logrus.Entry
}

// NewRateLimiter creates a RateLimiter; a non-positive delay disables it
func NewRateLimiter(delay time.Duration, log *logrus.Entry) *RateLimiter {
	return &RateLimiter{
		delay: delay,
		log:   log,
	}
}

// Delay returns the configured pause
func (rl *RateLimiter) Delay() time.Duration {
	return rl.delay
}

// ApplyDelay sleeps for the configured delay, returning early with ctx.Err() if the
// context is cancelled first
func (rl *RateLimiter) ApplyDelay(ctx context.Context) error {
	if rl.delay <= 0 {
		return nil
	}
	rl.log.WithField("sleep", rl.delay).Debug("Politeness delay")

	timer := time.NewTimer(rl.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		rl.log.Warnf("Politeness delay interrupted: %v", ctx.Err())
		return ctx.Err()
	}
}
