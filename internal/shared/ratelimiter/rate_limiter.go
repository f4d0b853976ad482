// Package ratelimiter bounds how often repeated operations may run
// within an interval.
package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface limits the frequency of repeated operations such
// as store mutations issued by a background worker.
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter caps the number of operations per interval, sleeping the
// caller once the cap is reached. It is intended for a single worker
// loop, not for concurrent use.
type RateLimiter struct {
	limit     int           // operations allowed per interval
	interval  time.Duration // window after which the count resets
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a new RateLimiter instance.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded checks whether the cap for the current interval has been
// reached and sleeps until the next interval if so.
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Info("rate limit reached, pausing", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
