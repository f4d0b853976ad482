// Package worker runs the background tasks that keep the session index
// consistent with the true set of live tokens.
package worker

import (
	"context"
	"log/slog"
	"time"

	"instructor_backend/internal/shared/ratelimiter"
)

// TokenPurger revokes a single token.
// Following Go convention: interfaces are defined by the consumer (worker), not the provider (usecase).
type TokenPurger interface {
	PurgeToken(ctx context.Context, token string) (bool, error)
}

// SweepStore provides the index reads the sweeper needs.
type SweepStore interface {
	// IndexedUsers lists the users that currently have a session index.
	IndexedUsers(ctx context.Context) ([]int64, error)
	// IdleTokens lists a user's tokens last active at or before cutoff.
	IdleTokens(ctx context.Context, userID int64, cutoff time.Time) ([]string, error)
	// RemoveSession removes a token from a user's session index.
	RemoveSession(ctx context.Context, userID int64, token string) error
}

// IdleSweeper periodically scans every user's session index and revokes
// sessions that have been inactive past the idle timeout. It also clears
// stale index entries whose record is already gone, which covers purges
// that crashed between the record delete and the index delete.
type IdleSweeper struct {
	registry    TokenPurger
	store       SweepStore
	limiter     ratelimiter.RateLimiterInterface
	interval    time.Duration
	idleTimeout time.Duration
}

// NewIdleSweeper creates a new IdleSweeper instance. The limiter paces
// purge bursts so a large idle backlog cannot hammer the store; it may
// be nil to purge unthrottled.
func NewIdleSweeper(registry TokenPurger, store SweepStore, limiter ratelimiter.RateLimiterInterface,
	interval, idleTimeout time.Duration) *IdleSweeper {
	return &IdleSweeper{
		registry:    registry,
		store:       store,
		limiter:     limiter,
		interval:    interval,
		idleTimeout: idleTimeout,
	}
}

// Run sweeps on every tick until ctx is cancelled. A sweep that is in
// flight when the stop signal arrives runs to completion; cancellation
// is only observed between ticks.
func (w *IdleSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("idle sweeper started", "interval", w.interval, "idle_timeout", w.idleTimeout)
	for {
		select {
		case <-ctx.Done():
			slog.Info("idle sweeper stopped")
			return
		case <-ticker.C:
			// Deliberately not the run context: the in-flight sweep
			// must finish before shutdown is honored.
			w.sweep(context.Background())
		}
	}
}

// sweep walks every user's index once and purges entries older than the
// idle cutoff. A failure on one entry or one user never aborts the rest.
// Revoked live sessions count as evicted; orphaned index entries whose
// record was already gone count as healed.
func (w *IdleSweeper) sweep(ctx context.Context) (evicted, healed, failed int) {
	cutoff := time.Now().Add(-w.idleTimeout)

	users, err := w.store.IndexedUsers(ctx)
	if err != nil {
		slog.Warn("idle sweep could not list session indexes", "error", err)
		return 0, 0, 1
	}

	for _, userID := range users {
		tokens, err := w.store.IdleTokens(ctx, userID, cutoff)
		if err != nil {
			failed++
			slog.Warn("idle sweep could not read session index", "user_id", userID, "error", err)
			continue
		}

		for _, token := range tokens {
			if w.limiter != nil {
				w.limiter.WaitIfNeeded()
			}

			ok, err := w.registry.PurgeToken(ctx, token)
			if err != nil {
				failed++
				slog.Warn("idle sweep failed to purge token", "user_id", userID, "error", err)
				continue
			}
			if !ok {
				// Record already gone; drop the orphaned index entry.
				if err := w.store.RemoveSession(ctx, userID, token); err != nil {
					failed++
					slog.Warn("idle sweep failed to drop orphaned entry", "user_id", userID, "error", err)
					continue
				}
				healed++
				continue
			}
			evicted++
		}
	}

	if evicted > 0 || healed > 0 || failed > 0 {
		slog.Info("idle sweep finished", "evicted", evicted, "healed", healed, "failed", failed)
	}
	return evicted, healed, failed
}
