// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	sessionusecase "instructor_backend/internal/feature/session/usecase"
	"instructor_backend/internal/feature/session/worker"
	"instructor_backend/internal/platform/config"
	platformsession "instructor_backend/internal/platform/session"
	"instructor_backend/internal/shared/ratelimiter"
)

// NewTokenRegistry wires the Redis token store into a TokenRegistry.
// The returned store is shared with the background workers.
func NewTokenRegistry(rdb *redis.Client, cfg config.Config) (*sessionusecase.TokenRegistry, *platformsession.TokenRedis) {
	store := platformsession.NewTokenRedis(rdb, "session")
	registry := sessionusecase.NewTokenRegistry(store, cfg.ExtendMargin)
	return registry, store
}

// NewSessionWorkers builds the idle sweeper and expiry reconciler around
// a shared registry and store. Expiry notifications are enabled
// best-effort; managed Redis deployments that deny CONFIG must have
// notify-keyspace-events set to include "Ex" server-side.
func NewSessionWorkers(registry *sessionusecase.TokenRegistry, store *platformsession.TokenRedis,
	cfg config.Config) *worker.Runner {
	if err := store.EnableExpiryNotifications(context.Background()); err != nil {
		slog.Warn("could not enable keyspace expiry notifications", "error", err)
	}

	limiter := ratelimiter.NewRateLimiter(cfg.PurgeLimit, time.Second)
	sweeper := worker.NewIdleSweeper(registry, store, limiter, cfg.SweepInterval, cfg.IdleTimeout)
	reconciler := worker.NewExpiryReconciler(store, cfg.PollTimeout)
	return worker.NewRunner(sweeper, reconciler)
}
