package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"instructor_backend/internal/platform/config"
)

// NewRedisClient connects to the token store and verifies the connection
// before returning. The session core cannot run degraded without its
// store, so a failed ping fails the constructor rather than deferring
// the error to the first operation.
func NewRedisClient(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.RedisAddr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.RedisAddr, "db", cfg.RedisDB)
	return rdb, nil
}
