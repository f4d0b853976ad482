package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, name := range []string{
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"SESSION_TTL_SECONDS", "SWEEP_INTERVAL_SECONDS", "IDLE_TIMEOUT_SECONDS",
		"EXTEND_MARGIN_SECONDS", "POLL_TIMEOUT_SECONDS", "SWEEP_PURGE_LIMIT",
	} {
		t.Setenv(name, "")
	}

	cfg := Load()

	assert.Equal(t, ":", cfg.RedisAddr)
	assert.Empty(t, cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 3*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, time.Hour, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.ExtendMargin)
	assert.Equal(t, time.Second, cfg.PollTimeout)
	assert.Equal(t, 100, cfg.PurgeLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL_SECONDS", "600")
	t.Setenv("SWEEP_INTERVAL_SECONDS", "30")
	t.Setenv("IDLE_TIMEOUT_SECONDS", "900")
	t.Setenv("EXTEND_MARGIN_SECONDS", "10")
	t.Setenv("POLL_TIMEOUT_SECONDS", "2")
	t.Setenv("SWEEP_PURGE_LIMIT", "50")

	cfg := Load()

	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 15*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.ExtendMargin)
	assert.Equal(t, 2*time.Second, cfg.PollTimeout)
	assert.Equal(t, 50, cfg.PurgeLimit)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL_SECONDS", "not-a-number")
	t.Setenv("IDLE_TIMEOUT_SECONDS", "-5")
	t.Setenv("SWEEP_PURGE_LIMIT", "ten")

	cfg := Load()

	assert.Equal(t, 3*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.IdleTimeout)
	assert.Equal(t, 100, cfg.PurgeLimit)
}
