// Package config loads operational parameters from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the operational parameters of the session service.
type Config struct {
	RedisAddr     string        // host:port of the token store
	RedisPassword string        // empty when the store is unauthenticated
	RedisDB       int           // store database index
	SessionTTL    time.Duration // lifetime of a freshly issued token
	SweepInterval time.Duration // how often the idle sweeper runs
	IdleTimeout   time.Duration // inactivity after which a session is evicted
	ExtendMargin  time.Duration // minimum remaining TTL required to extend
	PollTimeout   time.Duration // bound on each expiry-event receive
	PurgeLimit    int           // sweep purges allowed per second
}

// Load reads the configuration from environment variables, applying
// defaults for everything that is unset. The sweep interval is expected
// to be much shorter than the idle timeout.
func Load() Config {
	return Config{
		RedisAddr:     os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0),
		SessionTTL:    secondsEnv("SESSION_TTL_SECONDS", 3*time.Hour),
		SweepInterval: secondsEnv("SWEEP_INTERVAL_SECONDS", time.Minute),
		IdleTimeout:   secondsEnv("IDLE_TIMEOUT_SECONDS", time.Hour),
		ExtendMargin:  secondsEnv("EXTEND_MARGIN_SECONDS", 5*time.Second),
		PollTimeout:   secondsEnv("POLL_TIMEOUT_SECONDS", time.Second),
		PurgeLimit:    intEnv("SWEEP_PURGE_LIMIT", 100),
	}
}

// secondsEnv reads an integer number of seconds from the environment,
// falling back to def when unset or unparseable.
func secondsEnv(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// intEnv reads an integer from the environment, falling back to def when
// unset or unparseable.
func intEnv(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
