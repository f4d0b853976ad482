package usecase

import (
	"context"
	"time"

	"instructor_backend/internal/feature/session/domain/entity"
)

// TokenStore abstracts the key-value store holding token records and the
// per-user session index.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform).
type TokenStore interface {
	// PutRecord persists a token record with the given time-to-live.
	PutRecord(ctx context.Context, record *entity.TokenRecord, ttl time.Duration) error

	// GetRecord retrieves the record for a token value.
	// Returns ErrTokenNotFound when the record is absent or already expired.
	GetRecord(ctx context.Context, token string) (*entity.TokenRecord, error)

	// DeleteRecord removes the record for a token value. Deleting an
	// absent record is not an error.
	DeleteRecord(ctx context.Context, token string) error

	// RecordTTL reports the remaining time-to-live of a token record.
	// The store's sentinel values pass through unchanged: a negative
	// duration means the record is missing or carries no expiry.
	RecordTTL(ctx context.Context, token string) (time.Duration, error)

	// SetRecordTTL replaces the remaining time-to-live of a token record.
	// Returns ErrTokenNotFound when the record no longer exists.
	SetRecordTTL(ctx context.Context, token string, ttl time.Duration) error

	// TouchSession adds the token to the user's session index, or
	// refreshes its last-active time when already present.
	TouchSession(ctx context.Context, userID int64, token string, at time.Time) error

	// RemoveSession removes the token from the user's session index.
	RemoveSession(ctx context.Context, userID int64, token string) error

	// SessionTokens lists all tokens in the user's session index, in
	// index order. Returns an empty slice when the user has none.
	SessionTokens(ctx context.Context, userID int64) ([]string, error)
}
