package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/netip"
	"time"

	"github.com/google/uuid"

	"instructor_backend/internal/feature/session/domain/entity"
)

const (
	// UnknownOwner is the sentinel returned by QueryOwner when no record
	// exists for the token. An unauthenticated request is an expected
	// case, not an exceptional one.
	UnknownOwner int64 = -1

	// defaultExtendMargin is the minimum remaining TTL required before an
	// extension is attempted, so the write cannot race an imminent
	// auto-expiry.
	defaultExtendMargin = 5 * time.Second
)

// TokenRegistry is the sole authority over session token issuance and
// validation. It holds no in-process state across calls; all coordination
// is delegated to the store's per-key atomicity, so the methods are safe
// for concurrent use from any number of request handlers.
type TokenRegistry struct {
	store        TokenStore
	extendMargin time.Duration
}

// NewTokenRegistry creates a new TokenRegistry instance.
// If extendMargin is not positive it defaults to 5 seconds.
func NewTokenRegistry(store TokenStore, extendMargin time.Duration) *TokenRegistry {
	if extendMargin <= 0 {
		extendMargin = defaultExtendMargin
	}
	return &TokenRegistry{
		store:        store,
		extendMargin: extendMargin,
	}
}

// AssignToken issues a fresh opaque token for an authenticated user.
// The IP address must parse as an IPv4 or IPv6 literal; it is stored in
// canonical form and verified on every subsequent request. Token values
// come from a v4 UUID and are not checked for collisions against the
// store. Store errors surface to the caller without retries.
func (r *TokenRegistry) AssignToken(ctx context.Context, userID int64, ipAddress string, ttl time.Duration) (string, error) {
	addr, err := netip.ParseAddr(ipAddress)
	if err != nil {
		return "", ErrInvalidAddress
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	token := uuid.NewString()
	record := &entity.TokenRecord{
		Token:     token,
		UserID:    userID,
		IPAddress: addr.String(),
		CreatedAt: time.Now(),
	}

	// Record first, then the index entry. The reverse order could leave
	// an index entry pointing at a token that was never live.
	if err := r.store.PutRecord(ctx, record, ttl); err != nil {
		return "", err
	}
	if err := r.store.TouchSession(ctx, userID, token, time.Now()); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyToken reports whether the token is live and was issued to this
// user from this address. It never returns an error: verification sits on
// the hot path of every request and fails closed on malformed input,
// missing records, mismatches, and store failures alike, so the caller
// cannot distinguish which part of the check failed. A successful
// verification refreshes the token's last-active time in the index.
func (r *TokenRegistry) VerifyToken(ctx context.Context, userID int64, ipAddress string, token string) bool {
	addr, err := netip.ParseAddr(ipAddress)
	if err != nil {
		return false
	}

	record, err := r.store.GetRecord(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			slog.Warn("session verification failed to read record", "error", err)
		}
		return false
	}
	if record.UserID != userID || record.IPAddress != addr.String() {
		return false
	}

	// Sliding-window recency. The token itself is already proven valid;
	// a failed refresh costs accuracy of the idle sweep, not correctness.
	if err := r.store.TouchSession(ctx, userID, token, time.Now()); err != nil {
		slog.Warn("failed to refresh session activity", "user_id", userID, "error", err)
	}
	return true
}

// ExtendToken adds extend to the remaining TTL of the token record. It
// refuses to resurrect a record that is already expired, carries no
// expiry, or is within the safety margin of expiring, and refuses any
// result that is not a positive TTL. The last-active time is not touched;
// extension is not activity.
func (r *TokenRegistry) ExtendToken(ctx context.Context, token string, extend time.Duration) (bool, error) {
	remaining, err := r.store.RecordTTL(ctx, token)
	if err != nil {
		return false, err
	}
	// Negative sentinels cover both "record gone" and "no expiry set".
	if remaining <= r.extendMargin {
		return false, nil
	}

	next := remaining + extend
	if next <= 0 {
		return false, nil
	}
	if err := r.store.SetRecordTTL(ctx, token, next); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			// Expired between the TTL read and the write.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PurgeToken revokes a token. Returns false when the record is already
// gone; callers must treat "already revoked" as non-fatal. The record is
// deleted before the index entry, so a crash in between leaves at worst
// an orphaned index entry for the reconciler, never a live record with no
// index trace.
func (r *TokenRegistry) PurgeToken(ctx context.Context, token string) (bool, error) {
	record, err := r.store.GetRecord(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := r.store.DeleteRecord(ctx, token); err != nil {
		return false, err
	}
	if err := r.store.RemoveSession(ctx, record.UserID, token); err != nil {
		// The record is gone, so the session is dead either way; the
		// stale index entry is cleaned up by the idle sweep.
		slog.Warn("purged token left stale index entry", "user_id", record.UserID, "error", err)
	}
	return true, nil
}

// QueryOwner resolves the user a token was issued to, or UnknownOwner
// when no record exists.
func (r *TokenRegistry) QueryOwner(ctx context.Context, token string) (int64, error) {
	record, err := r.store.GetRecord(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return UnknownOwner, nil
		}
		return UnknownOwner, err
	}
	return record.UserID, nil
}

// FetchActiveTokens lists all tokens in the user's session index. The
// index may transiently contain tokens whose record has already expired;
// callers that need proof of liveness must verify each token, not trust
// the enumeration.
func (r *TokenRegistry) FetchActiveTokens(ctx context.Context, userID int64) ([]string, error) {
	return r.store.SessionTokens(ctx, userID)
}

// PurgeAllTokens revokes every indexed token of the user and returns the
// number successfully purged. The iteration is not atomic across the set:
// a token assigned concurrently may or may not be included. Per-token
// failures are logged and skipped so one bad entry cannot strand the
// rest.
func (r *TokenRegistry) PurgeAllTokens(ctx context.Context, userID int64) (int, error) {
	tokens, err := r.store.SessionTokens(ctx, userID)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, token := range tokens {
		ok, err := r.PurgeToken(ctx, token)
		if err != nil {
			slog.Warn("failed to purge session token", "user_id", userID, "error", err)
			continue
		}
		if ok {
			purged++
		}
	}
	return purged, nil
}
