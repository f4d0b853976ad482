package worker

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"instructor_backend/internal/feature/session/usecase"
)

// defaultPollTimeout bounds each blocking receive so the loop can
// observe cancellation between messages.
const defaultPollTimeout = time.Second

// ReconcileStore provides the expiry notifications and index mutations
// the reconciler needs.
type ReconcileStore interface {
	// SubscribeExpiry subscribes to the store's key-expiration events.
	SubscribeExpiry(ctx context.Context) *redis.PubSub
	// TokenFromRecordKey extracts the token from an expired record key,
	// reporting false for keys outside the record namespace.
	TokenFromRecordKey(key string) (string, bool)
	// OwnerHint resolves the owning user of an already-expired token.
	OwnerHint(ctx context.Context, token string) (int64, error)
	// RemoveSession removes a token from a user's session index.
	RemoveSession(ctx context.Context, userID int64, token string) error
	// DropOwnerHint discards a token's owner hint after reconciliation.
	DropOwnerHint(ctx context.Context, token string) error
}

// ExpiryReconciler listens for native TTL expirations of token records
// and removes the index entries they orphan. Without it, records that
// expire between idle sweeps would leave dangling index entries until
// the owning user happens to be swept.
type ExpiryReconciler struct {
	store       ReconcileStore
	pollTimeout time.Duration
}

// NewExpiryReconciler creates a new ExpiryReconciler instance.
// If pollTimeout is not positive it defaults to one second.
func NewExpiryReconciler(store ReconcileStore, pollTimeout time.Duration) *ExpiryReconciler {
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &ExpiryReconciler{
		store:       store,
		pollTimeout: pollTimeout,
	}
}

// Run receives expiry notifications until ctx is cancelled. Each receive
// blocks for at most the poll timeout so the stop signal is observed
// within one poll interval.
func (w *ExpiryReconciler) Run(ctx context.Context) {
	sub := w.store.SubscribeExpiry(ctx)
	defer func() {
		if err := sub.Close(); err != nil {
			slog.Warn("failed to close expiry subscription", "error", err)
		}
	}()

	slog.Info("expiry reconciler started", "poll_timeout", w.pollTimeout)
	for {
		if ctx.Err() != nil {
			slog.Info("expiry reconciler stopped")
			return
		}

		msg, err := sub.ReceiveTimeout(ctx, w.pollTimeout)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue // idle poll, check the stop signal and go again
			}
			if ctx.Err() != nil {
				slog.Info("expiry reconciler stopped")
				return
			}
			slog.Warn("expiry reconciler receive failed", "error", err)
			continue
		}

		// Subscription confirmations and other control replies carry no
		// expired key.
		m, ok := msg.(*redis.Message)
		if !ok {
			continue
		}
		w.reconcile(context.Background(), m.Payload)
	}
}

// reconcile removes the index entry orphaned by one expired record key.
// Events for keys outside the record namespace are ignored; events whose
// owner hint is already gone are dropped, since nothing is left to
// reconcile.
func (w *ExpiryReconciler) reconcile(ctx context.Context, expiredKey string) {
	token, ok := w.store.TokenFromRecordKey(expiredKey)
	if !ok {
		return
	}

	userID, err := w.store.OwnerHint(ctx, token)
	if err != nil {
		if !errors.Is(err, usecase.ErrTokenNotFound) {
			slog.Warn("expiry reconciler could not resolve owner", "error", err)
		}
		return
	}

	if err := w.store.RemoveSession(ctx, userID, token); err != nil {
		slog.Warn("expiry reconciler failed to drop index entry", "user_id", userID, "error", err)
		return
	}
	if err := w.store.DropOwnerHint(ctx, token); err != nil {
		slog.Warn("expiry reconciler failed to drop owner hint", "user_id", userID, "error", err)
	}
	slog.Info("removed orphaned session entry", "user_id", userID)
}
