// Package session provides the Redis-backed store for session token
// records and the per-user session index.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"instructor_backend/internal/feature/session/domain/entity"
	"instructor_backend/internal/feature/session/usecase"
)

// ownerHintGrace is how long the owner hint key outlives the token
// record. The hint exists solely so the expiry reconciler can still
// resolve the owning user after the record has already auto-expired;
// verification never reads it.
const ownerHintGrace = 2 * time.Minute

// TokenRedis implements usecase.TokenStore using Redis.
//
// Key layout, under a configurable prefix (default "session"):
//
//	<prefix>:token:<uuid>  JSON-encoded TokenRecord, TTL = session TTL
//	<prefix>:owner:<uuid>  owning user id, TTL = session TTL + grace
//	<prefix>:user:<id>     sorted set: member = token, score = last-active unix time
type TokenRedis struct {
	client *redis.Client
	prefix string
}

// NewTokenRedis creates a new TokenRedis instance.
// If prefix is empty it defaults to "session".
func NewTokenRedis(client *redis.Client, prefix string) *TokenRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &TokenRedis{
		client: client,
		prefix: prefix,
	}
}

// recordKey returns the Redis key for a token record.
func (s *TokenRedis) recordKey(token string) string {
	return fmt.Sprintf("%s:token:%s", s.prefix, token)
}

// ownerKey returns the Redis key for a token's owner hint.
func (s *TokenRedis) ownerKey(token string) string {
	return fmt.Sprintf("%s:owner:%s", s.prefix, token)
}

// userKey returns the Redis key for a user's session index.
func (s *TokenRedis) userKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d", s.prefix, userID)
}

// unixScore converts a timestamp to the float score used by the index.
func unixScore(at time.Time) float64 {
	return float64(at.UnixMicro()) / 1e6
}

// PutRecord persists a token record with the given TTL, plus the owner
// hint with a grace-extended TTL.
func (s *TokenRedis) PutRecord(ctx context.Context, record *entity.TokenRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return usecase.ErrInvalidTTL
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	if err := s.client.Set(ctx, s.recordKey(record.Token), data, ttl).Err(); err != nil {
		return err
	}
	return s.client.Set(ctx, s.ownerKey(record.Token), record.UserID, ttl+ownerHintGrace).Err()
}

// GetRecord retrieves the record for a token value.
func (s *TokenRedis) GetRecord(ctx context.Context, token string) (*entity.TokenRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, usecase.ErrTokenNotFound
		}
		return nil, err
	}

	var record entity.TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token record: %w", err)
	}
	return &record, nil
}

// DeleteRecord removes the record and owner hint for a token value.
func (s *TokenRedis) DeleteRecord(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.recordKey(token), s.ownerKey(token)).Err()
}

// RecordTTL reports the remaining TTL of a token record. Redis sentinels
// pass through: a negative duration means missing key or no expiry.
func (s *TokenRedis) RecordTTL(ctx context.Context, token string) (time.Duration, error) {
	return s.client.TTL(ctx, s.recordKey(token)).Result()
}

// SetRecordTTL replaces the remaining TTL of a token record and keeps the
// owner hint alive past the new horizon.
func (s *TokenRedis) SetRecordTTL(ctx context.Context, token string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, s.recordKey(token), ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return usecase.ErrTokenNotFound
	}
	return s.client.Expire(ctx, s.ownerKey(token), ttl+ownerHintGrace).Err()
}

// TouchSession upserts the token into the user's session index with the
// given last-active time. Re-adding an existing member only updates its
// score, so duplicates cannot accumulate.
func (s *TokenRedis) TouchSession(ctx context.Context, userID int64, token string, at time.Time) error {
	return s.client.ZAdd(ctx, s.userKey(userID), redis.Z{
		Score:  unixScore(at),
		Member: token,
	}).Err()
}

// RemoveSession removes the token from the user's session index. Redis
// drops a sorted-set key natively once its last member is removed, so an
// emptied index never lingers in the scan namespace. No further cleanup
// happens here; an explicit delete after the removal could race a
// concurrent TouchSession and erase a freshly added entry.
func (s *TokenRedis) RemoveSession(ctx context.Context, userID int64, token string) error {
	return s.client.ZRem(ctx, s.userKey(userID), token).Err()
}

// SessionTokens lists all tokens in the user's session index.
func (s *TokenRedis) SessionTokens(ctx context.Context, userID int64) ([]string, error) {
	return s.client.ZRange(ctx, s.userKey(userID), 0, -1).Result()
}

// IndexedUsers lists the user ids that currently have a session index,
// by scanning the index namespace incrementally.
func (s *TokenRedis) IndexedUsers(ctx context.Context) ([]int64, error) {
	keyPrefix := s.prefix + ":user:"
	var ids []int64

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw := strings.TrimPrefix(iter.Val(), keyPrefix)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, iter.Err()
}

// IdleTokens lists the user's tokens whose last-active time is at or
// before the cutoff.
func (s *TokenRedis) IdleTokens(ctx context.Context, userID int64, cutoff time.Time) ([]string, error) {
	return s.client.ZRangeByScore(ctx, s.userKey(userID), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatFloat(unixScore(cutoff), 'f', -1, 64),
	}).Result()
}

// OwnerHint resolves the owning user of a token from the owner hint key.
// Returns usecase.ErrTokenNotFound when the hint has expired too.
func (s *TokenRedis) OwnerHint(ctx context.Context, token string) (int64, error) {
	id, err := s.client.Get(ctx, s.ownerKey(token)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, usecase.ErrTokenNotFound
		}
		return 0, err
	}
	return id, nil
}

// DropOwnerHint removes a token's owner hint after reconciliation.
func (s *TokenRedis) DropOwnerHint(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.ownerKey(token)).Err()
}

// SubscribeExpiry subscribes to the server's key-expiration notifications
// for the database this client is connected to. The caller owns the
// returned subscription and must close it.
func (s *TokenRedis) SubscribeExpiry(ctx context.Context) *redis.PubSub {
	channel := fmt.Sprintf("__keyevent@%d__:expired", s.client.Options().DB)
	return s.client.PSubscribe(ctx, channel)
}

// TokenFromRecordKey extracts the token value from an expired-key
// notification payload, reporting false for keys outside the token
// record namespace (owner hints included).
func (s *TokenRedis) TokenFromRecordKey(key string) (string, bool) {
	return strings.CutPrefix(key, s.prefix+":token:")
}

// EnableExpiryNotifications turns on keyspace expiry events on the
// server. Managed deployments often deny CONFIG; callers should treat a
// failure as a warning and rely on the server being configured with
// notify-keyspace-events including "Ex".
func (s *TokenRedis) EnableExpiryNotifications(ctx context.Context) error {
	return s.client.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err()
}
