package referral

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "referral:"

// RedisStore keeps the referral map in Redis so several restarts (or a
// redeploy) never lose pending referrals. Entries have no TTL: a referral
// lives until the visitor verifies.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed referral store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Set records who referred the visitor, overwriting any previous entry.
func (s *RedisStore) Set(ctx context.Context, visitorID int64, referrerID string) error {
	if err := s.client.Set(ctx, redisKey(visitorID), referrerID, 0).Err(); err != nil {
		return fmt.Errorf("set referral: %w", err)
	}
	return nil
}

// Get returns the referrer for the visitor, or empty when none is recorded.
func (s *RedisStore) Get(ctx context.Context, visitorID int64) (string, error) {
	val, err := s.client.Get(ctx, redisKey(visitorID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get referral: %w", err)
	}
	return val, nil
}

// Delete removes the entry for the visitor.
func (s *RedisStore) Delete(ctx context.Context, visitorID int64) error {
	if err := s.client.Del(ctx, redisKey(visitorID)).Err(); err != nil {
		return fmt.Errorf("delete referral: %w", err)
	}
	return nil
}

func redisKey(visitorID int64) string {
	return redisKeyPrefix + strconv.FormatInt(visitorID, 10)
}
