package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores session entries in Redis, namespaced per profile so several
// local profiles can share one instance.
type RedisKV struct {
	client  *redis.Client
	profile string
}

// NewRedisKV wraps an existing Redis client.
func NewRedisKV(client *redis.Client, profile string) *RedisKV {
	if profile == "" {
		profile = "default"
	}
	return &RedisKV{client: client, profile: profile}
}

// Get returns the stored value or ErrKeyNotFound.
func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("session redis get: %w", err)
	}
	return value, nil
}

// Set stores the value under key with no expiry; the session lifecycle is
// driven by explicit logout, not TTL.
func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("session redis set: %w", err)
	}
	return nil
}

// Delete removes the entry. Deleting a missing key is not an error.
func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("session redis del: %w", err)
	}
	return nil
}

func (s *RedisKV) redisKey(key string) string {
	return fmt.Sprintf("learnflow:session:%s:%s", s.profile, key)
}
