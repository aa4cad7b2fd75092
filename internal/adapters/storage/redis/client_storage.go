package redis_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-site/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "listing-site:session:"

// RedisClientStorage - сессионное хранилище с TTL (аналог sessionStorage браузера)
type RedisClientStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClientStorage(client *redis.Client, ttl time.Duration) *RedisClientStorage {
	return &RedisClientStorage{client: client, ttl: ttl}
}

func storageKey(sessionID uuid.UUID, key string) string {
	return keyPrefix + sessionID.String() + ":" + key
}

func (s *RedisClientStorage) Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, storageKey(sessionID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q from redis: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisClientStorage) Set(ctx context.Context, sessionID uuid.UUID, key, value string) error {
	if err := s.client.Set(ctx, storageKey(sessionID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %q in redis: %w", key, err)
	}
	return nil
}

func (s *RedisClientStorage) Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		redisKeys = append(redisKeys, storageKey(sessionID, key))
	}
	if err := s.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys from redis: %w", err)
	}
	return nil
}

var _ port.ClientStoragePort = (*RedisClientStorage)(nil)
