package redis_adapter

import (
	"context"
	"os"
	"testing"
	"time"

	redisclient "listing-site/pkg/redis"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageKey(t *testing.T) {
	sid := uuid.MustParse("7b0d4c43-1d5f-4e8e-9a55-6f0b1b8a7c11")
	assert.Equal(t, "listing-site:session:7b0d4c43-1d5f-4e8e-9a55-6f0b1b8a7c11:listingsScrollPosition",
		storageKey(sid, "listingsScrollPosition"))
}

// Интеграционный тест: нужен живой Redis в TEST_REDIS_ADDR
func TestRedisClientStorage(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	ctx := context.Background()

	client, err := redisclient.NewClient(ctx, redisclient.Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	storage := NewRedisClientStorage(client, time.Minute)
	sid := uuid.New()

	require.NoError(t, storage.Set(ctx, sid, "listingsScrollPosition", "900"))

	ttl, err := client.TTL(ctx, storageKey(sid, "listingsScrollPosition")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	value, ok, err := storage.Get(ctx, sid, "listingsScrollPosition")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "900", value)

	require.NoError(t, storage.Delete(ctx, sid, "listingsScrollPosition"))
	_, ok, err = storage.Get(ctx, sid, "listingsScrollPosition")
	require.NoError(t, err)
	assert.False(t, ok)
}
