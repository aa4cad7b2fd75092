package postgres_adapter

import (
	"context"
	"os"
	"testing"

	"listing-site/pkg/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Интеграционный тест: нужен живой Postgres в TEST_DATABASE_URL
func TestPostgresClientStorage(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	ctx := context.Background()

	pool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	storage, err := NewPostgresClientStorage(pool)
	require.NoError(t, err)
	require.NoError(t, storage.EnsureSchema(ctx))

	sid := uuid.New()
	t.Cleanup(func() { _ = storage.Delete(ctx, sid, "propertyFilters", "auth_token") })

	require.NoError(t, storage.Set(ctx, sid, "propertyFilters", `{"city":"Marbella"}`))
	require.NoError(t, storage.Set(ctx, sid, "propertyFilters", `{"city":"Estepona"}`))

	value, ok, err := storage.Get(ctx, sid, "propertyFilters")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"city":"Estepona"}`, value)

	require.NoError(t, storage.Delete(ctx, sid, "propertyFilters"))
	_, ok, err = storage.Get(ctx, sid, "propertyFilters")
	require.NoError(t, err)
	assert.False(t, ok)
}
