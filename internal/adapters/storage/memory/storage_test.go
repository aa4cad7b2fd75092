package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStorage_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewClientStorage(0)
	sid := uuid.New()

	_, ok, err := s.Get(ctx, sid, "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, sid, "auth_token", "abc"))
	require.NoError(t, s.Set(ctx, sid, "currentUser", `{"email":"a@b.c"}`))

	v, ok, err := s.Get(ctx, sid, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok, _ = s.Get(ctx, uuid.New(), "auth_token")
	assert.False(t, ok, "sessions must not see each other's keys")

	require.NoError(t, s.Delete(ctx, sid, "auth_token", "currentUser"))
	_, ok, _ = s.Get(ctx, sid, "currentUser")
	assert.False(t, ok)
}

func TestClientStorage_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewClientStorage(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	sid := uuid.New()

	require.NoError(t, s.Set(ctx, sid, "listingsScrollPosition", "640"))

	now = now.Add(30 * time.Second)
	_, ok, _ := s.Get(ctx, sid, "listingsScrollPosition")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = s.Get(ctx, sid, "listingsScrollPosition")
	assert.False(t, ok)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Sweep())
}
