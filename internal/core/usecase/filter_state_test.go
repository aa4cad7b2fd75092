package usecase

import (
	"context"
	"listing-site/internal/adapters/storage/memory"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterState_UpdatePersistsAndSurvivesReload(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewClientStorage(0)
	sid := uuid.New()

	uc := NewFilterStateUseCase(NewSessionRegistry(storage), storage)
	filters := domain.FilterState{
		domain.FilterCity:      domain.StringValue("Marbella"),
		domain.FilterBedrooms:  domain.IntValue(3),
		domain.FilterPool:      domain.BoolValue(true),
		domain.FilterAmenities: domain.ListValue("gym"),
	}

	_, err := uc.UpdateFilters(ctx, sid, filters)
	require.NoError(t, err)

	raw, ok, err := storage.Get(ctx, sid, port.StorageKeyPropertyFilters)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"city":"Marbella","bedrooms":3,"pool":true,"amenities":["gym"]}`, raw)

	// новый процесс: реестр пустой, состояние поднимается из хранилища
	reloaded := NewFilterStateUseCase(NewSessionRegistry(storage), storage)
	assert.True(t, filters.Equal(reloaded.CurrentFilters(ctx, sid)))
}

func TestFilterState_InitializeFromURL(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewClientStorage(0)
	sid := uuid.New()
	uc := NewFilterStateUseCase(NewSessionRegistry(storage), storage)

	_, err := uc.UpdateFilters(ctx, sid, domain.FilterState{domain.FilterCity: domain.StringValue("Estepona")})
	require.NoError(t, err)

	t.Run("url wins over storage", func(t *testing.T) {
		got, err := uc.InitializeFromURL(ctx, sid, "?city=Marbella&price_min=abc&utm_source=mail")
		require.NoError(t, err)
		assert.Equal(t, "Marbella", got[domain.FilterCity].Text())
		assert.True(t, got[domain.FilterPriceMin].IsNaN())
		_, hasUTM := got["utm_source"]
		assert.False(t, hasUTM)
	})

	t.Run("empty url falls back to storage", func(t *testing.T) {
		got, err := uc.InitializeFromURL(ctx, sid, "")
		require.NoError(t, err)
		assert.Equal(t, "Estepona", got[domain.FilterCity].Text())
	})

	t.Run("nothing anywhere", func(t *testing.T) {
		got, err := uc.InitializeFromURL(ctx, uuid.New(), "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFilterState_MalformedPersistedValueIgnored(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewClientStorage(0)
	sid := uuid.New()
	require.NoError(t, storage.Set(ctx, sid, port.StorageKeyPropertyFilters, "{not json"))

	uc := NewFilterStateUseCase(NewSessionRegistry(storage), storage)
	got, err := uc.InitializeFromURL(ctx, sid, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
