package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"

	"github.com/google/uuid"
)

// FilterStateUseCase держит фильтры сессии и синхронизирует их с долговременным хранилищем
type FilterStateUseCase struct {
	sessions *SessionRegistry
	storage  port.ClientStoragePort
}

func NewFilterStateUseCase(sessions *SessionRegistry, storage port.ClientStoragePort) *FilterStateUseCase {
	return &FilterStateUseCase{sessions: sessions, storage: storage}
}

// UpdateFilters целиком заменяет набор фильтров и сохраняет его под propertyFilters
func (uc *FilterStateUseCase) UpdateFilters(ctx context.Context, sessionID uuid.UUID, filters domain.FilterState) (domain.FilterState, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "UpdateFilters",
		"session_id": sessionID.String(),
	})

	if filters == nil {
		filters = domain.FilterState{}
	}
	uc.sessions.Session(ctx, sessionID).SetFilters(filters)

	raw, err := json.Marshal(filters)
	if err != nil {
		logger.Error("Failed to marshal filters", err, nil)
		return filters.Clone(), fmt.Errorf("failed to marshal filters: %w", err)
	}
	if err := uc.storage.Set(ctx, sessionID, port.StorageKeyPropertyFilters, string(raw)); err != nil {
		logger.Error("Failed to persist filters", err, nil)
		return filters.Clone(), fmt.Errorf("failed to persist filters: %w", err)
	}

	logger.Debug("Filters updated", port.Fields{"filters_count": len(filters)})
	return filters.Clone(), nil
}

// InitializeFromURL разбирает query string страницы.
// Если в URL нет фильтров, берется ранее сохраненный набор.
func (uc *FilterStateUseCase) InitializeFromURL(ctx context.Context, sessionID uuid.UUID, rawQuery string) (domain.FilterState, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "InitializeFiltersFromURL",
		"session_id": sessionID.String(),
	})

	filters := domain.ParseFilterQuery(rawQuery)
	source := "url"
	if len(filters) == 0 {
		source = "none"
		if persisted, ok := loadPersistedFilters(ctx, uc.storage, sessionID); ok {
			filters = persisted
			source = "storage"
		}
	}

	uc.sessions.Session(ctx, sessionID).SetFilters(filters)
	logger.Debug("Filters initialized", port.Fields{"source": source, "filters_count": len(filters)})
	return filters.Clone(), nil
}

func (uc *FilterStateUseCase) CurrentFilters(ctx context.Context, sessionID uuid.UUID) domain.FilterState {
	return uc.sessions.Session(ctx, sessionID).Filters()
}
