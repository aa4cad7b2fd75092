package usecases_port

import (
	"context"
	"listing-site/internal/core/domain"

	"github.com/google/uuid"
)

type FilterStateUseCase interface {
	UpdateFilters(ctx context.Context, sessionID uuid.UUID, filters domain.FilterState) (domain.FilterState, error)
	InitializeFromURL(ctx context.Context, sessionID uuid.UUID, rawQuery string) (domain.FilterState, error)
	CurrentFilters(ctx context.Context, sessionID uuid.UUID) domain.FilterState
}
