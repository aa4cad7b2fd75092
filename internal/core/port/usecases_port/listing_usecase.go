package usecases_port

import (
	"context"
	"listing-site/internal/core/domain"

	"github.com/google/uuid"
)

type ListingUseCase interface {
	Search(ctx context.Context, sessionID uuid.UUID, filters domain.FilterState) domain.ListingSnapshot
	LoadMore(ctx context.Context, sessionID uuid.UUID) domain.ListingSnapshot
	Snapshot(ctx context.Context, sessionID uuid.UUID) domain.ListingSnapshot
	MapView(ctx context.Context, sessionID uuid.UUID, hoveredID string) domain.MapView
}
