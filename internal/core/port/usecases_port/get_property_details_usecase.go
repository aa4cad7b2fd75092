package usecases_port

import (
	"context"
	"listing-site/internal/core/domain"

	"github.com/google/uuid"
)

type GetPropertyDetailsUseCase interface {
	Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (*domain.PropertyDetailsView, error)
}
