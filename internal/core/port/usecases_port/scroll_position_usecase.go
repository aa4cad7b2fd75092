package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type ScrollPositionUseCase interface {
	Save(ctx context.Context, sessionID uuid.UUID, offset int) error
	Restore(ctx context.Context, sessionID uuid.UUID) (int, bool, error)
}
