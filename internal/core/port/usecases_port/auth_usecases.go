package usecases_port

import (
	"context"
	"listing-site/internal/core/domain"

	"github.com/google/uuid"
)

type LoginUseCase interface {
	Execute(ctx context.Context, sessionID uuid.UUID, email, password string) domain.LoginResult
}

type LogoutUseCase interface {
	Execute(ctx context.Context, sessionID uuid.UUID) error
}

type CurrentUserUseCase interface {
	Execute(ctx context.Context, sessionID uuid.UUID) (*domain.User, error)
}
