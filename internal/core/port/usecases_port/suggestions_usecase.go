package usecases_port

import (
	"context"
	"listing-site/internal/core/domain"
)

type SuggestionsUseCase interface {
	Execute(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)
}
