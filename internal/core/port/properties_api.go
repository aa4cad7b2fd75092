package port

import (
	"context"
	"listing-site/internal/core/domain"
)

// PropertiesAPIPort - hosted backend: авторизация и выдача объектов
type PropertiesAPIPort interface {
	Login(ctx context.Context, email, password string) (*domain.AuthTokens, error)
	GetProperties(ctx context.Context, filters domain.FilterState, page, perPage int) (*domain.PropertiesPage, error)
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
}
