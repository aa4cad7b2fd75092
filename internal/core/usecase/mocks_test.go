package usecase

import (
	"context"
	"listing-site/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockPropertiesAPI struct{ mock.Mock }

func (m *MockPropertiesAPI) Login(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthTokens), args.Error(1)
}

func (m *MockPropertiesAPI) GetProperties(ctx context.Context, filters domain.FilterState, page, perPage int) (*domain.PropertiesPage, error) {
	args := m.Called(ctx, filters, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertiesPage), args.Error(1)
}

func (m *MockPropertiesAPI) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

type MockActivityPublisher struct{ mock.Mock }

func (m *MockActivityPublisher) PublishSearchPerformed(ctx context.Context, event domain.SearchPerformedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockActivityPublisher) PublishPropertyViewed(ctx context.Context, event domain.PropertyViewedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func makeProperties(prefix string, n int) []domain.Property {
	props := make([]domain.Property, 0, n)
	for i := 0; i < n; i++ {
		props = append(props, domain.Property{ID: prefix + string(rune('a'+i)), City: "Marbella"})
	}
	return props
}
