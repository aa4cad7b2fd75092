package rabbitmq

import (
	"context"
	"errors"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJSONPublisher struct{ mock.Mock }

func (m *MockJSONPublisher) PublishJSON(ctx context.Context, routingKey, messageType string, headers amqp.Table, payload any) error {
	args := m.Called(ctx, routingKey, messageType, headers, payload)
	return args.Error(0)
}

func TestActivityPublisher_SearchPerformed(t *testing.T) {
	producer := new(MockJSONPublisher)
	adapter, err := NewActivityPublisherAdapter(producer)
	require.NoError(t, err)

	event := domain.SearchPerformedEvent{SessionID: "s-1", Total: 4, Filters: map[string]string{"city": "Marbella"}}
	producer.On("PublishJSON", mock.Anything, RoutingKeySearchPerformed, "SearchPerformedEvent",
		amqp.Table{"x-trace-id": "trace-9"}, event).Return(nil).Once()

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-9")
	require.NoError(t, adapter.PublishSearchPerformed(ctx, event))
	producer.AssertExpectations(t)
}

func TestActivityPublisher_WrapsErrors(t *testing.T) {
	producer := new(MockJSONPublisher)
	adapter, err := NewActivityPublisherAdapter(producer)
	require.NoError(t, err)

	brokerErr := errors.New("channel closed")
	producer.On("PublishJSON", mock.Anything, RoutingKeyPropertyViewed, "PropertyViewedEvent", mock.Anything, mock.Anything).
		Return(brokerErr).Once()

	err = adapter.PublishPropertyViewed(context.Background(), domain.PropertyViewedEvent{PropertyID: "42"})
	assert.ErrorIs(t, err, brokerErr)
}
