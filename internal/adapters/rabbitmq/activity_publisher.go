package rabbitmq

import (
	"context"
	"fmt"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingKeySearchPerformed = "listing.search_performed"
	RoutingKeyPropertyViewed  = "property.viewed"

	publishTimeout = 5 * time.Second
)

// jsonPublisher - часть rabbitmq_producer.Publisher, которой пользуется адаптер
type jsonPublisher interface {
	PublishJSON(ctx context.Context, routingKey, messageType string, headers amqp.Table, payload any) error
}

// ActivityPublisherAdapter отправляет события активности посетителей в topic-обменник
type ActivityPublisherAdapter struct {
	producer jsonPublisher
}

func NewActivityPublisherAdapter(producer jsonPublisher) (*ActivityPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &ActivityPublisherAdapter{producer: producer}, nil
}

func (a *ActivityPublisherAdapter) PublishSearchPerformed(ctx context.Context, event domain.SearchPerformedEvent) error {
	return a.publish(ctx, RoutingKeySearchPerformed, "SearchPerformedEvent", event)
}

func (a *ActivityPublisherAdapter) PublishPropertyViewed(ctx context.Context, event domain.PropertyViewedEvent) error {
	return a.publish(ctx, RoutingKeyPropertyViewed, "PropertyViewedEvent", event)
}

func (a *ActivityPublisherAdapter) publish(ctx context.Context, routingKey, messageType string, payload any) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ActivityPublisherAdapter",
		"routing_key": routingKey,
	})

	headers := amqp.Table{}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		headers["x-trace-id"] = traceID
	}

	// Событие не должно держать HTTP-ответ дольше таймаута, даже если у запроса его нет
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := a.producer.PublishJSON(publishCtx, routingKey, messageType, headers, payload); err != nil {
		adapterLogger.Error("Failed to publish activity event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s: %w", messageType, err)
	}

	adapterLogger.Debug("Activity event published", nil)
	return nil
}

var _ port.ActivityPublisherPort = (*ActivityPublisherAdapter)(nil)
