package port

import (
	"context"
	"listing-site/internal/core/domain"
)

// ActivityPublisherPort публикует события активности посетителей (для аналитики и CRM)
type ActivityPublisherPort interface {
	PublishSearchPerformed(ctx context.Context, event domain.SearchPerformedEvent) error
	PublishPropertyViewed(ctx context.Context, event domain.PropertyViewedEvent) error
}
