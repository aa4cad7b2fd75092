package usecase

import (
	"context"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type GetPropertyDetailsUseCase struct {
	api             port.PropertiesAPIPort
	sessions        *SessionRegistry
	publisher       port.ActivityPublisherPort
	fallbackEnabled bool
}

func NewGetPropertyDetailsUseCase(api port.PropertiesAPIPort, sessions *SessionRegistry, publisher port.ActivityPublisherPort, fallbackEnabled bool) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{
		api:             api,
		sessions:        sessions,
		publisher:       publisher,
		fallbackEnabled: fallbackEnabled,
	}
}

// Execute загружает объект и строит модель страницы.
// При ошибке и включенном fallback отдается демонстрационный объект с IsFallback=true и текстом ошибки.
func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, sessionID uuid.UUID, propertyID string) (*domain.PropertyDetailsView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	property, err := uc.api.GetProperty(uc.sessions.AuthContext(ctx, sessionID), propertyID)
	if err != nil {
		if !uc.fallbackEnabled {
			ucLogger.Error("Properties API returned an error", err, nil)
			return nil, err
		}
		ucLogger.Warn("Properties API failed, serving fallback property", port.Fields{"error": err.Error()})
		view := domain.FallbackPropertyDetails(propertyID, err)
		uc.publishViewed(ctx, sessionID, propertyID, true)
		return &view, nil
	}

	view := domain.NewPropertyDetailsView(*property)
	uc.publishViewed(ctx, sessionID, propertyID, false)

	ucLogger.Info("Use case finished successfully", nil)
	return &view, nil
}

func (uc *GetPropertyDetailsUseCase) publishViewed(ctx context.Context, sessionID uuid.UUID, propertyID string, fallback bool) {
	if uc.publisher == nil {
		return
	}
	event := domain.PropertyViewedEvent{
		SessionID:  sessionID.String(),
		PropertyID: propertyID,
		IsFallback: fallback,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.publisher.PublishPropertyViewed(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to publish property viewed event", port.Fields{"error": err.Error()})
	}
}
