package usecase

import (
	"context"
	"errors"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ListingUseCase - поток выдачи: idle -> loading -> (success | error).
// Каждый запрос получает номер поколения, применяется только ответ самого свежего.
type ListingUseCase struct {
	api       port.PropertiesAPIPort
	sessions  *SessionRegistry
	publisher port.ActivityPublisherPort
	perPage   int
}

func NewListingUseCase(api port.PropertiesAPIPort, sessions *SessionRegistry, publisher port.ActivityPublisherPort, perPage int) *ListingUseCase {
	if perPage <= 0 {
		perPage = domain.DefaultPerPage
	}
	return &ListingUseCase{
		api:       api,
		sessions:  sessions,
		publisher: publisher,
		perPage:   perPage,
	}
}

// fetchRequest - параметры одного запроса страницы, зафиксированные под локом сессии
type fetchRequest struct {
	generation uint64
	fresh      bool
	page       int
	perPage    int
	filters    domain.FilterState
}

// Search - новый поиск: курсор страниц сбрасывается, выдача заменяется
func (uc *ListingUseCase) Search(ctx context.Context, sessionID uuid.UUID, filters domain.FilterState) domain.ListingSnapshot {
	state := uc.sessions.Session(ctx, sessionID)
	req, reqCtx, cancel := state.beginFetch(ctx, filters, uc.perPage)
	defer cancel()

	return uc.fetch(reqCtx, sessionID, state, req)
}

// LoadMore догружает следующую страницу к текущей выдаче.
// Пока идет загрузка или больше нечего грузить, возвращает текущее состояние без запроса.
func (uc *ListingUseCase) LoadMore(ctx context.Context, sessionID uuid.UUID) domain.ListingSnapshot {
	state := uc.sessions.Session(ctx, sessionID)
	req, reqCtx, cancel, ok := state.beginLoadMore(ctx)
	if !ok {
		contextkeys.LoggerFromContext(ctx).Debug("Load more skipped", port.Fields{
			"use_case":   "Listing",
			"session_id": sessionID.String(),
		})
		return state.snapshot()
	}
	defer cancel()

	return uc.fetch(reqCtx, sessionID, state, req)
}

func (uc *ListingUseCase) Snapshot(ctx context.Context, sessionID uuid.UUID) domain.ListingSnapshot {
	return uc.sessions.Session(ctx, sessionID).snapshot()
}

// MapView пересчитывает маркеры по текущей выдаче сессии
func (uc *ListingUseCase) MapView(ctx context.Context, sessionID uuid.UUID, hoveredID string) domain.MapView {
	snapshot := uc.Snapshot(ctx, sessionID)
	return domain.BuildMapView(snapshot.Properties, hoveredID)
}

func (uc *ListingUseCase) fetch(ctx context.Context, sessionID uuid.UUID, state *SessionState, req fetchRequest) domain.ListingSnapshot {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "Listing",
		"session_id": sessionID.String(),
		"generation": req.generation,
		"page":       req.page,
		"fresh":      req.fresh,
	})
	ucLogger.Info("Use case started", port.Fields{"filters": domain.FiltersForEvent(req.filters)})

	authCtx := contextkeys.ContextWithAuthToken(ctx, state.AuthToken())
	result, err := uc.api.GetProperties(authCtx, req.filters, req.page, req.perPage)
	if err == nil && result == nil {
		result = &domain.PropertiesPage{}
	}

	if errors.Is(err, context.Canceled) {
		if state.abandonFetch(req) {
			ucLogger.Info("Listing request abandoned by client, previous results kept", nil)
		}
		return state.snapshot()
	}

	if !state.completeFetch(req, result, err) {
		ucLogger.Warn("Discarding stale listing response", nil)
		return state.snapshot()
	}

	if err != nil {
		ucLogger.Error("Properties API returned an error", err, nil)
		return state.snapshot()
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.Total,
		"items_on_page": len(result.Data),
	})

	if req.fresh && uc.publisher != nil {
		event := domain.SearchPerformedEvent{
			SessionID:  sessionID.String(),
			Filters:    domain.FiltersForEvent(req.filters),
			Total:      result.Total,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.publisher.PublishSearchPerformed(ctx, event); err != nil {
			ucLogger.Warn("Failed to publish search event", port.Fields{"error": err.Error()})
		}
	}

	return state.snapshot()
}

// beginFetch переводит сессию в loading для нового поиска и отменяет предыдущий запрос
func (s *SessionState) beginFetch(ctx context.Context, filters domain.FilterState, perPage int) (fetchRequest, context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelInFlight != nil {
		s.cancelInFlight()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancelInFlight = cancel
	s.generation++

	s.listing.status = domain.ListingLoading
	s.listing.filters = filters.Clone()
	s.listing.perPage = perPage

	return fetchRequest{
		generation: s.generation,
		fresh:      true,
		page:       1,
		perPage:    perPage,
		filters:    filters.Clone(),
	}, reqCtx, cancel
}

func (s *SessionState) beginLoadMore(ctx context.Context) (fetchRequest, context.Context, context.CancelFunc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listing.status == domain.ListingLoading || !s.listing.hasMore {
		return fetchRequest{}, nil, nil, false
	}

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancelInFlight = cancel
	s.generation++
	s.listing.status = domain.ListingLoading

	return fetchRequest{
		generation: s.generation,
		fresh:      false,
		page:       s.listing.page + 1,
		perPage:    s.listing.perPage,
		filters:    s.listing.filters.Clone(),
	}, reqCtx, cancel, true
}

// abandonFetch откатывает loading к последнему завершенному запросу, если отмененный запрос
// все еще последний. Список объектов во время loading не меняется, его трогать не нужно.
func (s *SessionState) abandonFetch(req fetchRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.generation != s.generation {
		return false
	}
	s.cancelInFlight = nil
	s.listing.status = s.listing.settled.status
	s.listing.filters = s.listing.settled.filters.Clone()
	s.listing.perPage = s.listing.settled.perPage
	return true
}

// completeFetch применяет результат, если запрос все еще последний. Возвращает false для устаревших.
func (s *SessionState) completeFetch(req fetchRequest, result *domain.PropertiesPage, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.generation != s.generation {
		return false
	}
	s.cancelInFlight = nil

	defer s.listing.settle()

	if err != nil {
		s.listing.status = domain.ListingError
		s.listing.properties = []domain.Property{}
		s.listing.total = 0
		s.listing.hasMore = false
		s.listing.err = err.Error()
		return true
	}

	if req.fresh {
		s.listing.properties = slices.Clone(result.Data)
	} else {
		s.listing.properties = append(slices.Clone(s.listing.properties), result.Data...)
	}
	if s.listing.properties == nil {
		s.listing.properties = []domain.Property{}
	}
	s.listing.total = result.Total
	s.listing.page = req.page
	s.listing.hasMore = domain.HasMorePages(result.ReceivedCount(), req.perPage)
	s.listing.status = domain.ListingSuccess
	s.listing.err = ""
	return true
}

func (s *SessionState) snapshot() domain.ListingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	properties := slices.Clone(s.listing.properties)
	if properties == nil {
		properties = []domain.Property{}
	}
	filters := s.listing.filters.Clone()

	return domain.ListingSnapshot{
		Status:     s.listing.status,
		Properties: properties,
		Total:      s.listing.total,
		Page:       s.listing.page,
		PerPage:    s.listing.perPage,
		HasMore:    s.listing.hasMore,
		Error:      s.listing.err,
		Filters:    filters,
	}
}
