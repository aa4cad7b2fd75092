package usecase

import (
	"context"
	"encoding/json"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState - явное состояние одной браузерной сессии: авторизация, фильтры, выдача.
// Все поля меняются только под mu.
type SessionState struct {
	mu sync.Mutex

	authToken string
	user      *domain.User
	filters   domain.FilterState
	listing   listingState

	// generation растет с каждым запросом выдачи; применяется только ответ последнего
	generation     uint64
	cancelInFlight context.CancelFunc

	lastSeen time.Time
}

type listingState struct {
	status     domain.ListingStatus
	properties []domain.Property
	total      int
	page       int
	perPage    int
	hasMore    bool
	err        string
	filters    domain.FilterState

	// settled - статус и параметры последнего завершенного запроса, к ним откатывается брошенный запрос
	settled settledListing
}

type settledListing struct {
	status  domain.ListingStatus
	filters domain.FilterState
	perPage int
}

func (l *listingState) settle() {
	l.settled = settledListing{status: l.status, filters: l.filters.Clone(), perPage: l.perPage}
}

func (s *SessionState) AuthToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authToken
}

func (s *SessionState) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionState) SetAuth(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authToken = token
	s.user = user
}

func (s *SessionState) ClearAuth() {
	s.SetAuth("", nil)
}

func (s *SessionState) Filters() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

func (s *SessionState) SetFilters(filters domain.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters.Clone()
}

func (s *SessionState) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *SessionState) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionRegistry - контейнер состояния приложения, передается в use case'ы через конструкторы.
// При первом обращении к сессии состояние восстанавливается из долговременного хранилища.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*SessionState
	storage  port.ClientStoragePort
	now      func() time.Time
}

func NewSessionRegistry(storage port.ClientStoragePort) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*SessionState),
		storage:  storage,
		now:      time.Now,
	}
}

// Session возвращает состояние сессии, создавая и гидрируя его при необходимости
func (r *SessionRegistry) Session(ctx context.Context, sessionID uuid.UUID) *SessionState {
	r.mu.RLock()
	state, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		state.touch(r.now())
		return state
	}

	// Читаем хранилище без блокировки реестра; если сессию успели создать параллельно, берем ту
	hydrated := r.hydrate(ctx, sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[sessionID]; ok {
		existing.touch(r.now())
		return existing
	}
	r.sessions[sessionID] = hydrated
	return hydrated
}

// AuthContext возвращает контекст с bearer-токеном сессии для исходящих запросов к API
func (r *SessionRegistry) AuthContext(ctx context.Context, sessionID uuid.UUID) context.Context {
	if sessionID == uuid.Nil {
		return ctx
	}
	return contextkeys.ContextWithAuthToken(ctx, r.Session(ctx, sessionID).AuthToken())
}

// EvictIdle удаляет из памяти сессии, к которым не обращались дольше maxIdle.
// Долговременное хранилище не трогается: при следующем визите сессия гидрируется заново.
func (r *SessionRegistry) EvictIdle(maxIdle time.Duration) int {
	threshold := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, state := range r.sessions {
		if state.idleSince().Before(threshold) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) hydrate(ctx context.Context, sessionID uuid.UUID) *SessionState {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "SessionRegistry",
		"session_id": sessionID.String(),
	})

	state := &SessionState{
		filters: domain.FilterState{},
		listing: listingState{
			status:     domain.ListingIdle,
			properties: []domain.Property{},
			settled:    settledListing{status: domain.ListingIdle},
		},
		lastSeen: r.now(),
	}
	if r.storage == nil {
		return state
	}

	if token, ok, err := r.storage.Get(ctx, sessionID, port.StorageKeyAuthToken); err != nil {
		logger.Warn("Failed to restore auth token", port.Fields{"error": err.Error()})
	} else if ok {
		state.authToken = token
	}

	if raw, ok, err := r.storage.Get(ctx, sessionID, port.StorageKeyCurrentUser); err != nil {
		logger.Warn("Failed to restore current user", port.Fields{"error": err.Error()})
	} else if ok {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			logger.Warn("Stored current user is malformed, ignoring it", port.Fields{"error": err.Error()})
		} else {
			state.user = &user
		}
	}

	if filters, ok := loadPersistedFilters(ctx, r.storage, sessionID); ok {
		state.filters = filters
	}

	logger.Debug("Session hydrated", port.Fields{
		"authenticated": state.authToken != "",
		"filters_count": len(state.filters),
	})
	return state
}

// loadPersistedFilters читает propertyFilters; битое значение считается отсутствующим
func loadPersistedFilters(ctx context.Context, storage port.ClientStoragePort, sessionID uuid.UUID) (domain.FilterState, bool) {
	logger := contextkeys.LoggerFromContext(ctx)

	raw, ok, err := storage.Get(ctx, sessionID, port.StorageKeyPropertyFilters)
	if err != nil {
		logger.Warn("Failed to read persisted filters", port.Fields{"error": err.Error()})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var filters domain.FilterState
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		logger.Warn("Persisted filters are malformed, ignoring them", port.Fields{"error": err.Error()})
		return nil, false
	}
	return filters, true
}
