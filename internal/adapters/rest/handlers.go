package rest

import (
	"errors"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"listing-site/internal/core/port/usecases_port"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListingsPagePath - путь страницы выдачи в браузере, к нему строится канонический URL
const ListingsPagePath = "/listings"

const maxSuggestionsLimit = 20

// UseCases - все входящие порты, которыми пользуются обработчики
type UseCases struct {
	Login           usecases_port.LoginUseCase
	Logout          usecases_port.LogoutUseCase
	CurrentUser     usecases_port.CurrentUserUseCase
	Filters         usecases_port.FilterStateUseCase
	Listing         usecases_port.ListingUseCase
	PropertyDetails usecases_port.GetPropertyDetailsUseCase
	ScrollPosition  usecases_port.ScrollPositionUseCase
	Suggestions     usecases_port.SuggestionsUseCase
}

type ListingSiteHandler struct {
	uc UseCases
}

func NewListingSiteHandler(uc UseCases) *ListingSiteHandler {
	return &ListingSiteHandler{uc: uc}
}

// sessionFromRequest достает sid, положенный SessionManager.Middleware
func sessionFromRequest(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (uuid.UUID, bool) {
	sessionID := contextkeys.SessionIDFromContext(r.Context())
	if sessionID == uuid.Nil {
		logger.Error("Session is missing in request context", domain.ErrSessionNotFound, nil)
		WriteJSONError(w, http.StatusInternalServerError, domain.ErrSessionNotFound.Error())
		return uuid.Nil, false
	}
	return sessionID, true
}

func listingResponse(snapshot domain.ListingSnapshot) ListingResponse {
	return ListingResponse{
		ListingSnapshot: snapshot,
		URL:             domain.SyncURL(ListingsPagePath, snapshot.Filters),
	}
}

// Health обрабатывает GET /healthz
func (h *ListingSiteHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Login обрабатывает POST /api/auth/login
func (h *ListingSiteHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	var req LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode login request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "required"
	}
	if req.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		WriteValidationError(w, fields)
		return
	}

	result := h.uc.Login.Execute(r.Context(), sessionID, req.Email, req.Password)
	if !result.Success {
		RespondWithJSON(w, http.StatusUnauthorized, result)
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

// Logout обрабатывает POST /api/auth/logout
func (h *ListingSiteHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Logout"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	if err := h.uc.Logout.Execute(r.Context(), sessionID); err != nil {
		logger.Error("Logout use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser обрабатывает GET /api/auth/me
func (h *ListingSiteHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CurrentUser"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	user, err := h.uc.CurrentUser.Execute(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			WriteJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Error("Current user use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load current user")
		return
	}
	RespondWithJSON(w, http.StatusOK, user)
}

// InitializeListing обрабатывает GET /api/listings?<filters>: первый заход на страницу выдачи
func (h *ListingSiteHandler) InitializeListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "InitializeListing"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	filters, err := h.uc.Filters.InitializeFromURL(r.Context(), sessionID, r.URL.RawQuery)
	if err != nil {
		logger.Error("Failed to initialize filters", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to initialize filters")
		return
	}

	snapshot := h.uc.Listing.Search(r.Context(), sessionID, filters)
	RespondWithJSON(w, http.StatusOK, listingResponse(snapshot))
}

// Search обрабатывает POST /api/listings/search: новые фильтры, выдача с первой страницы
func (h *ListingSiteHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Search"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	var req SearchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode search request", port.Fields{"error": err.Error()})
		WriteValidationError(w, map[string]string{"filters": err.Error()})
		return
	}

	filters, err := h.uc.Filters.UpdateFilters(r.Context(), sessionID, req.Filters.Normalize())
	if err != nil {
		// Фильтры в памяти сессии уже обновлены; не смогли только сохранить
		logger.Warn("Filters were not persisted", port.Fields{"error": err.Error()})
	}

	snapshot := h.uc.Listing.Search(r.Context(), sessionID, filters)
	RespondWithJSON(w, http.StatusOK, listingResponse(snapshot))
}

// LoadMore обрабатывает POST /api/listings/more
func (h *ListingSiteHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "LoadMore"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, listingResponse(h.uc.Listing.LoadMore(r.Context(), sessionID)))
}

// ListingState обрабатывает GET /api/listings/state
func (h *ListingSiteHandler) ListingState(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListingState"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, listingResponse(h.uc.Listing.Snapshot(r.Context(), sessionID)))
}

// MapView обрабатывает GET /api/listings/map?hovered=<id>
func (h *ListingSiteHandler) MapView(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MapView"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, h.uc.Listing.MapView(r.Context(), sessionID, r.URL.Query().Get("hovered")))
}

// SaveScroll обрабатывает PUT /api/listings/scroll
func (h *ListingSiteHandler) SaveScroll(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SaveScroll"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	var req ScrollRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteValidationError(w, map[string]string{"offset": "must be an integer"})
		return
	}
	if req.Offset == nil {
		WriteValidationError(w, map[string]string{"offset": "required"})
		return
	}

	if err := h.uc.ScrollPosition.Save(r.Context(), sessionID, *req.Offset); err != nil {
		logger.Error("Failed to save scroll position", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to save scroll position")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreScroll обрабатывает GET /api/listings/scroll. Позиция выдается один раз.
func (h *ListingSiteHandler) RestoreScroll(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RestoreScroll"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	offset, found, err := h.uc.ScrollPosition.Restore(r.Context(), sessionID)
	if err != nil {
		logger.Error("Failed to restore scroll position", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to restore scroll position")
		return
	}
	RespondWithJSON(w, http.StatusOK, ScrollResponse{Offset: offset, Found: found})
}

// GetFilters обрабатывает GET /api/filters
func (h *ListingSiteHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFilters"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	filters := h.uc.Filters.CurrentFilters(r.Context(), sessionID)
	RespondWithJSON(w, http.StatusOK, FiltersResponse{Filters: filters, URL: domain.SyncURL(ListingsPagePath, filters)})
}

// PutFilters обрабатывает PUT /api/filters: обновляет фильтры без запуска поиска
func (h *ListingSiteHandler) PutFilters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PutFilters"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	var req SearchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteValidationError(w, map[string]string{"filters": err.Error()})
		return
	}

	filters, err := h.uc.Filters.UpdateFilters(r.Context(), sessionID, req.Filters.Normalize())
	if err != nil {
		logger.Error("Failed to update filters", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to save filters")
		return
	}
	RespondWithJSON(w, http.StatusOK, FiltersResponse{Filters: filters, URL: domain.SyncURL(ListingsPagePath, filters)})
}

// GetProperty обрабатывает GET /api/properties/{propertyID}
func (h *ListingSiteHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProperty"})
	sessionID, ok := sessionFromRequest(w, r, logger)
	if !ok {
		return
	}

	propertyID := strings.TrimSpace(chi.URLParam(r, "propertyID"))
	if propertyID == "" {
		WriteValidationError(w, map[string]string{"propertyID": "required"})
		return
	}

	view, err := h.uc.PropertyDetails.Execute(r.Context(), sessionID, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, view)
}

// Suggestions обрабатывает GET /api/search/suggestions?q=&limit=
func (h *ListingSiteHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Suggestions"})

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > maxSuggestionsLimit {
		limit = maxSuggestionsLimit
	}

	suggestions, err := h.uc.Suggestions.Execute(r.Context(), query, limit)
	if err != nil {
		logger.Error("Suggestions use case failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, SuggestionsResponse{Query: query, Suggestions: suggestions})
}
