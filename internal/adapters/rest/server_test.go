package rest

import (
	"context"
	"encoding/json"
	"io"
	"listing-site/internal/adapters/storage/memory"
	"listing-site/internal/adapters/xano_client"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/usecase"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream - hosted API в миниатюре: логин, выдача, карточка
type fakeUpstream struct {
	mu          sync.Mutex
	properties  []map[string]any
	lastQuery   map[string]string
	lastAuth    string
	failDetails bool
}

func (f *fakeUpstream) setProperties(items ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties = items
}

func (f *fakeUpstream) setFailDetails(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDetails = fail
}

func (f *fakeUpstream) seen() (map[string]string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery, f.lastAuth
}

func (f *fakeUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid credentials"))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"authToken": "upstream-token", "user": map[string]any{"id": 1, "email": req["email"]}})
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			f.lastQuery[k] = v[0]
		}
		f.lastAuth = r.Header.Get("Authorization")
		items := f.properties
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"properties": items, "total": len(items)})
	})
	mux.HandleFunc("/properties/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail := f.failDetails
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("database is down"))
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/properties/")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "development_name": "Casa " + id, "city": "marbella"})
	})
	return mux
}

type testEnv struct {
	upstream *fakeUpstream
	server   *httptest.Server
	client   *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	upstream := &fakeUpstream{properties: []map[string]any{}}
	upstreamSrv := httptest.NewServer(upstream.handler())
	t.Cleanup(upstreamSrv.Close)

	api := xano_client.NewXanoAPIClient(upstreamSrv.URL, "", upstreamSrv.Client())
	persisted := memory.NewClientStorage(0)
	sessionScoped := memory.NewClientStorage(time.Minute)
	registry := usecase.NewSessionRegistry(persisted)

	handler := NewListingSiteHandler(UseCases{
		Login:           usecase.NewLoginUseCase(api, registry, persisted),
		Logout:          usecase.NewLogoutUseCase(registry, persisted),
		CurrentUser:     usecase.NewCurrentUserUseCase(registry),
		Filters:         usecase.NewFilterStateUseCase(registry, persisted),
		Listing:         usecase.NewListingUseCase(api, registry, nil, 12),
		PropertyDetails: usecase.NewGetPropertyDetailsUseCase(api, registry, nil, true),
		ScrollPosition:  usecase.NewScrollPositionUseCase(sessionScoped),
		Suggestions:     usecase.NewSuggestionsUseCase(api),
	})

	sessions, err := NewSessionManager("test-secret", time.Hour, false)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(ServerConfig{}, handler, sessions, contextkeys.LoggerFromContext(context.Background())))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{upstream: upstream, server: srv, client: &http.Client{Jar: jar}}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestServer_Healthz(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestServer_EmptySearch(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/listings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Empty(t, body["properties"])
	assert.Equal(t, false, body["has_more"])
	assert.Equal(t, "/listings", body["url"])
}

func TestServer_SearchUpdatesFiltersAndURL(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.setProperties(map[string]any{"id": 1, "city": "Marbella"}, map[string]any{"id": 2, "city": "Marbella"})

	resp, body := env.do(t, http.MethodPost, "/api/listings/search", `{"filters":{"city":"Marbella","pool":true,"price_min":"300000","search":""}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["properties"], 2)
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, "/listings?city=Marbella&pool=true&price_min=300000", body["url"])

	query, _ := env.upstream.seen()
	assert.Equal(t, "Marbella", query["city"])
	assert.Equal(t, "300000", query["price_min"])
	assert.Equal(t, "1", query["page"])
	_, sentSearch := query["search"]
	assert.False(t, sentSearch)

	// фильтры пережили запрос и доступны отдельно
	_, filters := env.do(t, http.MethodGet, "/api/filters", "")
	assert.Equal(t, "/listings?city=Marbella&pool=true&price_min=300000", filters["url"])
}

func TestServer_LoginFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"agent@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid credentials", body["error"])

	resp, _ = env.do(t, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"agent@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = env.do(t, http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "agent@example.com", body["email"])

	// токен сессии уходит в upstream
	env.do(t, http.MethodGet, "/api/listings", "")
	_, auth := env.upstream.seen()
	assert.Equal(t, "Bearer upstream-token", auth)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_LoginValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", fields["email"])
	assert.Equal(t, "required", fields["password"])
}

func TestServer_PropertyDetailsFallback(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/properties/77", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Casa 77", body["development_name"])
	assert.Equal(t, "Marbella", body["location"])
	assert.Equal(t, false, body["is_fallback"])

	env.upstream.setFailDetails(true)
	resp, body = env.do(t, http.MethodGet, "/api/properties/77", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.FallbackPropertyName, body["development_name"])
	assert.Equal(t, true, body["is_fallback"])
	assert.Equal(t, "database is down", body["fetch_error"])
}

func TestServer_ScrollRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPut, "/api/listings/scroll", `{"offset":1200}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body := env.do(t, http.MethodGet, "/api/listings/scroll", "")
	assert.Equal(t, true, body["found"])
	assert.EqualValues(t, 1200, body["offset"])

	_, body = env.do(t, http.MethodGet, "/api/listings/scroll", "")
	assert.Equal(t, false, body["found"])

	resp, _ = env.do(t, http.MethodPut, "/api/listings/scroll", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Suggestions(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.setProperties(map[string]any{"id": 1, "development_name": "Marina Park", "city": "Marbella"})

	_, body := env.do(t, http.MethodGet, "/api/search/suggestions?q=ma", "")
	suggestions, ok := body["suggestions"].([]any)
	require.True(t, ok)
	assert.Len(t, suggestions, 2)
	query, _ := env.upstream.seen()
	assert.Equal(t, "ma", query["search"])
}

func TestSessionManager_RejectsForeignTokens(t *testing.T) {
	ours, err := NewSessionManager("secret-a", time.Hour, false)
	require.NoError(t, err)
	theirs, err := NewSessionManager("secret-b", time.Hour, false)
	require.NoError(t, err)

	token, err := theirs.Issue([16]byte{1})
	require.NoError(t, err)

	_, err = ours.Parse(token)
	assert.ErrorIs(t, err, errInvalidSession)

	_, err = NewSessionManager("", time.Hour, false)
	assert.Error(t, err)
}

func TestSessionManager_Expiry(t *testing.T) {
	m, err := NewSessionManager("secret", time.Minute, false)
	require.NoError(t, err)
	now := time.Now()
	m.now = func() time.Time { return now }

	token, err := m.Issue([16]byte{7})
	require.NoError(t, err)
	sid, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, byte(7), sid[0])

	now = now.Add(2 * time.Minute)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, errInvalidSession)
}
