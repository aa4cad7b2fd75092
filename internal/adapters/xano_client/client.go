package xano_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// XanoAPIClient - клиент hosted backend'а: выдача объектов и авторизация живут на разных базовых URL
type XanoAPIClient struct {
	baseURL    string // Например, "https://x8ki-letl-twmt.n7.xano.io/api:abc"
	authURL    string
	httpClient *http.Client
}

// NewXanoAPIClient - конструктор. Пустой authURL означает, что авторизация на том же хосте.
func NewXanoAPIClient(baseURL, authURL string, httpClient *http.Client) *XanoAPIClient {
	if authURL == "" {
		authURL = baseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &XanoAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authURL:    strings.TrimRight(authURL, "/"),
		httpClient: httpClient,
	}
}

// doRequest - общий хелпер: trace id, bearer-токен сессии, JSON-заголовки
func (c *XanoAPIClient) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if token := contextkeys.AuthTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// readUpstreamError превращает не-2xx ответ в UpstreamError с телом ответа в качестве текста
func readUpstreamError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return &domain.UpstreamError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(bodyBytes)),
	}
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// Login реализует PropertiesAPIPort. Токен не сохраняется здесь: это делает use case.
func (c *XanoAPIClient) Login(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "XanoAPIClient",
		"method":    "Login",
	})

	reqBody, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		clientLogger.Error("Failed to marshal request body", err, nil)
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.authURL+"/auth/login", bytes.NewReader(reqBody))
	if err != nil {
		clientLogger.Error("Failed to perform login request", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		upstreamErr := readUpstreamError(resp)
		clientLogger.Warn("Login rejected by auth API", port.Fields{"status_code": resp.StatusCode})
		return nil, upstreamErr
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		clientLogger.Error("Failed to decode login response", err, nil)
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	token := loginResp.token()
	if token == "" {
		clientLogger.Warn("Login response has no token", nil)
		return nil, domain.ErrNoToken
	}

	tokens := &domain.AuthTokens{Token: token}
	if loginResp.User != nil {
		tokens.User = &domain.User{
			ID:    string(loginResp.User.ID),
			Email: loginResp.User.Email,
			Name:  loginResp.User.Name,
		}
	}
	return tokens, nil
}

// GetProperties реализует PropertiesAPIPort
func (c *XanoAPIClient) GetProperties(ctx context.Context, filters domain.FilterState, page, perPage int) (*domain.PropertiesPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "XanoAPIClient",
		"method":    "GetProperties",
		"page":      page,
		"per_page":  perPage,
	})

	query := buildAPIQuery(filters)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	reqURL := c.baseURL + "/properties?" + query.Encode()

	resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to properties API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		upstreamErr := readUpstreamError(resp)
		clientLogger.Error("Received non-OK response from properties API", upstreamErr, port.Fields{"status_code": resp.StatusCode})
		return nil, upstreamErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		clientLogger.Error("Failed to read response body", err, nil)
		return nil, fmt.Errorf("failed to read properties response: %w", err)
	}

	result := normalizePropertiesResponse(ctx, body, page, perPage)
	clientLogger.Info("Successfully received properties page", port.Fields{
		"items_on_page": len(result.Data),
		"total_found":   result.Total,
	})
	return result, nil
}

// GetProperty реализует PropertiesAPIPort
func (c *XanoAPIClient) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component":   "XanoAPIClient",
		"method":      "GetProperty",
		"property_id": id,
	})

	resp, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/properties/"+url.PathEscape(id), nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to properties API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPropertyNotFound
	}
	if !isSuccess(resp.StatusCode) {
		upstreamErr := readUpstreamError(resp)
		clientLogger.Error("Received non-OK response from properties API", upstreamErr, port.Fields{"status_code": resp.StatusCode})
		return nil, upstreamErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read property response: %w", err)
	}

	// Некоторые эндпоинты заворачивают объект в {"data": {...}}
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Data) > 0 && wrapped.Data[0] == '{' {
		body = wrapped.Data
	}

	if err := validatePropertyItem(body); err != nil {
		clientLogger.Error("Property response failed validation", err, nil)
		return nil, fmt.Errorf("invalid property response: %w", err)
	}

	var dto propertyDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		clientLogger.Error("Failed to decode property response", err, nil)
		return nil, fmt.Errorf("failed to decode property response: %w", err)
	}

	property := dto.toDomain()
	return &property, nil
}

// buildAPIQuery пропускает только пустые значения; false и NaN уходят как есть
func buildAPIQuery(filters domain.FilterState) url.Values {
	values := url.Values{}
	for key, v := range filters {
		if v.IsEmpty() {
			continue
		}
		values.Set(key, v.String())
	}
	return values
}

var _ port.PropertiesAPIPort = (*XanoAPIClient)(nil)

