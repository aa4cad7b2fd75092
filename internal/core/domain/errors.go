package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPropertyNotFound   = errors.New("property not found")
	ErrNoToken            = errors.New("auth response did not contain a token")
	ErrInvalidCredentials = errors.New("email and password are required")
	ErrUnauthenticated    = errors.New("user is not authenticated")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUpstreamStatus     = errors.New("upstream returned non-2xx status")
)

// UpstreamError - ответ hosted API с не-2xx статусом.
// Текст ошибки - тело ответа, как его прислал upstream.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamStatus
}

// IsUpstreamStatus проверяет, что err - UpstreamError с указанным статусом
func IsUpstreamStatus(err error, statusCode int) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr) && upstreamErr.StatusCode == statusCode
}
