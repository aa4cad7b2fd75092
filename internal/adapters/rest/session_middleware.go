package rest

import (
	"errors"
	"fmt"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/port"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "ls_session"
	sessionIssuer     = "listing-site"
)

var errInvalidSession = errors.New("invalid session token")

type sessionClaims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// SessionManager выдает и проверяет подписанную cookie с идентификатором браузерной сессии.
// Сама cookie ничего, кроме sid, не хранит: состояние живет на сервере.
type SessionManager struct {
	signingKey   []byte
	ttl          time.Duration
	secureCookie bool
	now          func() time.Time
}

func NewSessionManager(signingKey string, ttl time.Duration, secureCookie bool) (*SessionManager, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("session signing key cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionManager{
		signingKey:   []byte(signingKey),
		ttl:          ttl,
		secureCookie: secureCookie,
		now:          time.Now,
	}, nil
}

func (m *SessionManager) Issue(sessionID uuid.UUID) (string, error) {
	now := m.now()
	claims := &sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", errInvalidSession, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == uuid.Nil {
		return uuid.Nil, errInvalidSession
	}
	return claims.SessionID, nil
}

// Middleware кладет sid в контекст. Нет cookie или она невалидна - выдается новая сессия.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		var sessionID uuid.UUID
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			sid, parseErr := m.Parse(cookie.Value)
			if parseErr != nil {
				logger.Warn("Session cookie rejected, issuing a new session", port.Fields{"error": parseErr.Error()})
			} else {
				sessionID = sid
			}
		}

		if sessionID == uuid.Nil {
			sessionID = uuid.New()
			token, err := m.Issue(sessionID)
			if err != nil {
				logger.Error("Failed to issue session cookie", err, nil)
				WriteJSONError(w, http.StatusInternalServerError, "Failed to start session")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				Expires:  m.now().Add(m.ttl),
				HttpOnly: true,
				Secure:   m.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := contextkeys.ContextWithSessionID(r.Context(), sessionID)
		ctx = contextkeys.ContextWithLoggerFields(ctx, port.Fields{"session_id": sessionID.String()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
