package usecase

import (
	"context"
	"encoding/json"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"strings"

	"github.com/google/uuid"
)

type LoginUseCase struct {
	api      port.PropertiesAPIPort
	sessions *SessionRegistry
	storage  port.ClientStoragePort
}

func NewLoginUseCase(api port.PropertiesAPIPort, sessions *SessionRegistry, storage port.ClientStoragePort) *LoginUseCase {
	return &LoginUseCase{api: api, sessions: sessions, storage: storage}
}

// Execute никогда не возвращает ошибку наружу: неуспешный вход - это LoginResult{Success: false}.
// Токен сохраняется только после успешного ответа.
func (uc *LoginUseCase) Execute(ctx context.Context, sessionID uuid.UUID, email, password string) domain.LoginResult {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "Login",
		"session_id": sessionID.String(),
	})

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.LoginResult{Success: false, Error: domain.ErrInvalidCredentials.Error()}
	}

	tokens, err := uc.api.Login(ctx, email, password)
	if err != nil {
		logger.Warn("Login rejected", port.Fields{"error": err.Error()})
		return domain.LoginResult{Success: false, Error: err.Error()}
	}

	user := tokens.User
	if user == nil {
		user = &domain.User{Email: email}
	}

	uc.sessions.Session(ctx, sessionID).SetAuth(tokens.Token, user)

	if err := uc.storage.Set(ctx, sessionID, port.StorageKeyAuthToken, tokens.Token); err != nil {
		logger.Error("Failed to persist auth token", err, nil)
	}
	if raw, err := json.Marshal(user); err == nil {
		if err := uc.storage.Set(ctx, sessionID, port.StorageKeyCurrentUser, string(raw)); err != nil {
			logger.Error("Failed to persist current user", err, nil)
		}
	}

	logger.Info("User logged in", port.Fields{"email": user.Email})
	return domain.LoginResult{Success: true, User: user}
}

type LogoutUseCase struct {
	sessions *SessionRegistry
	storage  port.ClientStoragePort
}

func NewLogoutUseCase(sessions *SessionRegistry, storage port.ClientStoragePort) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, storage: storage}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, sessionID uuid.UUID) error {
	uc.sessions.Session(ctx, sessionID).ClearAuth()
	return uc.storage.Delete(ctx, sessionID, port.StorageKeyAuthToken, port.StorageKeyCurrentUser)
}

type CurrentUserUseCase struct {
	sessions *SessionRegistry
}

func NewCurrentUserUseCase(sessions *SessionRegistry) *CurrentUserUseCase {
	return &CurrentUserUseCase{sessions: sessions}
}

func (uc *CurrentUserUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (*domain.User, error) {
	state := uc.sessions.Session(ctx, sessionID)
	user := state.User()
	if user == nil || state.AuthToken() == "" {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
