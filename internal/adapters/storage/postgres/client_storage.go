package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createClientStorageTable = `
CREATE TABLE IF NOT EXISTS client_storage (
	session_id UUID        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (session_id, key)
)`

// PostgresClientStorage - долговременное хранилище сессии (аналог localStorage браузера)
type PostgresClientStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresClientStorage(pool *pgxpool.Pool) (*PostgresClientStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresClientStorage{pool: pool}, nil
}

// EnsureSchema создает таблицу, если ее еще нет
func (s *PostgresClientStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createClientStorageTable); err != nil {
		return fmt.Errorf("failed to create client_storage table: %w", err)
	}
	return nil
}

func (s *PostgresClientStorage) Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	query := `SELECT value FROM client_storage WHERE session_id = $1 AND key = $2`

	var value string
	err := s.pool.QueryRow(ctx, query, sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		contextkeys.LoggerFromContext(ctx).Error("Failed to read client storage", err, port.Fields{
			"component": "PostgresClientStorage",
			"key":       key,
		})
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresClientStorage) Set(ctx context.Context, sessionID uuid.UUID, key, value string) error {
	query := `
		INSERT INTO client_storage (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, sessionID, key, value); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to write client storage", err, port.Fields{
			"component": "PostgresClientStorage",
			"key":       key,
		})
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *PostgresClientStorage) Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM client_storage WHERE session_id = $1 AND key = ANY($2)`

	if _, err := s.pool.Exec(ctx, query, sessionID, keys); err != nil {
		return fmt.Errorf("failed to delete keys %v: %w", keys, err)
	}
	return nil
}

var _ port.ClientStoragePort = (*PostgresClientStorage)(nil)
