package usecase

import (
	"context"
	"fmt"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/port"
	"strconv"

	"github.com/google/uuid"
)

// ScrollPositionUseCase - кэш позиции прокрутки выдачи, живет в сессионном хранилище
type ScrollPositionUseCase struct {
	storage port.ClientStoragePort
}

func NewScrollPositionUseCase(storage port.ClientStoragePort) *ScrollPositionUseCase {
	return &ScrollPositionUseCase{storage: storage}
}

func (uc *ScrollPositionUseCase) Save(ctx context.Context, sessionID uuid.UUID, offset int) error {
	if offset < 0 {
		offset = 0
	}
	if err := uc.storage.Set(ctx, sessionID, port.StorageKeyScrollPosition, strconv.Itoa(offset)); err != nil {
		return fmt.Errorf("failed to save scroll position: %w", err)
	}
	return nil
}

// Restore возвращает сохраненную позицию и сразу удаляет ее: восстановление одноразовое
func (uc *ScrollPositionUseCase) Restore(ctx context.Context, sessionID uuid.UUID) (int, bool, error) {
	raw, ok, err := uc.storage.Get(ctx, sessionID, port.StorageKeyScrollPosition)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read scroll position: %w", err)
	}
	if !ok {
		return 0, false, nil
	}

	if err := uc.storage.Delete(ctx, sessionID, port.StorageKeyScrollPosition); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to clear scroll position", port.Fields{"error": err.Error()})
	}

	offset, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return offset, true, nil
}
