package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// ClientStorage - хранилище в памяти процесса. Используется, когда не настроены Postgres/Redis, и в тестах.
// ttl=0 означает, что значения не истекают.
type ClientStorage struct {
	mu   sync.RWMutex
	data map[uuid.UUID]map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

func NewClientStorage(ttl time.Duration) *ClientStorage {
	return &ClientStorage{
		data: make(map[uuid.UUID]map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *ClientStorage) Get(_ context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID][key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *ClientStorage) Set(_ context.Context, sessionID uuid.UUID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.data[sessionID]
	if !ok {
		bucket = make(map[string]entry)
		s.data[sessionID] = bucket
	}

	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	bucket[key] = e
	return nil
}

func (s *ClientStorage) Delete(_ context.Context, sessionID uuid.UUID, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.data[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(bucket, key)
	}
	if len(bucket) == 0 {
		delete(s.data, sessionID)
	}
	return nil
}

// Sweep удаляет истекшие значения, возвращает количество удаленных
func (s *ClientStorage) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, bucket := range s.data {
		for key, e := range bucket {
			if now.After(e.expiresAt) {
				delete(bucket, key)
				removed++
			}
		}
		if len(bucket) == 0 {
			delete(s.data, sid)
		}
	}
	return removed
}
