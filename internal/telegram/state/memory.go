package state

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage keeps chat sessions in process memory. Sessions idle for
// longer than the ttl are evicted.
type MemoryStorage struct {
	items *cache.Cache
}

func NewMemoryStorage(ttl, cleanupInterval time.Duration) *MemoryStorage {
	return &MemoryStorage{
		items: cache.New(ttl, cleanupInterval),
	}
}

func (s *MemoryStorage) Get(_ context.Context, chatID int64) (*ChatSession, error) {
	v, ok := s.items.Get(storageKey(chatID))
	if !ok {
		return nil, ErrNotFound
	}
	session := v.(ChatSession)
	return &session, nil
}

// Set stores a copy of session, so callers may keep mutating theirs.
func (s *MemoryStorage) Set(_ context.Context, session *ChatSession) error {
	s.items.Set(storageKey(session.ChatID), *session, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, chatID int64) error {
	s.items.Delete(storageKey(chatID))
	return nil
}

func storageKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
