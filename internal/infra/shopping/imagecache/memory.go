package imagecache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	url       string
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when valkey is disabled.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// GetURL implements Store.
func (s *MemoryStore) GetURL(_ context.Context, supplementName string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[supplementName]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, supplementName)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.url, true, nil
}

// SetURL implements Store.
func (s *MemoryStore) SetURL(_ context.Context, supplementName, url string, ttl time.Duration) error {
	entry := memoryEntry{url: url}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[supplementName] = entry
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
