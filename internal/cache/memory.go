// Package cache provides the key-value store implementations injected into
// the service layer. Entries never expire; mutating operations on the service
// invalidate the affected keys.
package cache

import (
	"context"
	"sync"

	"github.com/example/employee-gateway/internal/domain"
)

// MemoryStore is an in-process store safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.store[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.store[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.store, key)
	s.mu.Unlock()
	return nil
}
