package repo

import (
	"context"
	"sync"
)

type InMemoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewInMemoryKVStore() *InMemoryKVStore {
	return &InMemoryKVStore{data: map[string][]byte{}}
}

func (s *InMemoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *InMemoryKVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Clear drops every key.
func (s *InMemoryKVStore) Clear() {
	s.mu.Lock()
	s.data = map[string][]byte{}
	s.mu.Unlock()
}
