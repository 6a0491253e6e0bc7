package repository

import (
	"context"

	"github.com/patrickmn/go-cache"
	domainRepo "github.com/sangkips/ventapett-pos/internal/domain/repository"
)

type memoryStore struct {
	items *cache.Cache
}

// NewMemoryStore creates a process-local key-value store. State is lost on
// restart; use it for tests and throwaway terminals.
func NewMemoryStore() domainRepo.KeyValueStore {
	return &memoryStore{items: cache.New(cache.NoExpiration, 0)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.items.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}
