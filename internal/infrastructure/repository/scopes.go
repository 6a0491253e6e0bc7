package repository

import (
	"context"

	domainRepo "github.com/sangkips/ventapett-pos/internal/domain/repository"
)

type scopedStore struct {
	inner  domainRepo.KeyValueStore
	prefix string
}

// UserScope namespaces every key of inner under the given user, so
// sessions sharing one store never see each other's state.
func UserScope(inner domainRepo.KeyValueStore, userID string) domainRepo.KeyValueStore {
	return &scopedStore{inner: inner, prefix: "user:" + userID + ":"}
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// PerUserKeyspace is used by the HTTP service, where many users share a store.
func PerUserKeyspace(store domainRepo.KeyValueStore) domainRepo.Keyspace {
	return func(userID string) domainRepo.KeyValueStore {
		return UserScope(store, userID)
	}
}

// SharedKeyspace is used by the CLI: one operator, fixed keys.
func SharedKeyspace(store domainRepo.KeyValueStore) domainRepo.Keyspace {
	return func(string) domainRepo.KeyValueStore {
		return store
	}
}
