package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	domainRepo "github.com/sangkips/ventapett-pos/internal/domain/repository"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a key-value store on redis. Keys are namespaced
// with prefix so several services can share a database.
func NewRedisStore(client *redis.Client, prefix string) domainRepo.KeyValueStore {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
