package repository

import (
	"context"
	"encoding/json"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/ventapett-pos/internal/domain/repository"
)

type idempotencyRepository struct {
	store domainRepo.KeyValueStore
}

// NewIdempotencyRepository keeps idempotency keys in the state store
func NewIdempotencyRepository(store domainRepo.KeyValueStore) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{store: store}
}

func idempotencyStoreKey(key, userID string) string {
	return "idempotency:" + userID + ":" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID string) (*entity.IdempotencyKey, error) {
	raw, ok, err := r.store.Get(ctx, idempotencyStoreKey(key, userID))
	if err != nil || !ok {
		return nil, err
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal([]byte(raw), &ikey); err != nil {
		return nil, err
	}
	if ikey.IsExpired() {
		_ = r.store.Delete(ctx, idempotencyStoreKey(key, userID))
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	b, err := json.Marshal(ikey)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, idempotencyStoreKey(ikey.Key, ikey.UserID), string(b))
}
