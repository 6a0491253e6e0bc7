package repository

import "context"

// KeyValueStore is the durable store behind session state and the
// denomination ledger. Writes are synchronous.
type KeyValueStore interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// Keyspace hands out the store a given user's state lives in.
type Keyspace func(userID string) KeyValueStore
