package repo

import (
	"context"
	"errors"
)

// Storage keys of the four collections.
const (
	KeyProducts = "products_v2"
	KeyBatches  = "batches_v2"
	KeyHistory  = "history_v2"
	KeyUsers    = "users"
)

var ErrKeyNotFound = errors.New("key not found")

// KVStore is the durable key-value collaborator behind the Store.
// Get returns ErrKeyNotFound when the key was never written.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
