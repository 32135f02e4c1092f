package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

// Store reads and replaces whole collections on a KVStore.
// Writes to different collections are not atomic with each other.
type Store struct {
	kv KVStore
}

func NewStore(kv KVStore) *Store {
	return &Store{kv: kv}
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	return load[models.Product](ctx, s.kv, KeyProducts)
}

func (s *Store) SaveProducts(ctx context.Context, products []models.Product) error {
	return save(ctx, s.kv, KeyProducts, products)
}

func (s *Store) Batches(ctx context.Context) ([]models.Batch, error) {
	return load[models.Batch](ctx, s.kv, KeyBatches)
}

func (s *Store) SaveBatches(ctx context.Context, batches []models.Batch) error {
	return save(ctx, s.kv, KeyBatches, batches)
}

// History returns entries newest first.
func (s *Store) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return load[models.HistoryEntry](ctx, s.kv, KeyHistory)
}

func (s *Store) SaveHistory(ctx context.Context, entries []models.HistoryEntry) error {
	return save(ctx, s.kv, KeyHistory, entries)
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return load[models.User](ctx, s.kv, KeyUsers)
}

func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return save(ctx, s.kv, KeyUsers, users)
}

// HasKey reports whether key has ever been written.
func (s *Store) HasKey(ctx context.Context, key string) (bool, error) {
	_, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking key %s: %w", key, err)
	}
	return true, nil
}

// Init persists the dataset's products and batches for each key that is
// still absent. Existing collections, even empty ones, are left alone.
func (s *Store) Init(ctx context.Context, dataset Dataset) error {
	hasProducts, err := s.HasKey(ctx, KeyProducts)
	if err != nil {
		return err
	}
	if !hasProducts {
		if err := s.SaveProducts(ctx, dataset.Products); err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}
	}

	hasBatches, err := s.HasKey(ctx, KeyBatches)
	if err != nil {
		return err
	}
	if !hasBatches {
		if err := s.SaveBatches(ctx, dataset.Batches); err != nil {
			return fmt.Errorf("seeding batches: %w", err)
		}
	}
	return nil
}

func load[T any](ctx context.Context, kv KVStore, key string) ([]T, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, kv KVStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
