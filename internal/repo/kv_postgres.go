package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresKVStore keeps snapshots in the kv_snapshots table (see db.EnsureSchema).
type PostgresKVStore struct {
	db *sql.DB
}

func NewPostgresKVStore(db *sql.DB) *PostgresKVStore {
	return &PostgresKVStore{db: db}
}

func (r *PostgresKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value::text FROM kv_snapshots WHERE key = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (r *PostgresKVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_snapshots (key, value, updated_at) VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC())
	return err
}

// Clear removes every snapshot. Used to reset state between integration tests.
func (r *PostgresKVStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_snapshots`)
	return err
}
