package repo

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/expiry-tracker/internal/redissvc"
)

const redisKeyNamespace = "expiry"

// RedisKVStore stores each collection under expiry:<key> without expiry.
type RedisKVStore struct {
	rs *redissvc.RedisService
}

func NewRedisKVStore(rs *redissvc.RedisService) *RedisKVStore {
	return &RedisKVStore{rs: rs}
}

func (s *RedisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rs.Get(ctx, redissvc.Key(redisKeyNamespace, key))
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *RedisKVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.rs.Set(ctx, redissvc.Key(redisKeyNamespace, key), string(value), 0)
}
