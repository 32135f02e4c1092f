package redissvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// RedisService is the subset of redis used by the application.
type RedisService struct {
	store cmdable
	rdb   *redis.Client
}

// Connect dials addr and verifies the connection with a ping.
func Connect(ctx context.Context, addr string) (*RedisService, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return NewRedisService(rdb), nil
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{store: rdb, rdb: rdb}
}

func newWithStore(store cmdable) *RedisService {
	return &RedisService{store: store}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Get returns redis.Nil when key is missing.
func (s *RedisService) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, key).Result()
}

func (s *RedisService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return s.store.Set(ctx, key, value, ttl).Err()
}

func (s *RedisService) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Key joins namespace and parts with ':' skipping empty parts.
func Key(namespace string, parts ...string) string {
	segments := []string{namespace}
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return strings.Join(segments, ":")
}
