package redissvc

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "expiry:products_v2", Key("expiry", "products_v2"))
	assert.Equal(t, "expiry:a:b", Key("expiry", "a", "", "b"))
	assert.Equal(t, "expiry", Key("expiry"))
}

func TestFakeRoundTrip(t *testing.T) {
	ctx := context.Background()
	rs := NewFake()

	require.NoError(t, rs.Ping(ctx))

	_, err := rs.Get(ctx, "missing")
	assert.True(t, errors.Is(err, redis.Nil))

	require.NoError(t, rs.Set(ctx, "k", "v", 0))
	got, err := rs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	assert.NoError(t, rs.Close())
}

func TestConnectRequiresAddress(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.Error(t, err)
}
