package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "key", []byte("solid"), time.Hour))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"key"))

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("solid"), data)

	require.NoError(t, c.Delete(ctx, "key"))
	_, hit, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))
	mr.FastForward(2 * time.Minute)

	_, hit, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire")

	_, hit, err = c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, hit, "zero ttl should never expire")
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	require.NoError(t, mr.Set("unrelated", "keep"))
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}

	require.NoError(t, c.Clear(ctx))
	for _, k := range []string{"a", "b", "c"} {
		assert.False(t, mr.Exists(DefaultRedisPrefix+k))
	}
	assert.True(t, mr.Exists("unrelated"), "clear must stay inside the prefix")

	require.NoError(t, c.Clear(ctx), "clearing an empty cache")
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer c.Close()

	_, err = NewRedisCache(context.Background(), "not a url")
	assert.Error(t, err)
}
