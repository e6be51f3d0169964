package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCacheFixture starts an in-process Redis and a repository on top of it.
func newCacheFixture(t *testing.T) (CacheRepositoryInterface, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheRepository(client), server
}

func TestRedisCacheRepository_SetAndGet(t *testing.T) {
	cache, _ := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "schedule:data", `{"panels":[]}`, time.Minute))

	value, err := cache.Get(ctx, "schedule:data")
	require.NoError(t, err)
	assert.Equal(t, `{"panels":[]}`, value)
}

func TestRedisCacheRepository_GetMissingKey(t *testing.T) {
	cache, _ := newCacheFixture(t)

	_, err := cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisCacheRepository_Del(t *testing.T) {
	cache, _ := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "1", 0))
	require.NoError(t, cache.Set(ctx, "b", "2", 0))

	require.NoError(t, cache.Del(ctx, "a", "b"))

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, redis.Nil)
	_, err = cache.Get(ctx, "b")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisCacheRepository_IncrAndExpire(t *testing.T) {
	cache, server := newCacheFixture(t)
	ctx := context.Background()

	first, err := cache.Incr(ctx, "login_attempts:1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := cache.Incr(ctx, "login_attempts:1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)

	ok, err := cache.Expire(ctx, "login_attempts:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.Expire(ctx, "missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "expire reports a missing key")

	server.FastForward(2 * time.Minute)
	_, err = cache.Get(ctx, "login_attempts:1")
	assert.ErrorIs(t, err, redis.Nil, "key gone after its TTL")
}

func TestRedisCacheRepository_SetExpiry(t *testing.T) {
	cache, server := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "lockout:1", "1", time.Minute))

	server.FastForward(30 * time.Second)
	_, err := cache.Get(ctx, "lockout:1")
	require.NoError(t, err, "still locked before the TTL")

	server.FastForward(time.Minute)
	_, err = cache.Get(ctx, "lockout:1")
	assert.ErrorIs(t, err, redis.Nil)
}
