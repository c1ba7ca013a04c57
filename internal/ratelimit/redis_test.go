package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T, policy Policy) (*RedisLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRedisLimiter(client, policy, "ratelimit:")
	limiter.now = func() time.Time { return now }

	return limiter, mr, &now
}

func TestRedisLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	limiter, mr, now := newTestRedisLimiter(t, Policy{RequestsPerSecond: 2, Burst: 3})

	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d", i)
	}

	decision, err := limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 500*time.Millisecond, decision.RetryAfter)

	assert.True(t, mr.Exists("ratelimit:client-a"))

	*now = now.Add(500 * time.Millisecond)
	decision, err = limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = limiter.Allow(ctx, "client-b")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestRedisLimiter_ScriptFlushed(t *testing.T) {
	ctx := context.Background()
	limiter, _, _ := newTestRedisLimiter(t, Policy{RequestsPerSecond: 1, Burst: 1})

	decision, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	require.NoError(t, limiter.client.ScriptFlush(ctx).Err())

	decision, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, time.Second, decision.RetryAfter)
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	ctx := context.Background()
	limiter, mr, _ := newTestRedisLimiter(t, Policy{RequestsPerSecond: 1, Burst: 1})
	mr.Close()

	_, err := limiter.Allow(ctx, "k")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/0")
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()

	_, err = NewRedisClient("://bad")
	assert.Error(t, err)
}
