package ratelimit

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed gcra.lua
var gcraScript string

// RedisLimiter implements GCRA in a Lua script so limits hold across server
// replicas. Time is passed in milliseconds to stay exact in Lua numbers.
type RedisLimiter struct {
	client    redis.UniversalClient
	policy    Policy
	script    *redis.Script
	keyPrefix string
	now       func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter. Keys are stored as
// keyPrefix+key.
func NewRedisLimiter(client redis.UniversalClient, policy Policy, keyPrefix string) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		policy:    policy,
		script:    redis.NewScript(gcraScript),
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Allow runs the script with EVALSHA; go-redis falls back to EVAL when the
// server answers NOSCRIPT.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	interval := float64(r.policy.EmissionInterval()) / float64(time.Millisecond)
	allowance := float64(r.policy.BurstAllowance()) / float64(time.Millisecond)

	values, err := r.script.Run(ctx, r.client, []string{r.keyPrefix + key},
		r.now().UnixMilli(), interval, allowance).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(values) != 2 {
		return Decision{}, fmt.Errorf("rate limit script returned %d values", len(values))
	}

	return Decision{
		Allowed:    values[0] == 1,
		RetryAfter: time.Duration(values[1]) * time.Millisecond,
	}, nil
}
