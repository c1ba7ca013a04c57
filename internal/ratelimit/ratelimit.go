// Package ratelimit provides per-key request limiters backed by process
// memory or Redis.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter admits or rejects one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Policy is a sustained rate with a burst allowance.
type Policy struct {
	RequestsPerSecond float64
	Burst             int
}

// EmissionInterval is the spacing between requests at the sustained rate.
func (p Policy) EmissionInterval() time.Duration {
	if p.RequestsPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / p.RequestsPerSecond)
}

// BurstAllowance is how far ahead of now the theoretical arrival time may run.
func (p Policy) BurstAllowance() time.Duration {
	burst := max(p.Burst, 1)
	return time.Duration(burst-1) * p.EmissionInterval()
}
