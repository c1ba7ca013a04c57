package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultIdleTimeout   = time.Hour
)

type memoryEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// MemoryLimiter keeps one token bucket per key. Idle buckets are swept
// during Allow calls, so no background goroutine is needed.
type MemoryLimiter struct {
	policy    Policy
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
	idle      time.Duration
	now       func() time.Time
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy:    policy,
		entries:   make(map[string]*memoryEntry),
		lastSweep: time.Now(),
		idle:      defaultIdleTimeout,
		now:       time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	entry, ok := m.entries[key]
	if !ok {
		entry = &memoryEntry{limiter: rate.NewLimiter(rate.Limit(m.policy.RequestsPerSecond), max(m.policy.Burst, 1))}
		m.entries[key] = entry
	}
	entry.lastAccess = now

	if entry.limiter.AllowN(now, 1) {
		return Decision{Allowed: true}, nil
	}

	reservation := entry.limiter.ReserveN(now, 1)
	retryAfter := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

// sweep drops buckets idle for longer than m.idle. Callers hold m.mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < defaultSweepInterval {
		return
	}
	m.lastSweep = now
	threshold := now.Add(-m.idle)
	for key, entry := range m.entries {
		if entry.lastAccess.Before(threshold) {
			delete(m.entries, key)
		}
	}
}

// Len returns the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
