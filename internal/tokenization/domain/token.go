package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a token at a given instant.
type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
)

// Token maps an opaque handle to an encrypted field map.
type Token struct {
	ID    uuid.UUID
	Token string
	// Envelope is the sealed, base64 encoded field map. Never exposed to callers.
	Envelope string
	// Fingerprint is the keyed hash of the canonical field map used for duplicate detection.
	Fingerprint   string
	KeyGeneration uint64
	OwnerID       uuid.UUID
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// IsExpired reports whether now is past the expiry. A token is still valid at exactly
// its expiry instant.
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// State returns the lifecycle state at now.
func (t *Token) State(now time.Time) State {
	if t.IsExpired(now) {
		return StateExpired
	}
	return StateActive
}

// Revoke forces the expiry to now, keeping an earlier expiry untouched. Returns false when
// the token was already dead, in which case nothing changes. The stored expiry does not
// record why a token died, so a natural expiry and an earlier revoke look the same.
//
// Expiry is exclusive of the expiry instant (see IsExpired), so a read at exactly the
// revocation instant still sees the token alive; any later instant sees it expired.
func (t *Token) Revoke(now time.Time) bool {
	if !now.Before(t.ExpiresAt) {
		return false
	}
	t.ExpiresAt = now
	return true
}

// Extend moves the expiry forward by hours.
func (t *Token) Extend(hours int) {
	t.ExpiresAt = t.ExpiresAt.Add(time.Duration(hours) * time.Hour)
}

// Info is the token metadata safe to expose: no envelope, no fingerprint.
type Info struct {
	Token         string
	OwnerID       uuid.UUID
	KeyGeneration uint64
	State         State
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Info projects the token for display at now.
func (t *Token) Info(now time.Time) *Info {
	return &Info{
		Token:         t.Token,
		OwnerID:       t.OwnerID,
		KeyGeneration: t.KeyGeneration,
		State:         t.State(now),
		CreatedAt:     t.CreatedAt,
		ExpiresAt:     t.ExpiresAt,
	}
}
