package domain

import (
	"encoding/base64"
	"fmt"
	"time"
)

// MasterKey is one generation of root key material.
type MasterKey struct {
	Generation uint64
	Key        []byte
	CreatedAt  time.Time
}

// Keyring is an immutable, newest-first set of retained master key generations.
// Rotation produces a new Keyring so readers holding the previous value never
// observe a partially updated set.
type Keyring struct {
	keys []MasterKey
}

// NewKeyring creates a keyring holding a single generation.
func NewKeyring(initial MasterKey) *Keyring {
	return &Keyring{keys: []MasterKey{initial}}
}

// Current returns the newest generation.
func (k *Keyring) Current() MasterKey {
	return k.keys[0]
}

// Get returns the generation if it is retained.
func (k *Keyring) Get(generation uint64) (MasterKey, bool) {
	for _, key := range k.keys {
		if key.Generation == generation {
			return key, true
		}
	}
	return MasterKey{}, false
}

// Generations lists retained generation numbers, newest first.
func (k *Keyring) Generations() []uint64 {
	out := make([]uint64, len(k.keys))
	for i, key := range k.keys {
		out[i] = key.Generation
	}
	return out
}

// Rotate returns a new keyring with next as current, keeping at most retention
// previous generations. The receiver is left untouched.
func (k *Keyring) Rotate(next MasterKey, retention int) *Keyring {
	if retention < 0 {
		retention = 0
	}
	kept := min(len(k.keys), retention)
	keys := make([]MasterKey, 0, kept+1)
	keys = append(keys, next)
	keys = append(keys, k.keys[:kept]...)
	return &Keyring{keys: keys}
}

// Close zeroes every retained key.
func (k *Keyring) Close() {
	for i := range k.keys {
		Zero(k.keys[i].Key)
	}
}

// ParseMasterSecret decodes the base64 provisioned secret and enforces MinSecretSize.
func ParseMasterSecret(raw string) ([]byte, error) {
	if raw == "" {
		return nil, ErrMasterSecretNotSet
	}
	secret, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterSecret, err)
	}
	if len(secret) < MinSecretSize {
		Zero(secret)
		return nil, fmt.Errorf(
			"%w: must decode to at least %d bytes, got %d",
			ErrInvalidMasterSecret,
			MinSecretSize,
			len(secret),
		)
	}
	return secret, nil
}
