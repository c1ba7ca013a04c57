// Package service implements the key manager, the envelope codec and KMS access.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
)

// KeyDeriver derives per-envelope subkeys from retained master key generations.
// Key bytes never leave an implementation except as derived subkeys.
type KeyDeriver interface {
	// Current returns the generation used for new encryptions.
	Current() uint64
	// Generations returns retained generations, newest first.
	Generations() []uint64
	// DeriveKey derives the 32-byte subkey for salt under generation.
	DeriveKey(salt []byte, generation uint64) ([]byte, error)
}

// KeySource hands out consistent views of the keyring.
type KeySource interface {
	KeyDeriver
	// Snapshot pins the current keyring so a multi-step operation is unaffected by
	// a concurrent rotation.
	Snapshot() KeyDeriver
}

// Codec encrypts and decrypts envelopes.
type Codec interface {
	Encode(plaintext []byte) (envelope string, generation uint64, err error)
	Decode(envelope string) (plaintext []byte, generation uint64, err error)
}

// KMSService opens gocloud.dev/secrets keepers.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
