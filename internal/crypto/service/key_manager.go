package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
)

// KeyManager holds the retained master key generations and derives subkeys from them.
//
// Readers load the keyring through an atomic pointer; Rotate builds a new keyring and
// swaps it in, so concurrent encrypt and decrypt calls see either the pre- or the
// post-rotation set. Writers are serialized by a mutex.
type KeyManager struct {
	ring      atomic.Pointer[cryptoDomain.Keyring]
	rotateMu  sync.Mutex
	root      []byte
	retention int
	random    io.Reader
	now       func() time.Time
}

// KeyManagerOption configures a KeyManager.
type KeyManagerOption func(*KeyManager)

// WithRetentionDepth sets how many previous generations stay decryptable. Default 1.
func WithRetentionDepth(depth int) KeyManagerOption {
	return func(km *KeyManager) {
		km.retention = depth
	}
}

// WithRandom overrides the entropy source used for new generations.
func WithRandom(r io.Reader) KeyManagerOption {
	return func(km *KeyManager) {
		km.random = r
	}
}

// NewKeyManager derives generation 1 from the provisioned secret. The secret is copied;
// callers may zero their copy afterwards.
func NewKeyManager(secret []byte, opts ...KeyManagerOption) (*KeyManager, error) {
	if len(secret) < cryptoDomain.MinSecretSize {
		return nil, fmt.Errorf(
			"%w: secret must be at least %d bytes, got %d",
			cryptoDomain.ErrInvalidKeySize,
			cryptoDomain.MinSecretSize,
			len(secret),
		)
	}

	km := &KeyManager{
		root:      append([]byte(nil), secret...),
		retention: 1,
		random:    rand.Reader,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(km)
	}

	initial, err := hkdfExpand(km.root, nil, cryptoDomain.MasterKeyInfo)
	if err != nil {
		return nil, err
	}
	km.ring.Store(cryptoDomain.NewKeyring(cryptoDomain.MasterKey{
		Generation: 1,
		Key:        initial,
		CreatedAt:  km.now().UTC(),
	}))

	return km, nil
}

// Rotate makes a fresh random key current and trims history to the retention depth.
// Returns the new generation number.
func (km *KeyManager) Rotate() (uint64, error) {
	km.rotateMu.Lock()
	defer km.rotateMu.Unlock()

	next := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(km.random, next); err != nil {
		return 0, fmt.Errorf("failed to generate master key: %w", err)
	}

	current := km.ring.Load()
	generation := current.Current().Generation + 1
	km.ring.Store(current.Rotate(cryptoDomain.MasterKey{
		Generation: generation,
		Key:        next,
		CreatedAt:  km.now().UTC(),
	}, km.retention))

	return generation, nil
}

// Current returns the generation used for new encryptions.
func (km *KeyManager) Current() uint64 {
	return km.ring.Load().Current().Generation
}

// Generations returns retained generations, newest first.
func (km *KeyManager) Generations() []uint64 {
	return km.ring.Load().Generations()
}

// DeriveKey derives the subkey for salt under generation from the live keyring.
func (km *KeyManager) DeriveKey(salt []byte, generation uint64) ([]byte, error) {
	return deriveFrom(km.ring.Load(), salt, generation)
}

// Snapshot pins the current keyring.
func (km *KeyManager) Snapshot() KeyDeriver {
	return keyringView{ring: km.ring.Load()}
}

// DeriveAuxiliaryKey derives a process-stable key from the provisioned secret. It is
// independent of rotation so fingerprints and audit signatures stay verifiable.
func (km *KeyManager) DeriveAuxiliaryKey(info string) ([]byte, error) {
	return hkdfExpand(km.root, nil, info)
}

// Close zeroes the provisioned secret and every retained generation.
func (km *KeyManager) Close() {
	km.rotateMu.Lock()
	defer km.rotateMu.Unlock()

	cryptoDomain.Zero(km.root)
	if ring := km.ring.Load(); ring != nil {
		ring.Close()
	}
}

type keyringView struct {
	ring *cryptoDomain.Keyring
}

func (v keyringView) Current() uint64 {
	return v.ring.Current().Generation
}

func (v keyringView) Generations() []uint64 {
	return v.ring.Generations()
}

func (v keyringView) DeriveKey(salt []byte, generation uint64) ([]byte, error) {
	return deriveFrom(v.ring, salt, generation)
}

func deriveFrom(ring *cryptoDomain.Keyring, salt []byte, generation uint64) ([]byte, error) {
	if len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidSaltSize
	}
	masterKey, ok := ring.Get(generation)
	if !ok {
		return nil, fmt.Errorf("%w: %d", cryptoDomain.ErrKeyGenerationNotFound, generation)
	}
	return hkdfExpand(masterKey.Key, salt, cryptoDomain.EnvelopeInfo)
}

func hkdfExpand(secret, salt []byte, info string) ([]byte, error) {
	out := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return out, nil
}
