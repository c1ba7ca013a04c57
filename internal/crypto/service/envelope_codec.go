package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
)

// EnvelopeCodec produces and consumes the envelope storage format with AES-256-GCM
// under per-envelope HKDF subkeys.
//
// Every envelope carries its own salt and nonce, so an envelope written under an older
// generation decrypts as long as that generation is retained; no re-encryption pass
// is needed after rotation.
type EnvelopeCodec struct {
	keys   KeySource
	random io.Reader
}

// EnvelopeCodecOption configures an EnvelopeCodec.
type EnvelopeCodecOption func(*EnvelopeCodec)

// WithCodecRandom overrides the salt and nonce entropy source.
func WithCodecRandom(r io.Reader) EnvelopeCodecOption {
	return func(c *EnvelopeCodec) {
		c.random = r
	}
}

// NewEnvelopeCodec creates a codec backed by keys.
func NewEnvelopeCodec(keys KeySource, opts ...EnvelopeCodecOption) *EnvelopeCodec {
	c := &EnvelopeCodec{keys: keys, random: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode encrypts plaintext under the current generation with a fresh salt and nonce.
func (c *EnvelopeCodec) Encode(plaintext []byte) (string, uint64, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	nonce := make([]byte, cryptoDomain.NonceSize)
	if _, err := io.ReadFull(c.random, salt); err != nil {
		return "", 0, fmt.Errorf("failed to generate salt: %w", err)
	}
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return "", 0, fmt.Errorf("failed to generate nonce: %w", err)
	}

	view := c.keys.Snapshot()
	generation := view.Current()
	envelope, err := seal(view, plaintext, generation, salt, nonce)
	if err != nil {
		return "", 0, err
	}
	return envelope, generation, nil
}

// EncodeWith encrypts with caller-supplied salt and nonce. Reusing a salt and nonce pair
// under the same generation breaks GCM; outside of known-answer tests use Encode.
func (c *EnvelopeCodec) EncodeWith(plaintext []byte, generation uint64, salt, nonce []byte) (string, error) {
	return seal(c.keys.Snapshot(), plaintext, generation, salt, nonce)
}

// Decode authenticates and decrypts an envelope, trying retained generations newest
// first. Returns the plaintext and the generation that authenticated it.
func (c *EnvelopeCodec) Decode(encoded string) ([]byte, uint64, error) {
	env, err := cryptoDomain.ParseEnvelope(encoded)
	if err != nil {
		return nil, 0, err
	}

	// GCM Open expects ciphertext followed by the tag.
	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.Tag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	view := c.keys.Snapshot()
	for _, generation := range view.Generations() {
		subkey, err := view.DeriveKey(env.Salt, generation)
		if err != nil {
			continue
		}
		aead, err := newEnvelopeAEAD(subkey)
		cryptoDomain.Zero(subkey)
		if err != nil {
			continue
		}
		plaintext, err := aead.Open(nil, env.Nonce, sealed, nil)
		if err == nil {
			return plaintext, generation, nil
		}
	}

	return nil, 0, cryptoDomain.ErrDecryptionFailed
}

func seal(view KeyDeriver, plaintext []byte, generation uint64, salt, nonce []byte) (string, error) {
	if len(nonce) != cryptoDomain.NonceSize {
		return "", cryptoDomain.ErrInvalidNonceSize
	}
	subkey, err := view.DeriveKey(salt, generation)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(subkey)

	aead, err := newEnvelopeAEAD(subkey)
	if err != nil {
		return "", err
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - cryptoDomain.TagSize

	return cryptoDomain.Envelope{
		Version:    cryptoDomain.FormatVersion,
		Salt:       salt,
		Nonce:      nonce,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
	}.Marshal()
}

// newEnvelopeAEAD builds AES-256-GCM with the format's 16-byte nonce.
func newEnvelopeAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
