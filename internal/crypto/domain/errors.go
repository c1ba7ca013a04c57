package domain

import (
	"github.com/allisson/tokenvault/internal/errors"
)

var (
	// ErrDecryptionFailed is returned when an envelope is malformed or does not
	// authenticate under any retained key generation. The cause is deliberately opaque.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnprocessable, "decryption failed")

	// ErrUnsupportedFormatVersion is returned when the envelope version byte is unknown.
	ErrUnsupportedFormatVersion = errors.Wrap(errors.ErrUnprocessable, "unsupported envelope format version")

	// ErrInvalidKeySize indicates key material of the wrong length.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSaltSize indicates a salt that is not SaltSize bytes.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")

	// ErrInvalidNonceSize indicates a nonce that is not NonceSize bytes.
	ErrInvalidNonceSize = errors.Wrap(errors.ErrInvalidInput, "invalid nonce size")

	// ErrKeyGenerationNotFound indicates the generation is not (or no longer) retained.
	ErrKeyGenerationNotFound = errors.Wrap(errors.ErrNotFound, "key generation not found")

	// ErrMasterSecretNotSet indicates MASTER_SECRET is empty.
	ErrMasterSecretNotSet = errors.Wrap(errors.ErrInvalidInput, "master secret not set")

	// ErrInvalidMasterSecret indicates MASTER_SECRET is not valid base64 or is too short.
	ErrInvalidMasterSecret = errors.Wrap(errors.ErrInvalidInput, "invalid master secret")
)
