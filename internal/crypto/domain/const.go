package domain

// Envelope layout: base64( version ‖ salt ‖ iv ‖ authTag ‖ ciphertext ).
//
// The layout is the persisted storage format. FormatVersion changes only on a breaking
// format change, never on routine key rotation.
const (
	// FormatVersion is stamped as the first byte of every envelope.
	FormatVersion byte = 0x01

	// KeySize is the size of master keys and derived subkeys (AES-256).
	KeySize = 32
	// MinSecretSize is the minimum size of the provisioned root secret.
	MinSecretSize = 32
	// SaltSize is the per-envelope HKDF salt size.
	SaltSize = 16
	// NonceSize is the per-envelope GCM nonce size. 16 bytes is a fixed constant of the format.
	NonceSize = 16
	// TagSize is the GCM authentication tag size.
	TagSize = 16

	// HeaderSize is the number of bytes preceding the ciphertext.
	HeaderSize = 1 + SaltSize + NonceSize + TagSize

	saltOffset  = 1
	nonceOffset = saltOffset + SaltSize
	tagOffset   = nonceOffset + NonceSize
)

// HKDF context labels. Each label is versioned so a future derivation change can coexist.
const (
	// MasterKeyInfo derives generation 1 from the provisioned secret.
	MasterKeyInfo = "tokenvault-master-key-v1"
	// EnvelopeInfo derives per-envelope subkeys from a master key generation.
	EnvelopeInfo = "tokenvault-envelope-v1"
	// FingerprintInfo derives the duplicate-detection HMAC key.
	FingerprintInfo = "tokenvault-fingerprint-v1"
	// AuditSigningInfo derives the audit event signing key.
	AuditSigningInfo = "tokenvault-audit-signing-v1"
)
