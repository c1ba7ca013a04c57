// Package domain defines the token model and lifecycle errors.
package domain

import "github.com/google/uuid"

const (
	// HandleSize is the number of random bytes behind a token handle (hex encoded to 64 chars).
	HandleSize = 32

	// DefaultExpiryHours applies when a caller omits the expiry.
	DefaultExpiryHours = 24

	// MaxPlaintextSize bounds the serialized field map (64 KiB).
	MaxPlaintextSize = 64 * 1024

	// MaxFields bounds the number of fields in one token.
	MaxFields = 100
)

// SystemOwnerID identifies automated callers such as the object storage scanner.
var SystemOwnerID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
