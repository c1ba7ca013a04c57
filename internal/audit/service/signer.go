// Package service signs and verifies audit events.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/goccy/go-json"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

// Signer produces tamper-evidence signatures for audit events.
type Signer interface {
	Sign(event *auditDomain.Event) ([]byte, error)
	Verify(event *auditDomain.Event) error
}

type hmacSigner struct {
	key []byte
}

// NewSigner creates an HMAC-SHA256 signer. The key is derived once from the provisioned
// secret so signatures stay verifiable across master key rotations and restarts.
func NewSigner(key []byte) Signer {
	return &hmacSigner{key: append([]byte(nil), key...)}
}

// canonicalize encodes id || owner || action || details || created_at. Variable-length
// fields carry a 4-byte big-endian length prefix so no two events share an encoding.
func canonicalize(event *auditDomain.Event) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, event.ID[:]...)
	buf = append(buf, event.OwnerID[:]...)
	buf = appendLengthPrefixed(buf, []byte(event.Action))

	if event.Details != nil {
		// go-json sorts map keys, nested maps included
		details, err := json.Marshal(event.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal details: %w", err)
		}
		buf = appendLengthPrefixed(buf, details)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(event.CreatedAt.UnixMicro()))
	return buf, nil
}

func appendLengthPrefixed(buf, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// Sign returns the 32-byte HMAC-SHA256 of the canonical encoding.
func (s *hmacSigner) Sign(event *auditDomain.Event) ([]byte, error) {
	canonical, err := canonicalize(event)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify returns ErrSignatureInvalid unless the stored signature matches.
func (s *hmacSigner) Verify(event *auditDomain.Event) error {
	expected, err := s.Sign(event)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}
	if !hmac.Equal(event.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}
