package domain

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Fields is the plaintext protected by a token.
type Fields map[string]string

// Validate checks the map shape. Values may be empty; keys may not.
func (f Fields) Validate() error {
	if len(f) == 0 {
		return fmt.Errorf("%w: at least one field is required", ErrInvalidFields)
	}
	if len(f) > MaxFields {
		return fmt.Errorf("%w: at most %d fields are allowed", ErrInvalidFields, MaxFields)
	}
	for key := range f {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: field names must not be blank", ErrInvalidFields)
		}
	}
	return nil
}

// Canonical serializes the map as JSON with keys sorted, so equal maps always produce
// equal bytes. The output is both the sealed plaintext and the fingerprint input.
func (f Fields) Canonical() ([]byte, error) {
	// go-json sorts map keys unless json.UnorderedMap is passed
	data, err := json.Marshal(map[string]string(f))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize fields: %w", err)
	}
	if len(data) > MaxPlaintextSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPlaintextTooLarge, len(data), MaxPlaintextSize)
	}
	return data, nil
}

// ParseFields decodes a serialized field map.
func ParseFields(data []byte) (Fields, error) {
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}
	return fields, nil
}
