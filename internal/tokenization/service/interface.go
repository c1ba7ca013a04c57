// Package service provides token handle generation and plaintext fingerprinting.
package service

// HandleGenerator produces and checks token handles.
type HandleGenerator interface {
	Generate() (string, error)
	Validate(handle string) error
}

// Fingerprinter maps a canonical serialized field map to a stable lookup key.
type Fingerprinter interface {
	Fingerprint(canonical []byte) string
}
