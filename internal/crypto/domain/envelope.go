package domain

import (
	"encoding/base64"
)

// Envelope is the decoded form of the persisted envelope string.
type Envelope struct {
	Version    byte
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Marshal serializes the envelope to its base64 storage form.
func (e Envelope) Marshal() (string, error) {
	if len(e.Salt) != SaltSize {
		return "", ErrInvalidSaltSize
	}
	if len(e.Nonce) != NonceSize {
		return "", ErrInvalidNonceSize
	}
	buf := make([]byte, 0, HeaderSize+len(e.Ciphertext))
	buf = append(buf, e.Version)
	buf = append(buf, e.Salt...)
	buf = append(buf, e.Nonce...)
	buf = append(buf, e.Tag...)
	buf = append(buf, e.Ciphertext...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ParseEnvelope decodes and slices an envelope string. A version mismatch is
// reported before any length check; every other defect is ErrDecryptionFailed.
func ParseEnvelope(encoded string) (Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) == 0 {
		return Envelope{}, ErrDecryptionFailed
	}
	if raw[0] != FormatVersion {
		return Envelope{}, ErrUnsupportedFormatVersion
	}
	if len(raw) < HeaderSize {
		return Envelope{}, ErrDecryptionFailed
	}
	return Envelope{
		Version:    raw[0],
		Salt:       raw[saltOffset:nonceOffset],
		Nonce:      raw[nonceOffset:tagOffset],
		Tag:        raw[tagOffset:HeaderSize],
		Ciphertext: raw[HeaderSize:],
	}, nil
}
