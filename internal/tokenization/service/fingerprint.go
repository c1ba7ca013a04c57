package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type hmacFingerprinter struct {
	key []byte
}

// NewHMACFingerprinter keys fingerprints with key so stored fingerprints cannot be
// brute-forced offline from low-entropy values such as SSNs.
func NewHMACFingerprinter(key []byte) Fingerprinter {
	return &hmacFingerprinter{key: append([]byte(nil), key...)}
}

// Fingerprint returns HMAC-SHA256(key, canonical) hex encoded.
func (f *hmacFingerprinter) Fingerprint(canonical []byte) string {
	mac := hmac.New(sha256.New, f.key)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil))
}
