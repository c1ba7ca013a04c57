package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	apperrors "github.com/allisson/tokenvault/internal/errors"
)

type tokenService struct {
	random io.Reader
}

// NewTokenService creates a TokenService issuing 32-byte base64url tokens
// looked up by their SHA-256 hex digest.
func NewTokenService() TokenService {
	return &tokenService{random: rand.Reader}
}

func (t *tokenService) GenerateToken() (string, string, error) {
	plainToken, err := randomURLString(t.random)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate bearer token")
	}
	return plainToken, t.HashToken(plainToken), nil
}

func (t *tokenService) HashToken(plainToken string) string {
	sum := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(sum[:])
}
