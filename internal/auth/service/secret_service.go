package service

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/tokenvault/internal/errors"
)

const credentialSize = 32

type secretService struct {
	hasher *pwdhash.PasswordHasher
	random io.Reader
}

// NewSecretService creates a SecretService hashing with Argon2id under the
// moderate policy.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		panic(err)
	}
	return &secretService{hasher: hasher, random: rand.Reader}
}

func (s *secretService) GenerateSecret() (string, string, error) {
	plainSecret, err := randomURLString(s.random)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate client secret")
	}
	hashedSecret, err := s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}
	return plainSecret, hashedSecret, nil
}

func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash client secret")
	}
	return hashed, nil
}

func (s *secretService) CompareSecret(plainSecret, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	return err == nil && ok
}

func randomURLString(random io.Reader) (string, error) {
	buf := make([]byte, credentialSize)
	if _, err := io.ReadFull(random, buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
