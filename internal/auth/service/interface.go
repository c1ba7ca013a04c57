// Package service generates and verifies API client credentials.
package service

// SecretService generates and checks client secrets. Only hashes are stored.
type SecretService interface {
	GenerateSecret() (plainSecret string, hashedSecret string, err error)
	HashSecret(plainSecret string) (string, error)
	// CompareSecret runs in constant time with respect to the secret.
	CompareSecret(plainSecret, hashedSecret string) bool
}

// TokenService generates bearer tokens and their lookup hashes.
type TokenService interface {
	GenerateToken() (plainToken string, tokenHash string, err error)
	HashToken(plainToken string) string
}
