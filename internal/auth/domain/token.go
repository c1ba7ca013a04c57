package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is an issued bearer token. Only the SHA-256 hash of the plain token is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ClientID  uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsValid reports whether the token can authenticate at now.
func (t *Token) IsValid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// IssueTokenInput contains client credentials.
type IssueTokenInput struct {
	ClientID     uuid.UUID
	ClientSecret string
}

// IssueTokenOutput carries the plain bearer token, shown once.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
