// Package domain defines API clients and their bearer tokens. A client is the
// owner recorded on every token it creates.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is an API client authenticating with a hashed secret.
type Client struct {
	ID        uuid.UUID
	Name      string
	Secret    string //nolint:gosec // hashed client secret
	IsActive  bool
	CreatedAt time.Time
}

// CreateClientInput contains the parameters for creating a client.
type CreateClientInput struct {
	Name     string
	IsActive bool
}

// CreateClientOutput carries the generated credentials. PlainSecret is only
// available at creation time.
type CreateClientOutput struct {
	ID          uuid.UUID
	PlainSecret string
}
