// Package dto holds the request and response bodies of the token endpoint.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/tokenvault/internal/validation"
)

// IssueTokenRequest carries client credentials.
type IssueTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID, validation.Required, customValidation.UUID),
		validation.Field(&r.ClientSecret, validation.Required, customValidation.NotBlank),
	)
}

// ParsedClientID returns the client ID. Call it only after Validate succeeds.
func (r *IssueTokenRequest) ParsedClientID() uuid.UUID {
	return uuid.MustParse(r.ClientID)
}
