// Package dto holds the request and response bodies of the tokenization endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
	customValidation "github.com/allisson/tokenvault/internal/validation"
)

// TokenizeRequest creates one token. ExpiryHours zero means the server default.
type TokenizeRequest struct {
	Fields      map[string]string `json:"fields"`
	ExpiryHours int               `json:"expiry_hours"`
}

func (r *TokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Fields, customValidation.FieldMap(tokenizationDomain.MaxFields)),
		validation.Field(&r.ExpiryHours, validation.Min(0)),
	)
}

// BulkTokenizeRequest creates many tokens. Items are validated individually by the
// bulk operation so one bad item does not reject the batch.
type BulkTokenizeRequest struct {
	Items []TokenizeRequest `json:"items"`
}

func (r *BulkTokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Items, validation.Required),
	)
}

// BulkItems converts the request items for the use case.
func (r *BulkTokenizeRequest) BulkItems() []tokenizationDomain.BulkItem {
	items := make([]tokenizationDomain.BulkItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = tokenizationDomain.BulkItem{
			Fields:      tokenizationDomain.Fields(item.Fields),
			ExpiryHours: item.ExpiryHours,
		}
	}
	return items
}

// DetokenizeRequest names the token to resolve.
type DetokenizeRequest struct {
	Token string `json:"token"`
}

func (r *DetokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, customValidation.TokenHandle),
	)
}

// ExtendRequest adds Hours to a token's expiry.
type ExtendRequest struct {
	Hours int `json:"hours"`
}

func (r *ExtendRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Hours, validation.Required, validation.Min(1)),
	)
}
