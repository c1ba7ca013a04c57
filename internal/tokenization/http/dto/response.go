package dto

import (
	"time"

	apperrors "github.com/allisson/tokenvault/internal/errors"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

// TokenResponse is returned by tokenize, extend and revoke.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func MapTokenToResponse(token *tokenizationDomain.Token) TokenResponse {
	return TokenResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}
}

// DetokenizeResponse carries the plaintext fields.
type DetokenizeResponse struct {
	Fields map[string]string `json:"fields"`
}

// TokenInfoResponse is token metadata without plaintext.
type TokenInfoResponse struct {
	Token         string    `json:"token"`
	OwnerID       string    `json:"owner_id"`
	KeyGeneration uint64    `json:"key_generation"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func MapInfoToResponse(info *tokenizationDomain.Info) TokenInfoResponse {
	return TokenInfoResponse{
		Token:         info.Token,
		OwnerID:       info.OwnerID.String(),
		KeyGeneration: info.KeyGeneration,
		State:         string(info.State),
		CreatedAt:     info.CreatedAt,
		ExpiresAt:     info.ExpiresAt,
	}
}

// BulkResultResponse reports one bulk item.
type BulkResultResponse struct {
	Index     int        `json:"index"`
	Status    string     `json:"status"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// BulkSummaryResponse aggregates bulk outcomes.
type BulkSummaryResponse struct {
	Total      int `json:"total"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// BulkTokenizeResponse is the bulk tokenize reply. Results follow request order.
type BulkTokenizeResponse struct {
	Results []BulkResultResponse `json:"results"`
	Summary BulkSummaryResponse  `json:"summary"`
}

// MapBulkOutputToResponse converts a bulk output. Only input errors are described;
// other failures carry a generic message.
func MapBulkOutputToResponse(output *tokenizationDomain.BulkOutput) BulkTokenizeResponse {
	results := make([]BulkResultResponse, len(output.Results))
	for i, r := range output.Results {
		results[i] = BulkResultResponse{
			Index:     r.Index,
			Status:    string(r.Status),
			Token:     r.Token,
			ExpiresAt: r.ExpiresAt,
		}
		if r.Error != nil {
			results[i].Error = "internal error"
			if apperrors.Is(r.Error, apperrors.ErrInvalidInput) {
				results[i].Error = r.Error.Error()
			}
		}
	}
	return BulkTokenizeResponse{
		Results: results,
		Summary: BulkSummaryResponse{
			Total:      output.Summary.Total,
			Created:    output.Summary.Created,
			Duplicates: output.Summary.Duplicates,
			Failed:     output.Summary.Failed,
		},
	}
}
