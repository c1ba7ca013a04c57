package dto

import "time"

// IssueTokenResponse is returned once; only the token hash is stored.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewIssueTokenResponse(token string, expiresAt time.Time) IssueTokenResponse {
	return IssueTokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt.UTC()}
}
