package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenRequest_Validate(t *testing.T) {
	id := uuid.Must(uuid.NewV7()).String()

	tests := []struct {
		name    string
		req     IssueTokenRequest
		wantErr string
	}{
		{"valid", IssueTokenRequest{ClientID: id, ClientSecret: "secret"}, ""},
		{"missing client id", IssueTokenRequest{ClientSecret: "secret"}, "client_id"},
		{"client id not a uuid", IssueTokenRequest{ClientID: "abc", ClientSecret: "secret"}, "must be a valid UUID"},
		{"blank secret", IssueTokenRequest{ClientID: id, ClientSecret: "   "}, "client_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, id, tt.req.ParsedClientID().String())
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewIssueTokenResponse(t *testing.T) {
	local := time.Date(2026, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	resp := NewIssueTokenResponse("tok", local)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, time.UTC, resp.ExpiresAt.Location())
	assert.True(t, local.Equal(resp.ExpiresAt))
}
