package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
	"github.com/allisson/tokenvault/internal/tokenization/http/dto"
	"github.com/allisson/tokenvault/internal/tokenization/usecase/mocks"
)

var testHandle = strings.Repeat("ab", 32)

func setupRouter(t *testing.T, client *authDomain.Client) (*gin.Engine, *mocks.MockTokenizationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	useCase := &mocks.MockTokenizationUseCase{}
	handler := NewTokenizationHandler(useCase, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := gin.New()
	if client != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(authHTTP.WithClient(c.Request.Context(), client))
			c.Next()
		})
	}
	router.POST("/v1/tokenize", handler.TokenizeHandler)
	router.POST("/v1/tokenize/bulk", handler.BulkTokenizeHandler)
	router.POST("/v1/detokenize", handler.DetokenizeHandler)
	router.GET("/v1/tokens/:token", handler.GetInfoHandler)
	router.POST("/v1/tokens/:token/extend", handler.ExtendHandler)
	router.POST("/v1/tokens/:token/revoke", handler.RevokeHandler)
	return router, useCase
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testClient() *authDomain.Client {
	return &authDomain.Client{ID: uuid.Must(uuid.NewV7()), Name: "crm", IsActive: true}
}

func TestTokenizeHandler(t *testing.T) {
	client := testClient()
	expiresAt := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Created", func(t *testing.T) {
		router, useCase := setupRouter(t, client)
		useCase.On("Create", mock.Anything, client.ID, tokenizationDomain.Fields{"ssn": "123-45-6789"}, 12).
			Return(&tokenizationDomain.Token{Token: testHandle, ExpiresAt: expiresAt}, nil).Once()

		w := do(router, http.MethodPost, "/v1/tokenize", `{"fields":{"ssn":"123-45-6789"},"expiry_hours":12}`)

		require.Equal(t, http.StatusCreated, w.Code)
		var response dto.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testHandle, response.Token)
		assert.True(t, expiresAt.Equal(response.ExpiresAt))
		useCase.AssertExpectations(t)
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		router, useCase := setupRouter(t, client)
		for _, body := range []string{
			`{"fields":{}}`,
			`{"fields":{"ssn":"1"},"expiry_hours":-1}`,
			`{"fields":{" ssn":"1"}}`,
		} {
			w := do(router, http.MethodPost, "/v1/tokenize", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		}
		useCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		router, _ := setupRouter(t, client)
		w := do(router, http.MethodPost, "/v1/tokenize", `{"fields":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		router, _ := setupRouter(t, nil)
		w := do(router, http.MethodPost, "/v1/tokenize", `{"fields":{"a":"b"}}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBulkTokenizeHandler(t *testing.T) {
	client := testClient()
	router, useCase := setupRouter(t, client)
	expiresAt := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

	items := []tokenizationDomain.BulkItem{
		{Fields: tokenizationDomain.Fields{"a": "1"}},
		{Fields: tokenizationDomain.Fields{"a": "1"}, ExpiryHours: 2},
		{Fields: tokenizationDomain.Fields{}},
	}
	useCase.On("CreateBulk", mock.Anything, client.ID, items).Return(&tokenizationDomain.BulkOutput{
		Results: []tokenizationDomain.BulkResult{
			{Index: 0, Status: tokenizationDomain.BulkStatusCreated, Token: testHandle, ExpiresAt: &expiresAt},
			{Index: 1, Status: tokenizationDomain.BulkStatusDuplicate, Token: testHandle},
			{Index: 2, Status: tokenizationDomain.BulkStatusFailed, Error: tokenizationDomain.ErrInvalidFields},
		},
		Summary: tokenizationDomain.BulkSummary{Total: 3, Created: 1, Duplicates: 1, Failed: 1},
	}, nil).Once()

	w := do(router, http.MethodPost, "/v1/tokenize/bulk",
		`{"items":[{"fields":{"a":"1"}},{"fields":{"a":"1"},"expiry_hours":2},{"fields":{}}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.BulkTokenizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 3)
	assert.Equal(t, "created", response.Results[0].Status)
	assert.Equal(t, "duplicate", response.Results[1].Status)
	assert.Equal(t, testHandle, response.Results[1].Token)
	assert.Contains(t, response.Results[2].Error, "invalid fields")
	assert.Equal(t, dto.BulkSummaryResponse{Total: 3, Created: 1, Duplicates: 1, Failed: 1}, response.Summary)

	w = do(router, http.MethodPost, "/v1/tokenize/bulk", `{"items":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDetokenizeHandler(t *testing.T) {
	client := testClient()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"NotFound", tokenizationDomain.ErrTokenNotFound, http.StatusNotFound},
		{"Expired", tokenizationDomain.NewExpiredError(time.Now()), http.StatusGone},
		{"DecryptionFailed", cryptoDomain.ErrDecryptionFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, useCase := setupRouter(t, client)
			useCase.On("Retrieve", mock.Anything, client.ID, testHandle).Return(nil, tt.err).Once()

			w := do(router, http.MethodPost, "/v1/detokenize", `{"token":"`+testHandle+`"}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("Success", func(t *testing.T) {
		router, useCase := setupRouter(t, client)
		useCase.On("Retrieve", mock.Anything, client.ID, testHandle).
			Return(tokenizationDomain.Fields{"ssn": "123-45-6789"}, nil).Once()

		w := do(router, http.MethodPost, "/v1/detokenize", `{"token":"`+testHandle+`"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"fields":{"ssn":"123-45-6789"}}`, w.Body.String())
	})

	t.Run("MalformedToken", func(t *testing.T) {
		router, _ := setupRouter(t, client)
		w := do(router, http.MethodPost, "/v1/detokenize", `{"token":"XYZ"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetInfoHandler(t *testing.T) {
	router, useCase := setupRouter(t, testClient())
	useCase.On("GetInfo", mock.Anything, testHandle).Return(&tokenizationDomain.Info{
		Token:         testHandle,
		OwnerID:       tokenizationDomain.SystemOwnerID,
		KeyGeneration: 3,
		State:         tokenizationDomain.StateExpired,
	}, nil).Once()

	w := do(router, http.MethodGet, "/v1/tokens/"+testHandle, "")
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "expired", response.State)
	assert.Equal(t, uint64(3), response.KeyGeneration)
	assert.Equal(t, tokenizationDomain.SystemOwnerID.String(), response.OwnerID)
	assert.NotContains(t, w.Body.String(), "envelope")
}

func TestExtendAndRevokeHandlers(t *testing.T) {
	client := testClient()
	expiresAt := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Extend", func(t *testing.T) {
		router, useCase := setupRouter(t, client)
		useCase.On("Extend", mock.Anything, client.ID, testHandle, 6).
			Return(&tokenizationDomain.Token{Token: testHandle, ExpiresAt: expiresAt}, nil).Once()

		w := do(router, http.MethodPost, "/v1/tokens/"+testHandle+"/extend", `{"hours":6}`)
		assert.Equal(t, http.StatusOK, w.Code)

		w = do(router, http.MethodPost, "/v1/tokens/"+testHandle+"/extend", `{"hours":0}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("ExtendExpired", func(t *testing.T) {
		router, useCase := setupRouter(t, client)
		useCase.On("Extend", mock.Anything, client.ID, testHandle, 1).
			Return(nil, tokenizationDomain.NewCannotExtendError(expiresAt)).Once()

		w := do(router, http.MethodPost, "/v1/tokens/"+testHandle+"/extend", `{"hours":1}`)
		assert.Equal(t, http.StatusGone, w.Code)
		assert.Contains(t, w.Body.String(), "2026-06-02T09:00:00Z")
	})

	t.Run("Revoke", func(t *testing.T) {
		router, useCase := setupRouter(t, client)
		useCase.On("Revoke", mock.Anything, client.ID, testHandle).
			Return(&tokenizationDomain.Token{Token: testHandle, ExpiresAt: expiresAt}, nil).Once()

		w := do(router, http.MethodPost, "/v1/tokens/"+testHandle+"/revoke", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), testHandle)
	})
}
