package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	authMocks "github.com/allisson/tokenvault/internal/auth/usecase/mocks"
)

func authRouter(tokenUseCase *authMocks.MockTokenUseCase, tokenService *authMocks.MockTokenService) *gin.Engine {
	router := gin.New()
	router.Use(AuthenticationMiddleware(tokenUseCase, tokenService, testLogger()))
	router.GET("/protected", func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, client.ID.String())
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	client := &authDomain.Client{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "payments",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("valid token", func(t *testing.T) {
		tokenUseCase := &authMocks.MockTokenUseCase{}
		tokenService := &authMocks.MockTokenService{}
		tokenService.On("HashToken", "plain-token").Return("hash").Once()
		tokenUseCase.On("Authenticate", mock.Anything, "hash").Return(client, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer plain-token")
		w := httptest.NewRecorder()
		authRouter(tokenUseCase, tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, client.ID.String(), w.Body.String())
		tokenUseCase.AssertExpectations(t)
		tokenService.AssertExpectations(t)
	})

	t.Run("case insensitive scheme", func(t *testing.T) {
		tokenUseCase := &authMocks.MockTokenUseCase{}
		tokenService := &authMocks.MockTokenService{}
		tokenService.On("HashToken", "plain-token").Return("hash").Once()
		tokenUseCase.On("Authenticate", mock.Anything, "hash").Return(client, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bEaReR plain-token")
		w := httptest.NewRecorder()
		authRouter(tokenUseCase, tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	rejected := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"scheme only", "Bearer "},
		{"blank token", "Bearer    "},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			tokenUseCase := &authMocks.MockTokenUseCase{}
			tokenService := &authMocks.MockTokenService{}

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(tokenUseCase, tokenService).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			tokenUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
		})
	}

	failures := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid token", authDomain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive client", authDomain.ErrClientInactive, http.StatusForbidden},
		{"repository failure", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			tokenUseCase := &authMocks.MockTokenUseCase{}
			tokenService := &authMocks.MockTokenService{}
			tokenService.On("HashToken", "plain-token").Return("hash").Once()
			tokenUseCase.On("Authenticate", mock.Anything, "hash").Return(nil, tt.err).Once()

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer plain-token")
			w := httptest.NewRecorder()
			authRouter(tokenUseCase, tokenService).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetClient_Empty(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")
	client, ok := GetClient(c.Request.Context())
	assert.False(t, ok)
	assert.Nil(t, client)

	ctx := WithClient(c.Request.Context(), nil)
	_, ok = GetClient(ctx)
	assert.False(t, ok)
}
