package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/tokenvault/internal/auth/service"
	authUseCase "github.com/allisson/tokenvault/internal/auth/usecase"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	"github.com/allisson/tokenvault/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware resolves the client owning the bearer token in the
// Authorization header and stores it in the request context. The client ID is
// the owner of every token the request creates.
//
// Responses:
//   - Missing header, non-Bearer scheme or empty token → 401 Unauthorized
//   - Unknown, expired or revoked bearer token → 401 Unauthorized
//   - Disabled client → 403 Forbidden (from TokenUseCase.Authenticate)
//   - Other errors → 500 Internal Server Error
//
// The scheme is matched case-insensitively. Only the SHA-256 hash of the bearer
// token reaches storage.
//
// Usage:
//
//	v1 := router.Group("/v1", AuthenticationMiddleware(tokenUseCase, tokenService, logger))
//	v1.POST("/tokenize", func(c *gin.Context) {
//	    client, ok := GetClient(c.Request.Context())
//	    if !ok {
//	        c.AbortWithStatus(http.StatusUnauthorized)
//	        return
//	    }
//	    // client.ID owns the created token
//	})
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) <= len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		client, err := tokenUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainToken))
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
		c.Next()
	}
}
