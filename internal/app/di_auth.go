package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	authPostgreSQL "github.com/allisson/tokenvault/internal/auth/repository"
	authMySQL "github.com/allisson/tokenvault/internal/auth/repository/mysql"
	authService "github.com/allisson/tokenvault/internal/auth/service"
	authUseCase "github.com/allisson/tokenvault/internal/auth/usecase"
	"github.com/allisson/tokenvault/internal/ratelimit"
)

type authComponents struct {
	secretService lazy[authService.SecretService]
	tokenService  lazy[authService.TokenService]
	clientRepo    lazy[authUseCase.ClientRepository]
	tokenRepo     lazy[authUseCase.TokenRepository]
	clientUseCase lazy[authUseCase.ClientUseCase]
	tokenUseCase  lazy[authUseCase.TokenUseCase]
	tokenHandler  lazy[*authHTTP.TokenHandler]
	redisClient   lazy[*redis.Client]
	clientLimiter lazy[ratelimit.Limiter]
	ipLimiter     lazy[ratelimit.Limiter]
}

// SecretService returns the client secret hasher.
func (c *Container) SecretService() authService.SecretService {
	service, _ := c.auth.secretService.get(func() (authService.SecretService, error) {
		return authService.NewSecretService(), nil
	})
	return service
}

// TokenService returns the bearer token generator.
func (c *Container) TokenService() authService.TokenService {
	service, _ := c.auth.tokenService.get(func() (authService.TokenService, error) {
		return authService.NewTokenService(), nil
	})
	return service
}

// ClientRepository returns the client repository for the configured driver.
func (c *Container) ClientRepository() (authUseCase.ClientRepository, error) {
	return c.auth.clientRepo.get(func() (authUseCase.ClientRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for client repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return authMySQL.NewMySQLClientRepository(db), nil
		case "postgres":
			return authPostgreSQL.NewPostgreSQLClientRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// AuthTokenRepository returns the bearer token repository for the configured driver.
func (c *Container) AuthTokenRepository() (authUseCase.TokenRepository, error) {
	return c.auth.tokenRepo.get(func() (authUseCase.TokenRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for auth token repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return authMySQL.NewMySQLTokenRepository(db), nil
		case "postgres":
			return authPostgreSQL.NewPostgreSQLTokenRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// ClientUseCase returns the instrumented client use case.
func (c *Container) ClientUseCase() (authUseCase.ClientUseCase, error) {
	return c.auth.clientUseCase.get(func() (authUseCase.ClientUseCase, error) {
		clientRepo, err := c.ClientRepository()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase := authUseCase.NewClientUseCase(clientRepo, c.SecretService())
		return authUseCase.NewClientUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// TokenUseCase returns the instrumented bearer token use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	return c.auth.tokenUseCase.get(func() (authUseCase.TokenUseCase, error) {
		clientRepo, err := c.ClientRepository()
		if err != nil {
			return nil, err
		}
		tokenRepo, err := c.AuthTokenRepository()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase := authUseCase.NewTokenUseCase(
			c.config.AuthTokenExpiration,
			clientRepo,
			tokenRepo,
			c.SecretService(),
			c.TokenService(),
		)
		return authUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// TokenHandler returns the POST /v1/token handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	return c.auth.tokenHandler.get(func() (*authHTTP.TokenHandler, error) {
		tokenUseCase, err := c.TokenUseCase()
		if err != nil {
			return nil, err
		}
		return authHTTP.NewTokenHandler(tokenUseCase, c.Logger()), nil
	})
}

// AuthenticationMiddleware returns the bearer token middleware.
func (c *Container) AuthenticationMiddleware() (gin.HandlerFunc, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}
	return authHTTP.AuthenticationMiddleware(tokenUseCase, c.TokenService(), c.Logger()), nil
}

// RedisClient returns the client shared by Redis-backed components.
func (c *Container) RedisClient() (*redis.Client, error) {
	return c.auth.redisClient.get(func() (*redis.Client, error) {
		client, err := ratelimit.NewRedisClient(c.config.RedisURL)
		if err != nil {
			return nil, err
		}
		c.onShutdown("redis", func(context.Context) error { return client.Close() })
		return client, nil
	})
}

// ClientRateLimiter returns the per-client limiter, or nil when rate limiting is disabled.
func (c *Container) ClientRateLimiter() (ratelimit.Limiter, error) {
	return c.auth.clientLimiter.get(func() (ratelimit.Limiter, error) {
		return c.newRateLimiter("tokenvault:ratelimit:client:")
	})
}

// IPRateLimiter returns the per-IP limiter guarding token issuance, or nil when
// rate limiting is disabled.
func (c *Container) IPRateLimiter() (ratelimit.Limiter, error) {
	return c.auth.ipLimiter.get(func() (ratelimit.Limiter, error) {
		return c.newRateLimiter("tokenvault:ratelimit:ip:")
	})
}

func (c *Container) newRateLimiter(keyPrefix string) (ratelimit.Limiter, error) {
	if !c.config.RateLimitEnabled {
		return nil, nil
	}

	policy := ratelimit.Policy{
		RequestsPerSecond: c.config.RateLimitRequestsPerSec,
		Burst:             c.config.RateLimitBurst,
	}

	switch c.config.RateLimitBackend {
	case "memory":
		return ratelimit.NewMemoryLimiter(policy), nil
	case "redis":
		client, err := c.RedisClient()
		if err != nil {
			return nil, err
		}
		return ratelimit.NewRedisLimiter(client, policy, keyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", c.config.RateLimitBackend)
	}
}
