package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
	tokenizationHTTP "github.com/allisson/tokenvault/internal/tokenization/http"
	tokenizationPostgreSQL "github.com/allisson/tokenvault/internal/tokenization/repository"
	tokenizationMySQL "github.com/allisson/tokenvault/internal/tokenization/repository/mysql"
	tokenizationService "github.com/allisson/tokenvault/internal/tokenization/service"
	tokenizationUseCase "github.com/allisson/tokenvault/internal/tokenization/usecase"
)

type tokenizationComponents struct {
	tokenRepo     lazy[tokenizationUseCase.TokenRepository]
	fingerprinter lazy[tokenizationService.Fingerprinter]
	useCase       lazy[tokenizationUseCase.TokenizationUseCase]
	handler       lazy[*tokenizationHTTP.TokenizationHandler]
}

// TokenRepository returns the token repository for the configured driver.
func (c *Container) TokenRepository() (tokenizationUseCase.TokenRepository, error) {
	return c.tokenization.tokenRepo.get(func() (tokenizationUseCase.TokenRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for token repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return tokenizationMySQL.NewMySQLTokenRepository(db), nil
		case "postgres":
			return tokenizationPostgreSQL.NewPostgreSQLTokenRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// Fingerprinter returns the duplicate-detection fingerprinter.
func (c *Container) Fingerprinter() (tokenizationService.Fingerprinter, error) {
	return c.tokenization.fingerprinter.get(func() (tokenizationService.Fingerprinter, error) {
		keyManager, err := c.KeyManager()
		if err != nil {
			return nil, err
		}
		key, err := keyManager.DeriveAuxiliaryKey(cryptoDomain.FingerprintInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to derive fingerprint key: %w", err)
		}
		return tokenizationService.NewHMACFingerprinter(key), nil
	})
}

// TokenizationUseCase returns the instrumented token lifecycle manager.
func (c *Container) TokenizationUseCase() (tokenizationUseCase.TokenizationUseCase, error) {
	return c.tokenization.useCase.get(func() (tokenizationUseCase.TokenizationUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		tokenRepo, err := c.TokenRepository()
		if err != nil {
			return nil, err
		}
		codec, err := c.EnvelopeCodec()
		if err != nil {
			return nil, err
		}
		fingerprinter, err := c.Fingerprinter()
		if err != nil {
			return nil, err
		}
		audit, err := c.AuditUseCase()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		useCase := tokenizationUseCase.NewTokenizationUseCase(
			tokenizationUseCase.Config{
				DefaultExpiryHours: c.config.TokenDefaultExpiryHours,
				MaxExpiryHours:     c.config.TokenMaxExpiryHours,
				BulkMaxItems:       c.config.BulkMaxItems,
				BulkConcurrency:    c.config.BulkConcurrency,
			},
			txManager,
			tokenRepo,
			codec,
			tokenizationService.NewHandleGenerator(),
			fingerprinter,
			audit,
		)
		return tokenizationUseCase.NewTokenizationUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// TokenizationHandler returns the tokenization HTTP handlers.
func (c *Container) TokenizationHandler() (*tokenizationHTTP.TokenizationHandler, error) {
	return c.tokenization.handler.get(func() (*tokenizationHTTP.TokenizationHandler, error) {
		useCase, err := c.TokenizationUseCase()
		if err != nil {
			return nil, err
		}
		return tokenizationHTTP.NewTokenizationHandler(useCase, c.Logger()), nil
	})
}
