package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenvault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/tokenvault/internal/crypto/usecase"
)

type cryptoComponents struct {
	kmsService        lazy[cryptoService.KMSService]
	keyManager        lazy[*cryptoService.KeyManager]
	codec             lazy[*cryptoService.EnvelopeCodec]
	rotationUseCase   lazy[cryptoUseCase.RotationUseCase]
	rotationScheduler lazy[*cryptoUseCase.Scheduler]
}

// KMSService returns the gocloud.dev/secrets keeper factory.
func (c *Container) KMSService() cryptoService.KMSService {
	kms, _ := c.crypto.kmsService.get(func() (cryptoService.KMSService, error) {
		return cryptoService.NewKMSService(), nil
	})
	return kms
}

// KeyManager returns the key manager seeded from MASTER_SECRET, unwrapped
// through KMS_KEY_URI when set. Key material is zeroed on Shutdown.
func (c *Container) KeyManager() (*cryptoService.KeyManager, error) {
	return c.crypto.keyManager.get(func() (*cryptoService.KeyManager, error) {
		secret, err := cryptoService.LoadMasterSecret(
			context.Background(),
			c.KMSService(),
			c.config.MasterSecret,
			c.config.KMSKeyURI,
			c.Logger(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load master secret: %w", err)
		}
		defer cryptoDomain.Zero(secret)

		keyManager, err := cryptoService.NewKeyManager(
			secret,
			cryptoService.WithRetentionDepth(c.config.KeyRetentionDepth),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create key manager: %w", err)
		}
		c.onShutdown("key manager", func(context.Context) error {
			keyManager.Close()
			return nil
		})
		return keyManager, nil
	})
}

// EnvelopeCodec returns the codec sealing token values.
func (c *Container) EnvelopeCodec() (*cryptoService.EnvelopeCodec, error) {
	return c.crypto.codec.get(func() (*cryptoService.EnvelopeCodec, error) {
		keyManager, err := c.KeyManager()
		if err != nil {
			return nil, err
		}
		return cryptoService.NewEnvelopeCodec(keyManager), nil
	})
}

// RotationUseCase returns the instrumented master key rotation use case.
func (c *Container) RotationUseCase() (cryptoUseCase.RotationUseCase, error) {
	return c.crypto.rotationUseCase.get(func() (cryptoUseCase.RotationUseCase, error) {
		keyManager, err := c.KeyManager()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase := cryptoUseCase.NewRotationUseCase(keyManager, c.Logger())
		return cryptoUseCase.NewRotationUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// RotationScheduler returns the scheduler rotating every KEY_ROTATION_INTERVAL_HOURS.
func (c *Container) RotationScheduler() (*cryptoUseCase.Scheduler, error) {
	return c.crypto.rotationScheduler.get(func() (*cryptoUseCase.Scheduler, error) {
		useCase, err := c.RotationUseCase()
		if err != nil {
			return nil, err
		}
		return cryptoUseCase.NewScheduler(
			cryptoUseCase.Config{Interval: c.config.KeyRotationInterval},
			useCase,
			c.Logger(),
		), nil
	})
}
