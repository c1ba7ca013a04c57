package app

import (
	"context"
	"fmt"
	"time"

	scannerHTTP "github.com/allisson/tokenvault/internal/scanner/http"
	scannerService "github.com/allisson/tokenvault/internal/scanner/service"
	scannerUseCase "github.com/allisson/tokenvault/internal/scanner/usecase"
)

type scannerComponents struct {
	sources   lazy[[]scannerUseCase.ObjectSource]
	useCase   lazy[scannerUseCase.ScannerUseCase]
	scheduler lazy[*scannerUseCase.Scheduler]
	handler   lazy[*scannerHTTP.ScannerHandler]
}

// ScanSources opens the buckets selected by SCANNER_SOURCE. An empty result
// means scanning is not configured.
func (c *Container) ScanSources() ([]scannerUseCase.ObjectSource, error) {
	return c.scanner.sources.get(func() ([]scannerUseCase.ObjectSource, error) {
		switch c.config.ScannerSource {
		case "blob":
			return c.openBlobSources()
		case "minio":
			return c.openMinioSources()
		default:
			return nil, fmt.Errorf("unsupported scanner source: %s", c.config.ScannerSource)
		}
	})
}

func (c *Container) openBlobSources() ([]scannerUseCase.ObjectSource, error) {
	var sources []scannerUseCase.ObjectSource
	for _, url := range splitList(c.config.ScannerBucketURLs) {
		source, err := scannerService.OpenBlobSource(context.Background(), url)
		if err != nil {
			return nil, err
		}
		c.onShutdown("bucket "+url, func(context.Context) error { return source.Close() })
		sources = append(sources, source)
	}
	return sources, nil
}

func (c *Container) openMinioSources() ([]scannerUseCase.ObjectSource, error) {
	buckets := splitList(c.config.ScannerMinioBuckets)
	if len(buckets) == 0 {
		return nil, nil
	}

	client, err := scannerService.NewMinioClient(scannerService.MinioConfig{
		Endpoint:  c.config.ScannerMinioEndpoint,
		AccessKey: c.config.ScannerMinioAccessKey,
		SecretKey: c.config.ScannerMinioSecretKey,
		UseSSL:    c.config.ScannerMinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	sources := make([]scannerUseCase.ObjectSource, 0, len(buckets))
	for _, bucket := range buckets {
		sources = append(sources, scannerService.NewMinioSource(client, bucket))
	}
	return sources, nil
}

// ScannerUseCase returns the instrumented scanner.
func (c *Container) ScannerUseCase() (scannerUseCase.ScannerUseCase, error) {
	return c.scanner.useCase.get(func() (scannerUseCase.ScannerUseCase, error) {
		sources, err := c.ScanSources()
		if err != nil {
			return nil, err
		}
		tokenizer, err := c.TokenizationUseCase()
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

		useCase := scannerUseCase.NewScannerUseCase(
			scannerUseCase.Config{
				MaxObjectBytes:   int64(c.config.ScannerMaxObjectBytes),
				TokenExpiryHours: c.config.ScannerTokenExpiryHours,
			},
			sources,
			scannerService.NewInspector(scannerService.DefaultDetectors()...),
			tokenizer,
			audit,
			c.Logger(),
		)
		return scannerUseCase.NewScannerUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// ScannerScheduler returns the periodic scan driver. It is inert unless
// SCANNER_ENABLED is set.
func (c *Container) ScannerScheduler() (*scannerUseCase.Scheduler, error) {
	return c.scanner.scheduler.get(func() (*scannerUseCase.Scheduler, error) {
		useCase, err := c.ScannerUseCase()
		if err != nil {
			return nil, err
		}
		var interval time.Duration
		if c.config.ScannerEnabled {
			interval = c.config.ScannerInterval
		}
		return scannerUseCase.NewScheduler(interval, useCase, c.Logger()), nil
	})
}

// ScannerHandler returns the scanner HTTP handlers, or nil when no source is configured.
func (c *Container) ScannerHandler() (*scannerHTTP.ScannerHandler, error) {
	return c.scanner.handler.get(func() (*scannerHTTP.ScannerHandler, error) {
		sources, err := c.ScanSources()
		if err != nil {
			return nil, err
		}
		if len(sources) == 0 {
			return nil, nil
		}
		useCase, err := c.ScannerUseCase()
		if err != nil {
			return nil, err
		}
		scheduler, err := c.ScannerScheduler()
		if err != nil {
			return nil, err
		}
		return scannerHTTP.NewScannerHandler(useCase, scheduler, c.Logger()), nil
	})
}
