package app

import (
	"context"
	"fmt"
	"strings"

	auditHTTP "github.com/allisson/tokenvault/internal/audit/http"
	"github.com/allisson/tokenvault/internal/audit/publisher"
	auditPostgreSQL "github.com/allisson/tokenvault/internal/audit/repository"
	auditMySQL "github.com/allisson/tokenvault/internal/audit/repository/mysql"
	auditService "github.com/allisson/tokenvault/internal/audit/service"
	auditUseCase "github.com/allisson/tokenvault/internal/audit/usecase"
	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
)

type auditComponents struct {
	signer       lazy[auditService.Signer]
	eventRepo    lazy[auditUseCase.EventRepository]
	outboxRepo   lazy[auditUseCase.OutboxRepository]
	useCase      lazy[auditUseCase.AuditUseCase]
	publisher    lazy[auditUseCase.Publisher]
	relayUseCase lazy[auditUseCase.RelayUseCase]
	handler      lazy[*auditHTTP.AuditHandler]
}

// AuditSigner returns the event signer keyed from the provisioned secret.
func (c *Container) AuditSigner() (auditService.Signer, error) {
	return c.audit.signer.get(func() (auditService.Signer, error) {
		keyManager, err := c.KeyManager()
		if err != nil {
			return nil, err
		}
		key, err := keyManager.DeriveAuxiliaryKey(cryptoDomain.AuditSigningInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to derive audit signing key: %w", err)
		}
		return auditService.NewSigner(key), nil
	})
}

// AuditEventRepository returns the event repository for the configured driver.
func (c *Container) AuditEventRepository() (auditUseCase.EventRepository, error) {
	return c.audit.eventRepo.get(func() (auditUseCase.EventRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for audit event repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return auditMySQL.NewMySQLEventRepository(db), nil
		case "postgres":
			return auditPostgreSQL.NewPostgreSQLEventRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// AuditOutboxRepository returns the outbox repository for the configured driver.
func (c *Container) AuditOutboxRepository() (auditUseCase.OutboxRepository, error) {
	return c.audit.outboxRepo.get(func() (auditUseCase.OutboxRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for audit outbox repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return auditMySQL.NewMySQLOutboxRepository(db), nil
		case "postgres":
			return auditPostgreSQL.NewPostgreSQLOutboxRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// AuditUseCase returns the instrumented audit sink.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	return c.audit.useCase.get(func() (auditUseCase.AuditUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		eventRepo, err := c.AuditEventRepository()
		if err != nil {
			return nil, err
		}
		outboxRepo, err := c.AuditOutboxRepository()
		if err != nil {
			return nil, err
		}
		signer, err := c.AuditSigner()
		if err != nil {
			return nil, err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase := auditUseCase.NewAuditUseCase(txManager, eventRepo, outboxRepo, signer)
		return auditUseCase.NewAuditUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// AuditPublisher returns the relay destination selected by AUDIT_PUBLISHER.
func (c *Container) AuditPublisher() (auditUseCase.Publisher, error) {
	return c.audit.publisher.get(func() (auditUseCase.Publisher, error) {
		switch c.config.AuditPublisher {
		case "log":
			return publisher.NewLogPublisher(c.Logger()), nil
		case "kafka":
			kafka, err := publisher.NewKafkaPublisher(splitList(c.config.KafkaBrokers), c.config.KafkaTopic)
			if err != nil {
				return nil, err
			}
			c.onShutdown("kafka publisher", func(context.Context) error {
				kafka.Close()
				return nil
			})
			return kafka, nil
		default:
			return nil, fmt.Errorf("unsupported audit publisher: %s", c.config.AuditPublisher)
		}
	})
}

// AuditRelayUseCase returns the outbox relay worker.
func (c *Container) AuditRelayUseCase() (auditUseCase.RelayUseCase, error) {
	return c.audit.relayUseCase.get(func() (auditUseCase.RelayUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		outboxRepo, err := c.AuditOutboxRepository()
		if err != nil {
			return nil, err
		}
		publisher, err := c.AuditPublisher()
		if err != nil {
			return nil, err
		}
		return auditUseCase.NewRelayUseCase(
			auditUseCase.RelayConfig{
				Interval:  c.config.AuditRelayInterval,
				BatchSize: c.config.AuditRelayBatchSize,
			},
			txManager,
			outboxRepo,
			publisher,
			c.Logger(),
		), nil
	})
}

// AuditHandler returns the GET /v1/audit-logs handler.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	return c.audit.handler.get(func() (*auditHTTP.AuditHandler, error) {
		useCase, err := c.AuditUseCase()
		if err != nil {
			return nil, err
		}
		return auditHTTP.NewAuditHandler(useCase, c.Logger()), nil
	})
}

// splitList splits a comma-separated setting, dropping blanks.
func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
