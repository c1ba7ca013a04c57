package app

import (
	"fmt"

	reportingHTTP "github.com/allisson/tokenvault/internal/reporting/http"
	reportingPostgreSQL "github.com/allisson/tokenvault/internal/reporting/repository"
	reportingMySQL "github.com/allisson/tokenvault/internal/reporting/repository/mysql"
	reportingUseCase "github.com/allisson/tokenvault/internal/reporting/usecase"
)

type reportingComponents struct {
	repo    lazy[reportingUseCase.ReportRepository]
	useCase lazy[reportingUseCase.ReportingUseCase]
	handler lazy[*reportingHTTP.ReportHandler]
}

// ReportRepository returns the aggregate query repository for the configured driver.
func (c *Container) ReportRepository() (reportingUseCase.ReportRepository, error) {
	return c.reporting.repo.get(func() (reportingUseCase.ReportRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for report repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			return reportingMySQL.NewMySQLReportRepository(db), nil
		case "postgres":
			return reportingPostgreSQL.NewPostgreSQLReportRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
}

// ReportingUseCase returns the instrumented reporting use case.
func (c *Container) ReportingUseCase() (reportingUseCase.ReportingUseCase, error) {
	return c.reporting.useCase.get(func() (reportingUseCase.ReportingUseCase, error) {
		repo, err := c.ReportRepository()
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
		useCase := reportingUseCase.NewReportingUseCase(
			reportingUseCase.Config{MaxExpiryHours: c.config.TokenMaxExpiryHours},
			repo,
			audit,
		)
		return reportingUseCase.NewReportingUseCaseWithMetrics(useCase, businessMetrics), nil
	})
}

// ReportHandler returns the /v1/reports handlers.
func (c *Container) ReportHandler() (*reportingHTTP.ReportHandler, error) {
	return c.reporting.handler.get(func() (*reportingHTTP.ReportHandler, error) {
		useCase, err := c.ReportingUseCase()
		if err != nil {
			return nil, err
		}
		return reportingHTTP.NewReportHandler(useCase, c.Logger()), nil
	})
}
