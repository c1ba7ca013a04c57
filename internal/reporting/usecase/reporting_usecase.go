package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

// Config holds report policy. Zero values take the defaults.
type Config struct {
	// MaxExpiryHours is the expiry policy tokens are checked against.
	MaxExpiryHours  int
	RetentionPeriod time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxExpiryHours <= 0 {
		c.MaxExpiryHours = 87600
	}
	if c.RetentionPeriod <= 0 {
		c.RetentionPeriod = reportingDomain.RetentionPeriod
	}
	return c
}

// Option configures the reporting use case.
type Option func(*reportingUseCase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *reportingUseCase) {
		r.now = now
	}
}

type reportingUseCase struct {
	config Config
	repo   ReportRepository
	audit  AuditCounter
	now    func() time.Time
}

// NewReportingUseCase creates a ReportingUseCase.
func NewReportingUseCase(config Config, repo ReportRepository, audit AuditCounter, opts ...Option) ReportingUseCase {
	r := &reportingUseCase{
		config: config.withDefaults(),
		repo:   repo,
		audit:  audit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *reportingUseCase) tokenStats(ctx context.Context, ownerID uuid.UUID) (*reportingDomain.TokenStats, error) {
	now := r.now().UTC()
	return r.repo.TokenStats(ctx, ownerID, now, r.config.MaxExpiryHours, now.Add(-r.config.RetentionPeriod))
}

// TokenizationMetrics reports token counts as of now. The range only bounds the
// revoke events counted.
func (r *reportingUseCase) TokenizationMetrics(
	ctx context.Context,
	ownerID uuid.UUID,
	from, to *time.Time,
) (*reportingDomain.TokenizationMetrics, error) {
	stats, err := r.tokenStats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts, err := r.audit.CountByAction(ctx, &ownerID, from, to)
	if err != nil {
		return nil, err
	}

	return &reportingDomain.TokenizationMetrics{
		TotalTokens:               stats.Total,
		ActiveTokens:              stats.Active,
		ExpiredTokens:             stats.Expired,
		RevokedTokens:             counts[auditDomain.ActionRevoke],
		AverageTokenLifespanHours: stats.AverageLifespanHours,
	}, nil
}

func (r *reportingUseCase) ComplianceMetrics(
	ctx context.Context,
	ownerID uuid.UUID,
) (*reportingDomain.ComplianceMetrics, error) {
	stats, err := r.tokenStats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	unused, err := r.repo.CountUnusedTokens(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	systemOwner := tokenizationDomain.SystemOwnerID
	scanCounts, err := r.audit.CountByAction(ctx, &systemOwner, nil, nil)
	if err != nil {
		return nil, err
	}

	metrics := &reportingDomain.ComplianceMetrics{
		TokenExpiryCompliance:   100,
		DataRetentionCompliance: 100,
	}
	if stats.Total > 0 {
		total := float64(stats.Total)
		metrics.TokenExpiryCompliance = float64(stats.WithinPolicy) / total * 100
		metrics.DataRetentionCompliance = (1 - float64(stats.RetentionViolations)/total) * 100
		metrics.UnusedTokenPercentage = float64(unused) / total * 100
	}
	if scanCounts[auditDomain.ActionScanCompleted] > 0 {
		metrics.ScanningCoverage = 100
	}
	return metrics, nil
}

func (r *reportingUseCase) ScannerMetrics(
	ctx context.Context,
	from, to *time.Time,
) (*reportingDomain.ScannerMetrics, error) {
	stats, err := r.repo.ScanStats(ctx, tokenizationDomain.SystemOwnerID, from, to)
	if err != nil {
		return nil, err
	}

	var findings int64
	for _, count := range stats.DetectionsByType {
		findings += count
	}

	return &reportingDomain.ScannerMetrics{
		TotalScans:            stats.Scans,
		TotalFindings:         findings,
		AverageScanDurationMS: stats.AverageDurationMS,
		DetectionsByType:      stats.DetectionsByType,
	}, nil
}
