// Package usecase computes tokenization, compliance and scanner reports.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"
)

// ReportRepository runs the SQL aggregates behind reports.
type ReportRepository interface {
	TokenStats(
		ctx context.Context,
		ownerID uuid.UUID,
		now time.Time,
		maxLifespanHours int,
		retentionCutoff time.Time,
	) (*reportingDomain.TokenStats, error)

	CountUnusedTokens(ctx context.Context, ownerID uuid.UUID) (int64, error)

	ScanStats(ctx context.Context, ownerID uuid.UUID, from, to *time.Time) (*reportingDomain.ScanStats, error)
}

// AuditCounter counts audit events by action.
type AuditCounter interface {
	CountByAction(
		ctx context.Context,
		ownerID *uuid.UUID,
		from, to *time.Time,
	) (map[auditDomain.Action]int64, error)
}

// ReportingUseCase builds reports. Token reports are scoped to one owner; scanner
// reports cover the system owner.
type ReportingUseCase interface {
	TokenizationMetrics(
		ctx context.Context,
		ownerID uuid.UUID,
		from, to *time.Time,
	) (*reportingDomain.TokenizationMetrics, error)

	ComplianceMetrics(ctx context.Context, ownerID uuid.UUID) (*reportingDomain.ComplianceMetrics, error)

	ScannerMetrics(ctx context.Context, from, to *time.Time) (*reportingDomain.ScannerMetrics, error)
}
