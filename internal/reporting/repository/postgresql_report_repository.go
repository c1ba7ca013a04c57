// Package repository computes report aggregates in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"
)

// PostgreSQLReportRepository runs report aggregates against PostgreSQL.
type PostgreSQLReportRepository struct {
	db *sql.DB
}

// NewPostgreSQLReportRepository creates a PostgreSQLReportRepository.
func NewPostgreSQLReportRepository(db *sql.DB) *PostgreSQLReportRepository {
	return &PostgreSQLReportRepository{db: db}
}

// TokenStats aggregates the tokens of ownerID as of now.
func (p *PostgreSQLReportRepository) TokenStats(
	ctx context.Context,
	ownerID uuid.UUID,
	now time.Time,
	maxLifespanHours int,
	retentionCutoff time.Time,
) (*reportingDomain.TokenStats, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE expires_at >= $2),
			COUNT(*) FILTER (WHERE expires_at < $2),
			COUNT(*) FILTER (WHERE expires_at <= created_at + make_interval(hours => $3::int)),
			COUNT(*) FILTER (WHERE created_at <= $4 AND expires_at >= $2),
			COALESCE(AVG(EXTRACT(EPOCH FROM (expires_at - created_at))) / 3600, 0)::double precision
		FROM tokens
		WHERE owner_id = $1`

	var stats reportingDomain.TokenStats
	err := querier.QueryRowContext(ctx, query, ownerID, now, maxLifespanHours, retentionCutoff).Scan(
		&stats.Total,
		&stats.Active,
		&stats.Expired,
		&stats.WithinPolicy,
		&stats.RetentionViolations,
		&stats.AverageLifespanHours,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate tokens")
	}
	return &stats, nil
}

// CountUnusedTokens counts tokens of ownerID that were never detokenized.
func (p *PostgreSQLReportRepository) CountUnusedTokens(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM tokens t
		WHERE t.owner_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM audit_events e
			WHERE e.action = $2 AND e.details->>'token' = t.token
		)`

	var count int64
	if err := querier.QueryRowContext(ctx, query, ownerID, string(auditDomain.ActionDetokenize)).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count unused tokens")
	}
	return count, nil
}

// ScanStats aggregates the scan events recorded by ownerID in the optional range.
func (p *PostgreSQLReportRepository) ScanStats(
	ctx context.Context,
	ownerID uuid.UUID,
	from, to *time.Time,
) (*reportingDomain.ScanStats, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := rangeFilter(ownerID, auditDomain.ActionScanCompleted, from, to)
	query := fmt.Sprintf(`SELECT COUNT(*),
			COALESCE(AVG((details->>'duration_ms')::double precision), 0)
		FROM audit_events %s`, where)

	stats := reportingDomain.ScanStats{DetectionsByType: make(map[string]int64)}
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&stats.Scans, &stats.AverageDurationMS); err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate scans")
	}

	where, args = rangeFilter(ownerID, auditDomain.ActionScanTokenize, from, to)
	query = fmt.Sprintf(`SELECT COALESCE(details->>'info_type', 'unknown'), COUNT(*)
		FROM audit_events %s
		GROUP BY 1`, where)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate detections")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var infoType string
		var count int64
		if err := rows.Scan(&infoType, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan detection count")
		}
		stats.DetectionsByType[infoType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate detection counts")
	}
	return &stats, nil
}

func rangeFilter(ownerID uuid.UUID, action auditDomain.Action, from, to *time.Time) (string, []any) {
	args := []any{ownerID, string(action)}
	clauses := []string{"owner_id = $1", "action = $2"}

	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
