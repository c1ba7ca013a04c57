// Package mysql computes report aggregates in MySQL.
package mysql

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

// MySQLReportRepository runs report aggregates against MySQL.
type MySQLReportRepository struct {
	db *sql.DB
}

// NewMySQLReportRepository creates a MySQLReportRepository.
func NewMySQLReportRepository(db *sql.DB) *MySQLReportRepository {
	return &MySQLReportRepository{db: db}
}

// TokenStats aggregates the tokens of ownerID as of now.
func (m *MySQLReportRepository) TokenStats(
	ctx context.Context,
	ownerID uuid.UUID,
	now time.Time,
	maxLifespanHours int,
	retentionCutoff time.Time,
) (*reportingDomain.TokenStats, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT
			COUNT(*),
			COALESCE(SUM(expires_at >= ?), 0),
			COALESCE(SUM(expires_at < ?), 0),
			COALESCE(SUM(expires_at <= DATE_ADD(created_at, INTERVAL ? HOUR)), 0),
			COALESCE(SUM(created_at <= ? AND expires_at >= ?), 0),
			COALESCE(AVG(TIMESTAMPDIFF(MICROSECOND, created_at, expires_at)) / 3600000000, 0)
		FROM tokens
		WHERE owner_id = ?`

	var stats reportingDomain.TokenStats
	err = querier.QueryRowContext(ctx, query, now, now, maxLifespanHours, retentionCutoff, now, owner).Scan(
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
func (m *MySQLReportRepository) CountUnusedTokens(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT COUNT(*) FROM tokens t
		WHERE t.owner_id = ?
		AND NOT EXISTS (
			SELECT 1 FROM audit_events e
			WHERE e.action = ? AND e.details->>'$.token' = t.token
		)`

	var count int64
	if err := querier.QueryRowContext(ctx, query, owner, string(auditDomain.ActionDetokenize)).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count unused tokens")
	}
	return count, nil
}

// ScanStats aggregates the scan events recorded by ownerID in the optional range.
func (m *MySQLReportRepository) ScanStats(
	ctx context.Context,
	ownerID uuid.UUID,
	from, to *time.Time,
) (*reportingDomain.ScanStats, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	where, args := rangeFilter(owner, auditDomain.ActionScanCompleted, from, to)
	query := fmt.Sprintf(`SELECT COUNT(*),
			COALESCE(AVG(CAST(details->>'$.duration_ms' AS DOUBLE)), 0)
		FROM audit_events %s`, where)

	stats := reportingDomain.ScanStats{DetectionsByType: make(map[string]int64)}
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&stats.Scans, &stats.AverageDurationMS); err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate scans")
	}

	where, args = rangeFilter(owner, auditDomain.ActionScanTokenize, from, to)
	query = fmt.Sprintf(`SELECT COALESCE(details->>'$.info_type', 'unknown') AS info_type, COUNT(*)
		FROM audit_events %s
		GROUP BY info_type`, where)

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

func rangeFilter(owner []byte, action auditDomain.Action, from, to *time.Time) (string, []any) {
	args := []any{owner, string(action)}
	clauses := []string{"owner_id = ?", "action = ?"}

	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, "created_at >= ?")
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, "created_at <= ?")
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
