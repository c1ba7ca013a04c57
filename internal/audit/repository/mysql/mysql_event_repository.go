// Package mysql implements audit event and outbox persistence for MySQL. UUIDs are
// stored as BINARY(16).
package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

// MySQLEventRepository persists audit events in MySQL.
type MySQLEventRepository struct {
	db *sql.DB
}

// NewMySQLEventRepository creates a MySQLEventRepository.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}

// Create appends an event. Uses the ambient transaction when present.
func (m *MySQLEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event id")
	}
	ownerID, err := event.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	var details []byte
	if event.Details != nil {
		details, err = json.Marshal(event.Details)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit event details")
		}
	}

	query := `INSERT INTO audit_events (id, owner_id, action, details, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, ownerID, string(event.Action), details, event.Signature,
		event.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

// List returns events matching filter, newest first.
func (m *MySQLEventRepository) List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	where, args, err := mysqlFilter(filter.OwnerID, filter.Action, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	args = append(args, filter.Limit, filter.Offset)

	query := `SELECT id, owner_id, action, details, signature, created_at
			  FROM audit_events ` + where + `
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return scanEvents(rows)
}

// ListRange returns events created in [from, to], oldest first, for verification.
func (m *MySQLEventRepository) ListRange(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*auditDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, action, details, signature, created_at
			  FROM audit_events
			  WHERE created_at >= ? AND created_at <= ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events by range")
	}
	return scanEvents(rows)
}

// CountByAction counts events per action for an optional owner and time range.
func (m *MySQLEventRepository) CountByAction(
	ctx context.Context,
	ownerID *uuid.UUID,
	from, to *time.Time,
) (map[auditDomain.Action]int64, error) {
	querier := database.GetTx(ctx, m.db)

	where, args, err := mysqlFilter(ownerID, "", from, to)
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx, `SELECT action, COUNT(*) FROM audit_events `+where+` GROUP BY action`,
		args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[auditDomain.Action]int64)
	for rows.Next() {
		var action string
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event count")
		}
		counts[auditDomain.Action(action)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit event counts")
	}
	return counts, nil
}

func mysqlFilter(ownerID *uuid.UUID, action auditDomain.Action, from, to *time.Time) (string, []any, error) {
	var clauses []string
	var args []any

	if ownerID != nil {
		owner, err := ownerID.MarshalBinary()
		if err != nil {
			return "", nil, apperrors.Wrap(err, "failed to marshal owner id")
		}
		clauses = append(clauses, "owner_id = ?")
		args = append(args, owner)
	}
	if action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(action))
	}
	if from != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, *from)
	}
	if to != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, *to)
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

func scanEvents(rows *sql.Rows) ([]*auditDomain.Event, error) {
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*auditDomain.Event, 0)
	for rows.Next() {
		var event auditDomain.Event
		var id, ownerID, details []byte
		var action string

		if err := rows.Scan(&id, &ownerID, &action, &details, &event.Signature, &event.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}
		if err := event.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event id")
		}
		if err := event.OwnerID.UnmarshalBinary(ownerID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
		}
		event.Action = auditDomain.Action(action)
		if details != nil {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit event details")
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}
	return events, nil
}
