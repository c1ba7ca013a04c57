// Package repository implements audit event and outbox persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

// PostgreSQLEventRepository persists audit events in PostgreSQL.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventRepository creates a PostgreSQLEventRepository.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}

// Create appends an event. Uses the ambient transaction when present.
func (p *PostgreSQLEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	details, err := marshalDetails(event.Details)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_events (id, owner_id, action, details, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.OwnerID,
		string(event.Action),
		details,
		event.Signature,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

// List returns events matching filter, newest first.
func (p *PostgreSQLEventRepository) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := postgresFilter(filter.OwnerID, filter.Action, filter.From, filter.To)
	args = append(args, filter.Limit, filter.Offset)

	query := fmt.Sprintf(`SELECT id, owner_id, action, details, signature, created_at
			  FROM audit_events %s
			  ORDER BY created_at DESC, id DESC
			  LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return scanPostgresEvents(rows)
}

// ListRange returns events created in [from, to], oldest first, for verification.
func (p *PostgreSQLEventRepository) ListRange(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*auditDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, action, details, signature, created_at
			  FROM audit_events
			  WHERE created_at >= $1 AND created_at <= $2
			  ORDER BY created_at ASC, id ASC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events by range")
	}
	return scanPostgresEvents(rows)
}

// CountByAction counts events per action for an optional owner and time range.
func (p *PostgreSQLEventRepository) CountByAction(
	ctx context.Context,
	ownerID *uuid.UUID,
	from, to *time.Time,
) (map[auditDomain.Action]int64, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := postgresFilter(ownerID, "", from, to)
	query := fmt.Sprintf(`SELECT action, COUNT(*) FROM audit_events %s GROUP BY action`, where)

	rows, err := querier.QueryContext(ctx, query, args...)
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

func postgresFilter(
	ownerID *uuid.UUID,
	action auditDomain.Action,
	from, to *time.Time,
) (string, []any) {
	var clauses []string
	var args []any

	if ownerID != nil {
		args = append(args, *ownerID)
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if action != "" {
		args = append(args, string(action))
		clauses = append(clauses, fmt.Sprintf("action = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanPostgresEvents(rows *sql.Rows) ([]*auditDomain.Event, error) {
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*auditDomain.Event, 0)
	for rows.Next() {
		var event auditDomain.Event
		var action string
		var details []byte

		if err := rows.Scan(
			&event.ID,
			&event.OwnerID,
			&action,
			&details,
			&event.Signature,
			&event.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		event.Action = auditDomain.Action(action)
		if err := unmarshalDetails(details, &event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}
	return events, nil
}

func marshalDetails(details map[string]any) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit event details")
	}
	return data, nil
}

func unmarshalDetails(data []byte, event *auditDomain.Event) error {
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, &event.Details); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal audit event details")
	}
	return nil
}
