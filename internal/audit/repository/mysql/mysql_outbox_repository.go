package mysql

import (
	"context"
	"database/sql"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

// MySQLOutboxRepository persists audit outbox entries in MySQL.
type MySQLOutboxRepository struct {
	db *sql.DB
}

// NewMySQLOutboxRepository creates a MySQLOutboxRepository.
func NewMySQLOutboxRepository(db *sql.DB) *MySQLOutboxRepository {
	return &MySQLOutboxRepository{db: db}
}

// Create queues an entry. Call inside the transaction that writes the event.
func (r *MySQLOutboxRepository) Create(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	querier := database.GetTx(ctx, r.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal outbox entry id")
	}
	eventID, err := entry.EventID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event id")
	}

	query := `INSERT INTO audit_outbox (id, event_id, payload, status, attempts, last_error, created_at, processed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, eventID, entry.Payload, string(entry.Status),
		entry.Attempts, entry.LastError, entry.CreatedAt, entry.ProcessedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit outbox entry")
	}
	return nil
}

// GetPending locks up to limit pending entries, oldest first.
func (r *MySQLOutboxRepository) GetPending(ctx context.Context, limit int) ([]*auditDomain.OutboxEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_id, payload, status, attempts, last_error, created_at, processed_at
			  FROM audit_outbox
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, string(auditDomain.OutboxStatusPending), limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending audit outbox entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*auditDomain.OutboxEntry
	for rows.Next() {
		var entry auditDomain.OutboxEntry
		var id, eventID []byte
		var status string
		if err := rows.Scan(&id, &eventID, &entry.Payload, &status,
			&entry.Attempts, &entry.LastError, &entry.CreatedAt, &entry.ProcessedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit outbox entry")
		}
		if err := entry.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal outbox entry id")
		}
		if err := entry.EventID.UnmarshalBinary(eventID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event id")
		}
		entry.Status = auditDomain.OutboxStatus(status)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit outbox entries")
	}
	return entries, nil
}

// Update persists the relay outcome of an entry.
func (r *MySQLOutboxRepository) Update(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	querier := database.GetTx(ctx, r.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal outbox entry id")
	}

	query := `UPDATE audit_outbox SET status = ?, attempts = ?, last_error = ?, processed_at = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, string(entry.Status), entry.Attempts, entry.LastError,
		entry.ProcessedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update audit outbox entry")
	}
	return nil
}
