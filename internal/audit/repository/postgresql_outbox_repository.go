package repository

import (
	"context"
	"database/sql"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

// PostgreSQLOutboxRepository persists audit outbox entries in PostgreSQL.
type PostgreSQLOutboxRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxRepository creates a PostgreSQLOutboxRepository.
func NewPostgreSQLOutboxRepository(db *sql.DB) *PostgreSQLOutboxRepository {
	return &PostgreSQLOutboxRepository{db: db}
}

// Create queues an entry. Call inside the transaction that writes the event.
func (r *PostgreSQLOutboxRepository) Create(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO audit_outbox (id, event_id, payload, status, attempts, last_error, created_at, processed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query, entry.ID, entry.EventID, entry.Payload, string(entry.Status),
		entry.Attempts, entry.LastError, entry.CreatedAt, entry.ProcessedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit outbox entry")
	}
	return nil
}

// GetPending locks up to limit pending entries, oldest first. Concurrent relays skip
// rows another relay holds.
func (r *PostgreSQLOutboxRepository) GetPending(ctx context.Context, limit int) ([]*auditDomain.OutboxEntry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_id, payload, status, attempts, last_error, created_at, processed_at
			  FROM audit_outbox
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
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
		var status string
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.Payload, &status,
			&entry.Attempts, &entry.LastError, &entry.CreatedAt, &entry.ProcessedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit outbox entry")
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
func (r *PostgreSQLOutboxRepository) Update(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE audit_outbox
			  SET status = $1, attempts = $2, last_error = $3, processed_at = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(ctx, query, string(entry.Status), entry.Attempts, entry.LastError,
		entry.ProcessedAt, entry.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update audit outbox entry")
	}
	return nil
}
