// Package mysql persists API clients and bearer tokens in MySQL. UUIDs are
// stored as BINARY(16).
package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

const (
	insertClientSQL    = `INSERT INTO clients (id, name, secret, is_active, created_at) VALUES (?, ?, ?, ?, ?)`
	selectClientSQL    = `SELECT id, name, secret, is_active, created_at FROM clients WHERE id = ?`
	updateClientActive = `UPDATE clients SET is_active = ? WHERE id = ?`
)

// MySQLClientRepository implements client persistence for MySQL.
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a MySQLClientRepository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

func binaryID(id uuid.UUID) ([]byte, error) {
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client id")
	}
	return b, nil
}

func (m *MySQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	id, err := binaryID(client.ID)
	if err != nil {
		return err
	}

	_, err = database.GetTx(ctx, m.db).ExecContext(ctx, insertClientSQL,
		id, client.Name, client.Secret, client.IsActive, client.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Get returns ErrClientNotFound when no row matches.
func (m *MySQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	id, err := binaryID(clientID)
	if err != nil {
		return nil, err
	}

	var (
		client authDomain.Client
		rawID  []byte
	)
	row := database.GetTx(ctx, m.db).QueryRowContext(ctx, selectClientSQL, id)
	switch err := row.Scan(&rawID, &client.Name, &client.Secret, &client.IsActive, &client.CreatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, authDomain.ErrClientNotFound
	case err != nil:
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if err := client.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}
	return &client, nil
}

// SetActive returns ErrClientNotFound when no row matches. MySQL reports
// matched rows only when the DSN sets clientFoundRows, so an unchanged flag
// is resolved with a follow-up lookup.
func (m *MySQLClientRepository) SetActive(ctx context.Context, clientID uuid.UUID, active bool) error {
	id, err := binaryID(clientID)
	if err != nil {
		return err
	}

	result, err := database.GetTx(ctx, m.db).ExecContext(ctx, updateClientActive, active, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected > 0 {
		return nil
	}
	_, err = m.Get(ctx, clientID)
	return err
}
