// Package repository persists API clients and bearer tokens in PostgreSQL.
// MySQL implementations live in the mysql subpackage.
package repository

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
	insertClientSQL = `INSERT INTO clients (id, name, secret, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	selectClientSQL    = `SELECT id, name, secret, is_active, created_at FROM clients WHERE id = $1`
	updateClientActive = `UPDATE clients SET is_active = $1 WHERE id = $2`
)

// PostgreSQLClientRepository implements client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a PostgreSQLClientRepository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	_, err := database.GetTx(ctx, p.db).ExecContext(ctx, insertClientSQL,
		client.ID, client.Name, client.Secret, client.IsActive, client.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Get returns ErrClientNotFound when no row matches.
func (p *PostgreSQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	var client authDomain.Client
	row := database.GetTx(ctx, p.db).QueryRowContext(ctx, selectClientSQL, clientID)
	switch err := row.Scan(&client.ID, &client.Name, &client.Secret, &client.IsActive, &client.CreatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, authDomain.ErrClientNotFound
	case err != nil:
		return nil, apperrors.Wrap(err, "failed to get client")
	}
	return &client, nil
}

// SetActive returns ErrClientNotFound when no row matches.
func (p *PostgreSQLClientRepository) SetActive(ctx context.Context, clientID uuid.UUID, active bool) error {
	result, err := database.GetTx(ctx, p.db).ExecContext(ctx, updateClientActive, active, clientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return authDomain.ErrClientNotFound
	}
	return nil
}
