package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

const (
	insertBearerTokenSQL = `INSERT INTO auth_tokens (id, token_hash, client_id, expires_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	selectBearerTokenSQL = `SELECT id, token_hash, client_id, expires_at, revoked_at, created_at
		FROM auth_tokens WHERE token_hash = $1`
	deleteExpiredBearerTokensSQL = `DELETE FROM auth_tokens WHERE expires_at < $1`
)

// PostgreSQLTokenRepository implements bearer token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a PostgreSQLTokenRepository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create returns ErrConflict when the token hash is already stored.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	_, err := database.GetTx(ctx, p.db).ExecContext(ctx, insertBearerTokenSQL,
		token.ID, token.TokenHash, token.ClientID, token.ExpiresAt, token.RevokedAt, token.CreatedAt)
	switch {
	case database.IsUniqueViolation(err):
		return apperrors.Wrap(apperrors.ErrConflict, "bearer token hash already exists")
	case err != nil:
		return apperrors.Wrap(err, "failed to create bearer token")
	}
	return nil
}

// GetByTokenHash returns ErrTokenNotFound when no row matches.
func (p *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	var token authDomain.Token
	row := database.GetTx(ctx, p.db).QueryRowContext(ctx, selectBearerTokenSQL, tokenHash)
	err := row.Scan(&token.ID, &token.TokenHash, &token.ClientID, &token.ExpiresAt, &token.RevokedAt, &token.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, authDomain.ErrTokenNotFound
	case err != nil:
		return nil, apperrors.Wrap(err, "failed to get bearer token")
	}
	return &token, nil
}

func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := database.GetTx(ctx, p.db).ExecContext(ctx, deleteExpiredBearerTokensSQL, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired bearer tokens")
	}
	return result.RowsAffected()
}
