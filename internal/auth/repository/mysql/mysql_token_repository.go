package mysql

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
		VALUES (?, ?, ?, ?, ?, ?)`
	selectBearerTokenSQL = `SELECT id, token_hash, client_id, expires_at, revoked_at, created_at
		FROM auth_tokens WHERE token_hash = ?`
	deleteExpiredBearerTokensSQL = `DELETE FROM auth_tokens WHERE expires_at < ?`
)

// MySQLTokenRepository implements bearer token persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a MySQLTokenRepository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create returns ErrConflict when the token hash is already stored.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal bearer token id")
	}
	clientID, err := binaryID(token.ClientID)
	if err != nil {
		return err
	}

	_, err = database.GetTx(ctx, m.db).ExecContext(ctx, insertBearerTokenSQL,
		id, token.TokenHash, clientID, token.ExpiresAt, token.RevokedAt, token.CreatedAt)
	switch {
	case database.IsUniqueViolation(err):
		return apperrors.Wrap(apperrors.ErrConflict, "bearer token hash already exists")
	case err != nil:
		return apperrors.Wrap(err, "failed to create bearer token")
	}
	return nil
}

// GetByTokenHash returns ErrTokenNotFound when no row matches.
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	var (
		token           authDomain.Token
		rawID, rawOwner []byte
	)
	row := database.GetTx(ctx, m.db).QueryRowContext(ctx, selectBearerTokenSQL, tokenHash)
	err := row.Scan(&rawID, &token.TokenHash, &rawOwner, &token.ExpiresAt, &token.RevokedAt, &token.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, authDomain.ErrTokenNotFound
	case err != nil:
		return nil, apperrors.Wrap(err, "failed to get bearer token")
	}

	if err := token.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal bearer token id")
	}
	if err := token.ClientID.UnmarshalBinary(rawOwner); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}
	return &token, nil
}

func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := database.GetTx(ctx, m.db).ExecContext(ctx, deleteExpiredBearerTokensSQL, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired bearer tokens")
	}
	return result.RowsAffected()
}
