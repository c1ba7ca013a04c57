// Package repository persists tokens in PostgreSQL. The mysql subpackage holds the
// MySQL implementation.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

const tokenColumns = `id, token, envelope, fingerprint, key_generation, owner_id, created_at, expires_at`

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a PostgreSQLTokenRepository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a token. A handle collision returns ErrTokenAlreadyExists.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *tokenizationDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (` + tokenColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Token,
		token.Envelope,
		token.Fingerprint,
		int64(token.KeyGeneration),
		token.OwnerID,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return tokenizationDomain.ErrTokenAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByToken returns ErrTokenNotFound when no row matches the handle.
func (p *PostgreSQLTokenRepository) GetByToken(ctx context.Context, handle string) (*tokenizationDomain.Token, error) {
	return p.get(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE token = $1`, handle)
}

// GetByTokenForUpdate locks the row until the ambient transaction ends.
func (p *PostgreSQLTokenRepository) GetByTokenForUpdate(
	ctx context.Context,
	handle string,
) (*tokenizationDomain.Token, error) {
	return p.get(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE token = $1 FOR UPDATE`, handle)
}

func (p *PostgreSQLTokenRepository) get(
	ctx context.Context,
	query string,
	handle string,
) (*tokenizationDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	var token tokenizationDomain.Token
	var keyGeneration int64
	err := querier.QueryRowContext(ctx, query, handle).Scan(
		&token.ID,
		&token.Token,
		&token.Envelope,
		&token.Fingerprint,
		&keyGeneration,
		&token.OwnerID,
		&token.CreatedAt,
		&token.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenizationDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	token.KeyGeneration = uint64(keyGeneration)
	return &token, nil
}

// UpdateExpiry sets the expiry of the token with tokenID.
func (p *PostgreSQLTokenRepository) UpdateExpiry(ctx context.Context, tokenID uuid.UUID, expiresAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE tokens SET expires_at = $1 WHERE id = $2`, expiresAt, tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update token expiry")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return tokenizationDomain.ErrTokenNotFound
	}
	return nil
}

// FindActiveByFingerprints maps each fingerprint with a token still active at now to
// the handle of its oldest such token. Fingerprints without one are absent.
func (p *PostgreSQLTokenRepository) FindActiveByFingerprints(
	ctx context.Context,
	fingerprints []string,
	now time.Time,
) (map[string]string, error) {
	found := make(map[string]string)
	if len(fingerprints) == 0 {
		return found, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT DISTINCT ON (fingerprint) fingerprint, token
			  FROM tokens
			  WHERE fingerprint = ANY($1) AND expires_at >= $2
			  ORDER BY fingerprint, created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, pq.Array(fingerprints), now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find tokens by fingerprint")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var fingerprint, handle string
		if err := rows.Scan(&fingerprint, &handle); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token fingerprint")
		}
		found[fingerprint] = handle
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating token fingerprints")
	}
	return found, nil
}
