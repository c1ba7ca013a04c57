// Package mysql persists tokens in MySQL. UUIDs are stored as BINARY(16).
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

const tokenColumns = `id, token, envelope, fingerprint, key_generation, owner_id, created_at, expires_at`

// MySQLTokenRepository implements token persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a MySQLTokenRepository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a token. A handle collision returns ErrTokenAlreadyExists.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenizationDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}
	ownerID, err := token.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `INSERT INTO tokens (` + tokenColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.Token,
		token.Envelope,
		token.Fingerprint,
		token.KeyGeneration,
		ownerID,
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
func (m *MySQLTokenRepository) GetByToken(ctx context.Context, handle string) (*tokenizationDomain.Token, error) {
	return m.get(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE token = ?`, handle)
}

// GetByTokenForUpdate locks the row until the ambient transaction ends.
func (m *MySQLTokenRepository) GetByTokenForUpdate(
	ctx context.Context,
	handle string,
) (*tokenizationDomain.Token, error) {
	return m.get(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE token = ? FOR UPDATE`, handle)
}

func (m *MySQLTokenRepository) get(ctx context.Context, query, handle string) (*tokenizationDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	var token tokenizationDomain.Token
	var idBytes, ownerIDBytes []byte
	err := querier.QueryRowContext(ctx, query, handle).Scan(
		&idBytes,
		&token.Token,
		&token.Envelope,
		&token.Fingerprint,
		&token.KeyGeneration,
		&ownerIDBytes,
		&token.CreatedAt,
		&token.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenizationDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if err := token.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}
	return &token, nil
}

// UpdateExpiry sets the expiry of the token with tokenID.
func (m *MySQLTokenRepository) UpdateExpiry(ctx context.Context, tokenID uuid.UUID, expiresAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	// RowsAffected is zero for unchanged rows in MySQL, so it is not checked.
	_, err = querier.ExecContext(ctx, `UPDATE tokens SET expires_at = ? WHERE id = ?`, expiresAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update token expiry")
	}
	return nil
}

// FindActiveByFingerprints maps each fingerprint with a token still active at now to
// the handle of its oldest such token. Fingerprints without one are absent.
func (m *MySQLTokenRepository) FindActiveByFingerprints(
	ctx context.Context,
	fingerprints []string,
	now time.Time,
) (map[string]string, error) {
	found := make(map[string]string)
	if len(fingerprints) == 0 {
		return found, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fingerprints)), ", ")
	args := make([]any, 0, len(fingerprints)+1)
	for _, fingerprint := range fingerprints {
		args = append(args, fingerprint)
	}
	args = append(args, now)

	query := `SELECT fingerprint, token
			  FROM tokens
			  WHERE fingerprint IN (` + placeholders + `) AND expires_at >= ?
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
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
		if _, seen := found[fingerprint]; !seen {
			found[fingerprint] = handle
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating token fingerprints")
	}
	return found, nil
}
