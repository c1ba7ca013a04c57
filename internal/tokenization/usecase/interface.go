// Package usecase implements the token lifecycle: create, retrieve, extend, revoke and
// bulk create with duplicate detection.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

// TokenRepository persists tokens. Lookups return ErrTokenNotFound for unknown handles.
type TokenRepository interface {
	Create(ctx context.Context, token *tokenizationDomain.Token) error
	GetByToken(ctx context.Context, handle string) (*tokenizationDomain.Token, error)
	// GetByTokenForUpdate locks the row for the ambient transaction.
	GetByTokenForUpdate(ctx context.Context, handle string) (*tokenizationDomain.Token, error)
	UpdateExpiry(ctx context.Context, tokenID uuid.UUID, expiresAt time.Time) error
	// FindActiveByFingerprints maps fingerprints of tokens active at now to the
	// oldest matching handle.
	FindActiveByFingerprints(ctx context.Context, fingerprints []string, now time.Time) (map[string]string, error)
}

// AuditRecorder appends audit events. It joins the ambient transaction.
type AuditRecorder interface {
	Record(ctx context.Context, ownerID uuid.UUID, action auditDomain.Action, details map[string]any) error
}

// TokenizationUseCase is the token lifecycle manager. ownerID is the caller recorded
// as the actor of every audit event.
type TokenizationUseCase interface {
	// Create seals fields and returns the new Active token. expiryHours zero means
	// the configured default.
	Create(
		ctx context.Context,
		ownerID uuid.UUID,
		fields tokenizationDomain.Fields,
		expiryHours int,
	) (*tokenizationDomain.Token, error)

	// Retrieve returns the plaintext fields. The detokenize event is written before
	// the fields are returned.
	Retrieve(ctx context.Context, ownerID uuid.UUID, handle string) (tokenizationDomain.Fields, error)

	// GetInfo returns token metadata without decrypting.
	GetInfo(ctx context.Context, handle string) (*tokenizationDomain.Info, error)

	// Extend adds hours to the expiry of an Active token.
	Extend(ctx context.Context, ownerID uuid.UUID, handle string, hours int) (*tokenizationDomain.Token, error)

	// Revoke sets the expiry to now. Revoking a dead token is not an error and keeps
	// its expiry.
	Revoke(ctx context.Context, ownerID uuid.UUID, handle string) (*tokenizationDomain.Token, error)

	// CreateBulk creates tokens item by item. Per-item failures never fail the call.
	CreateBulk(
		ctx context.Context,
		ownerID uuid.UUID,
		items []tokenizationDomain.BulkItem,
	) (*tokenizationDomain.BulkOutput, error)
}
