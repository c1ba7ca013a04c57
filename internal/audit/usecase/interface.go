// Package usecase implements the audit sink: signed event recording, listing,
// integrity verification and the outbox relay.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

// EventRepository persists audit events. Implementations join the
// transaction carried by ctx.
type EventRepository interface {
	Create(ctx context.Context, event *auditDomain.Event) error

	// List returns events matching filter, newest first.
	List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.Event, error)

	// ListRange returns events created in [from, to], oldest first.
	ListRange(ctx context.Context, from, to time.Time, offset, limit int) ([]*auditDomain.Event, error)

	CountByAction(
		ctx context.Context,
		ownerID *uuid.UUID,
		from, to *time.Time,
	) (map[auditDomain.Action]int64, error)
}

// OutboxRepository persists relay entries for recorded events.
type OutboxRepository interface {
	Create(ctx context.Context, entry *auditDomain.OutboxEntry) error

	// GetPending returns up to limit pending entries, locking them for the
	// surrounding transaction.
	GetPending(ctx context.Context, limit int) ([]*auditDomain.OutboxEntry, error)

	Update(ctx context.Context, entry *auditDomain.OutboxEntry) error
}

// Publisher delivers a relayed event payload to a downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, entry *auditDomain.OutboxEntry) error
}

// AuditUseCase is the audit sink consumed by the token lifecycle, the
// scanner and the HTTP API.
type AuditUseCase interface {
	// Record validates, signs and appends an event together with its outbox
	// entry. When ctx carries a transaction both writes join it.
	Record(ctx context.Context, ownerID uuid.UUID, action auditDomain.Action, details map[string]any) error

	List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.Event, error)

	CountByAction(
		ctx context.Context,
		ownerID *uuid.UUID,
		from, to *time.Time,
	) (map[auditDomain.Action]int64, error)

	// VerifyBatch checks the signature of every event created in [from, to].
	VerifyBatch(ctx context.Context, from, to time.Time) (*auditDomain.VerificationReport, error)
}

// RelayUseCase moves pending outbox entries to the configured publisher.
type RelayUseCase interface {
	Start(ctx context.Context) error
	ProcessPending(ctx context.Context) (int, error)
}
