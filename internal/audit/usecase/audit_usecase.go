package usecase

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	auditService "github.com/allisson/tokenvault/internal/audit/service"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

const (
	// DefaultListLimit applies when a caller passes a non-positive limit.
	DefaultListLimit = 50
	// MaxListLimit caps a single page of events.
	MaxListLimit = 100

	verifyPageSize = 1000
)

type auditUseCase struct {
	txManager  database.TxManager
	eventRepo  EventRepository
	outboxRepo OutboxRepository
	signer     auditService.Signer
	now        func() time.Time
}

// Option customizes an AuditUseCase.
type Option func(*auditUseCase)

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *auditUseCase) {
		a.now = now
	}
}

// NewAuditUseCase creates the audit sink.
func NewAuditUseCase(
	txManager database.TxManager,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	signer auditService.Signer,
	opts ...Option,
) AuditUseCase {
	a := &auditUseCase{
		txManager:  txManager,
		eventRepo:  eventRepo,
		outboxRepo: outboxRepo,
		signer:     signer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *auditUseCase) Record(
	ctx context.Context,
	ownerID uuid.UUID,
	action auditDomain.Action,
	details map[string]any,
) error {
	if !action.Valid() {
		return apperrors.Wrapf(auditDomain.ErrInvalidAction, "%q", action)
	}
	if err := auditDomain.ValidateDetails(details); err != nil {
		return err
	}

	event := &auditDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		Action:    action,
		Details:   details,
		CreatedAt: a.now().UTC().Truncate(time.Microsecond),
	}

	signature, err := a.signer.Sign(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit event")
	}
	event.Signature = signature

	payload, err := json.Marshal(auditDomain.NewMessage(event))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit message")
	}

	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.eventRepo.Create(ctx, event); err != nil {
			return err
		}
		return a.outboxRepo.Create(ctx, &auditDomain.OutboxEntry{
			ID:        uuid.Must(uuid.NewV7()),
			EventID:   event.ID,
			Payload:   payload,
			Status:    auditDomain.OutboxStatusPending,
			CreatedAt: event.CreatedAt,
		})
	})
}

func (a *auditUseCase) List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.Event, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, apperrors.Wrapf(auditDomain.ErrInvalidAction, "%q", filter.Action)
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}

	events, err := a.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return events, nil
}

func (a *auditUseCase) CountByAction(
	ctx context.Context,
	ownerID *uuid.UUID,
	from, to *time.Time,
) (map[auditDomain.Action]int64, error) {
	counts, err := a.eventRepo.CountByAction(ctx, ownerID, from, to)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count audit events")
	}
	return counts, nil
}

func (a *auditUseCase) VerifyBatch(
	ctx context.Context,
	from, to time.Time,
) (*auditDomain.VerificationReport, error) {
	report := &auditDomain.VerificationReport{InvalidEvents: []uuid.UUID{}}

	for offset := 0; ; offset += verifyPageSize {
		events, err := a.eventRepo.ListRange(ctx, from, to, offset, verifyPageSize)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit events for verification")
		}

		for _, event := range events {
			report.TotalChecked++
			if !event.IsSigned() {
				report.UnsignedCount++
				continue
			}
			report.SignedCount++
			if err := a.signer.Verify(event); err != nil {
				report.InvalidCount++
				report.InvalidEvents = append(report.InvalidEvents, event.ID)
				continue
			}
			report.ValidCount++
		}

		if len(events) < verifyPageSize {
			return report, nil
		}
	}
}
