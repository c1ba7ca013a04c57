package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	cryptoDomain "github.com/allisson/tokenvault/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenvault/internal/crypto/service"
	"github.com/allisson/tokenvault/internal/database"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
	tokenizationService "github.com/allisson/tokenvault/internal/tokenization/service"
)

const (
	DefaultMaxExpiryHours  = 87600
	DefaultBulkMaxItems    = 1000
	DefaultBulkConcurrency = 8
)

// Config bounds lifecycle inputs. Zero values take the defaults.
type Config struct {
	DefaultExpiryHours int
	MaxExpiryHours     int
	BulkMaxItems       int
	BulkConcurrency    int
}

func (c Config) withDefaults() Config {
	if c.DefaultExpiryHours <= 0 {
		c.DefaultExpiryHours = tokenizationDomain.DefaultExpiryHours
	}
	if c.MaxExpiryHours <= 0 {
		c.MaxExpiryHours = DefaultMaxExpiryHours
	}
	if c.BulkMaxItems <= 0 {
		c.BulkMaxItems = DefaultBulkMaxItems
	}
	if c.BulkConcurrency <= 0 {
		c.BulkConcurrency = DefaultBulkConcurrency
	}
	return c
}

// Option configures the tokenization use case.
type Option func(*tokenizationUseCase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *tokenizationUseCase) {
		u.now = now
	}
}

type tokenizationUseCase struct {
	config        Config
	txManager     database.TxManager
	tokenRepo     TokenRepository
	codec         cryptoService.Codec
	handles       tokenizationService.HandleGenerator
	fingerprinter tokenizationService.Fingerprinter
	audit         AuditRecorder
	now           func() time.Time
}

// NewTokenizationUseCase creates the token lifecycle manager. The codec seals
// field maps under the current master key generation, handles mints and
// validates opaque handles, and fingerprinter keys duplicate detection for
// CreateBulk. Every state change is written together with its audit event
// inside txManager.
//
// Usage:
//
//	useCase := NewTokenizationUseCase(Config{}, txManager, tokenRepo, codec,
//	    handles, fingerprinter, auditUseCase, WithClock(clock))
//	token, err := useCase.Create(ctx, clientID, domain.Fields{"pan": "4111..."}, 24)
func NewTokenizationUseCase(
	config Config,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	codec cryptoService.Codec,
	handles tokenizationService.HandleGenerator,
	fingerprinter tokenizationService.Fingerprinter,
	audit AuditRecorder,
	opts ...Option,
) TokenizationUseCase {
	u := &tokenizationUseCase{
		config:        config.withDefaults(),
		txManager:     txManager,
		tokenRepo:     tokenRepo,
		codec:         codec,
		handles:       handles,
		fingerprinter: fingerprinter,
		audit:         audit,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// clock matches the microsecond precision of both database backends so an
// expiry read back from storage compares equal to the one computed here.
func (u *tokenizationUseCase) clock() time.Time {
	return u.now().UTC().Truncate(time.Microsecond)
}

// expiryHours resolves zero to the default and rejects values outside [1, max].
func (u *tokenizationUseCase) expiryHours(hours int) (int, error) {
	if hours == 0 {
		return u.config.DefaultExpiryHours, nil
	}
	if hours < 1 || hours > u.config.MaxExpiryHours {
		return 0, apperrors.Wrapf(tokenizationDomain.ErrInvalidExpiry,
			"hours must be between 1 and %d", u.config.MaxExpiryHours)
	}
	return hours, nil
}

// prepared is a validated item ready to be sealed.
type prepared struct {
	canonical   []byte
	fingerprint string
	hours       int
}

func (u *tokenizationUseCase) prepare(fields tokenizationDomain.Fields, expiryHours int) (*prepared, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	hours, err := u.expiryHours(expiryHours)
	if err != nil {
		return nil, err
	}
	canonical, err := fields.Canonical()
	if err != nil {
		return nil, err
	}
	return &prepared{
		canonical:   canonical,
		fingerprint: u.fingerprinter.Fingerprint(canonical),
		hours:       hours,
	}, nil
}

// seal encrypts p and persists the token with its create event in one transaction.
func (u *tokenizationUseCase) seal(
	ctx context.Context,
	ownerID uuid.UUID,
	p *prepared,
	details map[string]any,
) (*tokenizationDomain.Token, error) {
	defer cryptoDomain.Zero(p.canonical)

	envelope, generation, err := u.codec.Encode(p.canonical)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt fields")
	}

	handle, err := u.handles.Generate()
	if err != nil {
		return nil, err
	}

	now := u.clock()
	token := &tokenizationDomain.Token{
		ID:            uuid.Must(uuid.NewV7()),
		Token:         handle,
		Envelope:      envelope,
		Fingerprint:   p.fingerprint,
		KeyGeneration: generation,
		OwnerID:       ownerID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(p.hours) * time.Hour),
	}

	if details == nil {
		details = make(map[string]any, 3)
	}
	details[auditDomain.DetailToken] = token.Token
	details[auditDomain.DetailKeyGeneration] = token.KeyGeneration
	details[auditDomain.DetailExpiresAt] = token.ExpiresAt.Format(time.RFC3339Nano)

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.tokenRepo.Create(ctx, token); err != nil {
			return err
		}
		return u.audit.Record(ctx, ownerID, auditDomain.ActionCreate, details)
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Create seals fields into a new token owned by ownerID that expires
// expiryHours from now (zero selects Config.DefaultExpiryHours). Create never
// deduplicates: the same fields submitted twice yield two handles.
//
// Returns ErrInvalidFields for an empty or oversized field map and
// ErrInvalidExpiry for hours outside [1, Config.MaxExpiryHours]. A failing
// audit write rolls the token back.
func (u *tokenizationUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	fields tokenizationDomain.Fields,
	expiryHours int,
) (*tokenizationDomain.Token, error) {
	p, err := u.prepare(fields, expiryHours)
	if err != nil {
		return nil, err
	}
	return u.seal(ctx, ownerID, p, nil)
}

// lookup returns ErrTokenNotFound for malformed handles without touching storage.
func (u *tokenizationUseCase) lookup(
	ctx context.Context,
	handle string,
	get func(ctx context.Context, handle string) (*tokenizationDomain.Token, error),
) (*tokenizationDomain.Token, error) {
	if err := u.handles.Validate(handle); err != nil {
		return nil, tokenizationDomain.ErrTokenNotFound
	}
	return get(ctx, handle)
}

// Retrieve decrypts the field map behind handle with whichever key generation
// sealed it and records a detokenize event for ownerID.
// Returns ErrTokenNotFound for unknown or malformed handles and an ExpiredError
// matching ErrTokenExpired once the token is expired or revoked.
//
// The plaintext is released only after the audit event is stored; the
// intermediate decrypted buffer is zeroed before returning.
func (u *tokenizationUseCase) Retrieve(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
) (tokenizationDomain.Fields, error) {
	token, err := u.lookup(ctx, handle, u.tokenRepo.GetByToken)
	if err != nil {
		return nil, err
	}

	if token.IsExpired(u.clock()) {
		return nil, tokenizationDomain.NewExpiredError(token.ExpiresAt)
	}

	plaintext, generation, err := u.codec.Decode(token.Envelope)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	fields, err := tokenizationDomain.ParseFields(plaintext)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrDecryptionFailed, "stored fields are not valid JSON")
	}

	err = u.audit.Record(ctx, ownerID, auditDomain.ActionDetokenize, map[string]any{
		auditDomain.DetailToken:         token.Token,
		auditDomain.DetailKeyGeneration: generation,
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// GetInfo returns the token metadata and its state at the current instant.
// It never decrypts and records no audit event.
func (u *tokenizationUseCase) GetInfo(ctx context.Context, handle string) (*tokenizationDomain.Info, error) {
	token, err := u.lookup(ctx, handle, u.tokenRepo.GetByToken)
	if err != nil {
		return nil, err
	}
	return token.Info(u.clock()), nil
}

// Extend pushes the expiry of a live token forward by hours. Extensions add
// up, so two calls of 12 hours equal one of 24.
//
// The row is locked for the duration of the transaction and the expiry check
// happens under that lock: a token that is already dead fails with an
// ExpiredError matching ErrCannotExtendExpired and is never resurrected.
// Returns ErrInvalidExpiry for hours outside [1, Config.MaxExpiryHours].
func (u *tokenizationUseCase) Extend(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
	hours int,
) (*tokenizationDomain.Token, error) {
	if hours < 1 || hours > u.config.MaxExpiryHours {
		return nil, apperrors.Wrapf(tokenizationDomain.ErrInvalidExpiry,
			"hours must be between 1 and %d", u.config.MaxExpiryHours)
	}

	var token *tokenizationDomain.Token
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		token, err = u.lookup(ctx, handle, u.tokenRepo.GetByTokenForUpdate)
		if err != nil {
			return err
		}

		if token.IsExpired(u.clock()) {
			return tokenizationDomain.NewCannotExtendError(token.ExpiresAt)
		}

		token.Extend(hours)
		if err := u.tokenRepo.UpdateExpiry(ctx, token.ID, token.ExpiresAt); err != nil {
			return err
		}

		return u.audit.Record(ctx, ownerID, auditDomain.ActionExtend, map[string]any{
			auditDomain.DetailToken:     token.Token,
			auditDomain.DetailHours:     hours,
			auditDomain.DetailExpiresAt: token.ExpiresAt.Format(time.RFC3339Nano),
		})
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Revoke expires the token now. Revoking is idempotent: a dead token keeps
// its expiry and the call still succeeds, recording a revoke event with
// already_expired=true.
// Returns ErrTokenNotFound for unknown or malformed handles.
func (u *tokenizationUseCase) Revoke(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
) (*tokenizationDomain.Token, error) {
	var token *tokenizationDomain.Token
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		token, err = u.lookup(ctx, handle, u.tokenRepo.GetByTokenForUpdate)
		if err != nil {
			return err
		}

		// only a live token is written back
		revoked := token.Revoke(u.clock())
		if revoked {
			if err := u.tokenRepo.UpdateExpiry(ctx, token.ID, token.ExpiresAt); err != nil {
				return err
			}
		}

		return u.audit.Record(ctx, ownerID, auditDomain.ActionRevoke, map[string]any{
			auditDomain.DetailToken:          token.Token,
			auditDomain.DetailExpiresAt:      token.ExpiresAt.Format(time.RFC3339Nano),
			auditDomain.DetailAlreadyExpired: !revoked,
		})
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// CreateBulk tokenizes every item independently and reports one result per
// item in input order. It is not transactional across items.
//
// Items whose canonical fields match an earlier item of the batch, or an
// active stored token, are reported as duplicates carrying the existing
// handle. Invalid items and seal failures are reported as failed without
// affecting the rest. Up to Config.BulkConcurrency items are sealed at once.
//
// The call itself fails only for an empty batch, a batch over
// Config.BulkMaxItems, or when the duplicate lookup cannot be performed.
func (u *tokenizationUseCase) CreateBulk(
	ctx context.Context,
	ownerID uuid.UUID,
	items []tokenizationDomain.BulkItem,
) (*tokenizationDomain.BulkOutput, error) {
	if len(items) == 0 {
		return nil, apperrors.Wrap(tokenizationDomain.ErrInvalidFields, "at least one item is required")
	}
	if len(items) > u.config.BulkMaxItems {
		return nil, apperrors.Wrapf(tokenizationDomain.ErrTooManyItems,
			"%d items, limit %d", len(items), u.config.BulkMaxItems)
	}

	results := make([]tokenizationDomain.BulkResult, len(items))
	preparedItems := make([]*prepared, len(items))

	// first index of each fingerprint within the batch
	firstSeen := make(map[string]int, len(items))
	fingerprints := make([]string, 0, len(items))
	for i, item := range items {
		results[i].Index = i
		p, err := u.prepare(item.Fields, item.ExpiryHours)
		if err != nil {
			results[i].Status = tokenizationDomain.BulkStatusFailed
			results[i].Error = err
			continue
		}
		preparedItems[i] = p
		if _, ok := firstSeen[p.fingerprint]; !ok {
			firstSeen[p.fingerprint] = i
			fingerprints = append(fingerprints, p.fingerprint)
		}
	}

	existing, err := u.tokenRepo.FindActiveByFingerprints(ctx, fingerprints, u.clock())
	if err != nil {
		return nil, err
	}

	// pending holds the first occurrences that need a new token
	pending := make([]int, 0, len(fingerprints))
	for _, fingerprint := range fingerprints {
		i := firstSeen[fingerprint]
		if handle, ok := existing[fingerprint]; ok {
			results[i].Status = tokenizationDomain.BulkStatusDuplicate
			results[i].Token = handle
			cryptoDomain.Zero(preparedItems[i].canonical)
			continue
		}
		pending = append(pending, i)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(u.config.BulkConcurrency)
	for _, i := range pending {
		group.Go(func() error {
			token, err := u.seal(groupCtx, ownerID, preparedItems[i], map[string]any{auditDomain.DetailBulk: true})
			if err != nil {
				results[i].Status = tokenizationDomain.BulkStatusFailed
				results[i].Error = err
				return nil
			}
			results[i].Status = tokenizationDomain.BulkStatusCreated
			results[i].Token = token.Token
			results[i].ExpiresAt = &token.ExpiresAt
			return nil
		})
	}
	_ = group.Wait()

	// later occurrences mirror their first occurrence
	for i, p := range preparedItems {
		if p == nil {
			continue
		}
		first := firstSeen[p.fingerprint]
		if first == i {
			continue
		}
		cryptoDomain.Zero(p.canonical)
		switch results[first].Status {
		case tokenizationDomain.BulkStatusFailed:
			results[i].Status = tokenizationDomain.BulkStatusFailed
			results[i].Error = results[first].Error
		default:
			results[i].Status = tokenizationDomain.BulkStatusDuplicate
			results[i].Token = results[first].Token
		}
	}

	return &tokenizationDomain.BulkOutput{
		Results: results,
		Summary: tokenizationDomain.Summarize(results),
	}, nil
}
