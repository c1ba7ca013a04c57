package usecase

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	cryptoService "github.com/allisson/tokenvault/internal/crypto/service"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
	tokenizationService "github.com/allisson/tokenvault/internal/tokenization/service"
)

// memoryTokenRepository keeps tokens in insertion order.
type memoryTokenRepository struct {
	mu     sync.Mutex
	tokens []*tokenizationDomain.Token
}

func (r *memoryTokenRepository) Create(_ context.Context, token *tokenizationDomain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tokens {
		if existing.Token == token.Token {
			return tokenizationDomain.ErrTokenAlreadyExists
		}
	}
	stored := *token
	r.tokens = append(r.tokens, &stored)
	return nil
}

func (r *memoryTokenRepository) GetByToken(_ context.Context, handle string) (*tokenizationDomain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Token == handle {
			found := *token
			return &found, nil
		}
	}
	return nil, tokenizationDomain.ErrTokenNotFound
}

func (r *memoryTokenRepository) GetByTokenForUpdate(
	ctx context.Context,
	handle string,
) (*tokenizationDomain.Token, error) {
	return r.GetByToken(ctx, handle)
}

func (r *memoryTokenRepository) UpdateExpiry(_ context.Context, tokenID uuid.UUID, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID == tokenID {
			token.ExpiresAt = expiresAt
			return nil
		}
	}
	return tokenizationDomain.ErrTokenNotFound
}

func (r *memoryTokenRepository) FindActiveByFingerprints(
	_ context.Context,
	fingerprints []string,
	now time.Time,
) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(fingerprints))
	for _, fp := range fingerprints {
		wanted[fp] = true
	}
	found := make(map[string]string)
	for _, token := range r.tokens {
		if !wanted[token.Fingerprint] || token.IsExpired(now) {
			continue
		}
		if _, ok := found[token.Fingerprint]; !ok {
			found[token.Fingerprint] = token.Token
		}
	}
	return found, nil
}

func (r *memoryTokenRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type recordedEvent struct {
	ownerID uuid.UUID
	action  auditDomain.Action
	details map[string]any
}

type recordingAudit struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (a *recordingAudit) Record(
	_ context.Context,
	ownerID uuid.UUID,
	action auditDomain.Action,
	details map[string]any,
) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, recordedEvent{ownerID: ownerID, action: action, details: details})
	return nil
}

func (a *recordingAudit) actions() []auditDomain.Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	actions := make([]auditDomain.Action, 0, len(a.events))
	for _, e := range a.events {
		actions = append(actions, e.action)
	}
	return actions
}

func (a *recordingAudit) last() recordedEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events[len(a.events)-1]
}

type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	useCase TokenizationUseCase
	repo    *memoryTokenRepository
	audit   *recordingAudit
	keys    *cryptoService.KeyManager
	now     time.Time
	owner   uuid.UUID
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	keys, err := cryptoService.NewKeyManager(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	t.Cleanup(keys.Close)

	f := &fixture{
		repo:  &memoryTokenRepository{},
		audit: &recordingAudit{},
		keys:  keys,
		now:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		owner: uuid.Must(uuid.NewV7()),
	}
	f.useCase = NewTokenizationUseCase(
		config,
		passthroughTxManager{},
		f.repo,
		cryptoService.NewEnvelopeCodec(keys),
		tokenizationService.NewHandleGenerator(),
		tokenizationService.NewHMACFingerprinter(bytes.Repeat([]byte{0x24}, 32)),
		f.audit,
		WithClock(func() time.Time { return f.now }),
	)
	return f
}
