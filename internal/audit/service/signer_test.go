package service

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

func testEvent() *auditDomain.Event {
	return &auditDomain.Event{
		ID:      uuid.MustParse("0190a3b4-0000-7000-8000-000000000001"),
		OwnerID: uuid.MustParse("0190a3b4-0000-7000-8000-000000000002"),
		Action:  auditDomain.ActionCreate,
		Details: map[string]any{
			auditDomain.DetailToken:         "abc",
			auditDomain.DetailKeyGeneration: uint64(1),
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 123456000, time.UTC),
	}
}

func TestSigner_SignVerify(t *testing.T) {
	signer := NewSigner([]byte("0123456789abcdef0123456789abcdef"))

	event := testEvent()
	sig, err := signer.Sign(event)
	require.NoError(t, err)
	assert.Len(t, sig, 32)

	event.Signature = sig
	assert.NoError(t, signer.Verify(event))
}

func TestSigner_DetectsTampering(t *testing.T) {
	signer := NewSigner([]byte("0123456789abcdef0123456789abcdef"))

	tests := []struct {
		name   string
		mutate func(*auditDomain.Event)
	}{
		{name: "Owner", mutate: func(e *auditDomain.Event) { e.OwnerID = uuid.New() }},
		{name: "Action", mutate: func(e *auditDomain.Event) { e.Action = auditDomain.ActionRevoke }},
		{name: "Details", mutate: func(e *auditDomain.Event) { e.Details[auditDomain.DetailToken] = "xyz" }},
		{name: "NilDetails", mutate: func(e *auditDomain.Event) { e.Details = nil }},
		{name: "Timestamp", mutate: func(e *auditDomain.Event) { e.CreatedAt = e.CreatedAt.Add(time.Microsecond) }},
		{name: "Signature", mutate: func(e *auditDomain.Event) { e.Signature[0] ^= 0xff }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := testEvent()
			sig, err := signer.Sign(event)
			require.NoError(t, err)
			event.Signature = sig

			tt.mutate(event)
			assert.ErrorIs(t, signer.Verify(event), auditDomain.ErrSignatureInvalid)
		})
	}
}

func TestSigner_DifferentKey(t *testing.T) {
	event := testEvent()
	sig, err := NewSigner([]byte("key-one")).Sign(event)
	require.NoError(t, err)
	event.Signature = sig

	assert.ErrorIs(t, NewSigner([]byte("key-two")).Verify(event), auditDomain.ErrSignatureInvalid)
}

// Details are persisted as JSON, so a signature must survive a decode round trip.
func TestSigner_StableAcrossJSONRoundTrip(t *testing.T) {
	signer := NewSigner([]byte("0123456789abcdef0123456789abcdef"))
	event := testEvent()
	event.Details["nested"] = map[string]any{"b": 2, "a": []any{"x", true}}

	sig, err := signer.Sign(event)
	require.NoError(t, err)

	raw, err := json.Marshal(event.Details)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	stored := *event
	stored.Details = decoded
	stored.Signature = sig
	assert.NoError(t, signer.Verify(&stored))
}

func TestSigner_TruncatesToMicroseconds(t *testing.T) {
	signer := NewSigner([]byte("k"))
	a := testEvent()
	b := testEvent()
	b.CreatedAt = b.CreatedAt.Add(500 * time.Nanosecond)

	sa, err := signer.Sign(a)
	require.NoError(t, err)
	sb, err := signer.Sign(b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}
