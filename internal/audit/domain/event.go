// Package domain defines the audit event model, the closed action set and the outbox
// entries used to relay events.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action is a lifecycle or collaborator event type.
type Action string

const (
	ActionCreate      Action = "create"
	ActionDetokenize  Action = "detokenize"
	ActionExtend      Action = "extend"
	ActionRevoke      Action = "revoke"
	ActionScanStarted Action = "scan_started"
	// ActionScanTokenize records one finding tokenized by a scan.
	ActionScanTokenize  Action = "scan_tokenize"
	ActionScanCompleted Action = "scan_completed"
	ActionScanFailed    Action = "scan_failed"
)

// Actions lists every accepted action.
var Actions = []Action{
	ActionCreate,
	ActionDetokenize,
	ActionExtend,
	ActionRevoke,
	ActionScanStarted,
	ActionScanTokenize,
	ActionScanCompleted,
	ActionScanFailed,
}

// Valid reports whether a is part of the closed action set.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Detail keys shared by producers and reports.
const (
	DetailToken          = "token"
	DetailKeyGeneration  = "key_generation"
	DetailExpiresAt      = "expires_at"
	DetailHours          = "hours"
	DetailAlreadyExpired = "already_expired"
	DetailBulk           = "bulk"
	DetailInfoType       = "info_type"
	DetailBucket         = "bucket"
	DetailObject         = "object"
	DetailBuckets        = "buckets"
	DetailObjects        = "objects"
	DetailFindings       = "findings"
	DetailDurationMS     = "duration_ms"
	DetailError          = "error"
)

// forbiddenDetailKeys may never carry data into the audit trail.
var forbiddenDetailKeys = []string{"plaintext", "data", "fields", "value", "envelope"}

// Event is an append-only audit record. Signature is an HMAC over the canonical
// encoding of every other field.
type Event struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Action    Action
	Details   map[string]any
	CreatedAt time.Time
	Signature []byte
}

// IsSigned reports whether the event carries a signature.
func (e *Event) IsSigned() bool {
	return len(e.Signature) > 0
}

// Filter narrows List queries. Zero values mean no restriction.
type Filter struct {
	OwnerID *uuid.UUID
	Action  Action
	From    *time.Time
	To      *time.Time
	Offset  int
	Limit   int
}

// VerificationReport summarizes a signature check over a time range.
type VerificationReport struct {
	TotalChecked  int64
	SignedCount   int64
	UnsignedCount int64
	ValidCount    int64
	InvalidCount  int64
	InvalidEvents []uuid.UUID
}
