package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the relay state of an outbox entry.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxEntry queues one audit event for delivery to an external sink. It is written in
// the same transaction as the event itself.
type OutboxEntry struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	Attempts    int
	LastError   *string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Message is the relayed representation of an event.
type Message struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Action    Action         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Signature []byte         `json:"signature"`
}

// NewMessage copies the relayed fields of event.
func NewMessage(event *Event) Message {
	return Message{
		ID:        event.ID,
		OwnerID:   event.OwnerID,
		Action:    event.Action,
		Details:   event.Details,
		CreatedAt: event.CreatedAt,
		Signature: event.Signature,
	}
}
