// Package dto holds the audit log response bodies.
package dto

import (
	"time"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

// AuditEventResponse is one audit event. The signature is not exposed.
type AuditEventResponse struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Signed    bool           `json:"signed"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListAuditEventsResponse is a page of audit events, newest first.
type ListAuditEventsResponse struct {
	Data   []AuditEventResponse `json:"data"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

func MapEventToResponse(event *auditDomain.Event) AuditEventResponse {
	return AuditEventResponse{
		ID:        event.ID.String(),
		OwnerID:   event.OwnerID.String(),
		Action:    string(event.Action),
		Details:   event.Details,
		Signed:    event.IsSigned(),
		CreatedAt: event.CreatedAt,
	}
}

func MapEventsToListResponse(events []*auditDomain.Event, offset, limit int) ListAuditEventsResponse {
	data := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		data = append(data, MapEventToResponse(event))
	}
	return ListAuditEventsResponse{Data: data, Offset: offset, Limit: limit}
}
