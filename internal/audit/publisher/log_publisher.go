package publisher

import (
	"context"
	"log/slog"

	"github.com/goccy/go-json"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

// LogPublisher writes relayed events to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (l *LogPublisher) Publish(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	var msg auditDomain.Message
	if err := json.Unmarshal(entry.Payload, &msg); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "audit event",
		slog.String("event_id", msg.ID.String()),
		slog.String("owner_id", msg.OwnerID.String()),
		slog.String("action", string(msg.Action)),
		slog.Any("details", msg.Details),
		slog.Time("created_at", msg.CreatedAt),
	)
	return nil
}
