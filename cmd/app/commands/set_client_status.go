package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authUseCase "github.com/allisson/tokenvault/internal/auth/usecase"
)

// RunSetClientStatus enables or disables an API client. A disabled client can
// neither obtain nor use bearer tokens; tokens it already created stay valid.
func RunSetClientStatus(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	writer io.Writer,
	rawID string,
	active bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	clientID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid client id %q: %w", rawID, err)
	}

	if err := clientUseCase.SetActive(ctx, clientID, active); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	logger.Info("client status updated",
		slog.String("client_id", clientID.String()),
		slog.Bool("is_active", active),
	)

	if format == "json" {
		return writeJSON(writer, struct {
			ClientID string `json:"client_id"`
			IsActive bool   `json:"is_active"`
		}{clientID.String(), active})
	}

	state := "disabled"
	if active {
		state = "enabled"
	}
	_, _ = fmt.Fprintf(writer, "Client %s %s\n", clientID, state)
	return nil
}
