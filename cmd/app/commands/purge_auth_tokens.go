package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	authUseCase "github.com/allisson/tokenvault/internal/auth/usecase"
)

// RunPurgeAuthTokens deletes bearer tokens that expired more than grace ago.
func RunPurgeAuthTokens(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	grace time.Duration,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	removed, err := tokenUseCase.PurgeExpired(ctx, grace)
	if err != nil {
		return fmt.Errorf("failed to purge bearer tokens: %w", err)
	}
	logger.Info("expired bearer tokens purged",
		slog.Int64("removed", removed),
		slog.Duration("grace", grace),
	)

	if format == "json" {
		return writeJSON(writer, map[string]int64{"removed": removed})
	}
	_, _ = fmt.Fprintf(writer, "Removed %d expired bearer token(s)\n", removed)
	return nil
}
