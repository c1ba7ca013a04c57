package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	authUseCase "github.com/allisson/tokenvault/internal/auth/usecase"
)

// RunCreateClient creates an API client and prints its id and plain secret.
// An empty name is read from io.Reader. The secret cannot be recovered later.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	name string,
	isActive bool,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if name == "" {
		var err error
		if name, err = promptForName(io); err != nil {
			return err
		}
	}

	logger.Info("creating new client", slog.String("name", name))

	output, err := clientUseCase.Create(ctx, &authDomain.CreateClientInput{
		Name:     name,
		IsActive: isActive,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]string{
			"client_id":     output.ID.String(),
			"client_secret": output.PlainSecret,
		}); err != nil {
			return err
		}
	} else {
		outputClientText(io.Writer, output)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ID.String()),
		slog.Bool("is_active", isActive),
	)
	return nil
}

func promptForName(io IOTuple) (string, error) {
	_, _ = fmt.Fprint(io.Writer, "Client name: ")
	scanner := bufio.NewScanner(io.Reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read client name: %w", err)
		}
		return "", fmt.Errorf("client name is required")
	}
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		return "", fmt.Errorf("client name is required")
	}
	return name, nil
}

func outputClientText(writer io.Writer, output *authDomain.CreateClientOutput) {
	_, _ = fmt.Fprintf(writer, "Client ID:     %s\n", output.ID)
	_, _ = fmt.Fprintf(writer, "Client Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "WARNING: Save the client secret securely. It will not be shown again.")
}
