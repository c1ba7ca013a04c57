// Package commands implements the CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/tokenvault/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := m.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// writeJSON writes v indented, followed by a newline.
func writeJSON(writer io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}

func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q (valid options: text, json)", format)
	}
	return nil
}

// parseDate accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS" in UTC.
func parseDate(dateStr string) (time.Time, error) {
	if t, err := time.Parse(time.DateTime, dateStr); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"invalid date format (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS): %s",
			dateStr,
		)
	}
	return t, nil
}

// parseOptionalDate returns nil for an empty value. A date-only end bound
// covers the whole day.
func parseOptionalDate(dateStr string, endOfDay bool) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	t, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if endOfDay && len(dateStr) == len(time.DateOnly) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
