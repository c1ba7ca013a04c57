package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	auditUseCase "github.com/allisson/tokenvault/internal/audit/usecase"
)

type verifyResult struct {
	From          time.Time   `json:"from"`
	To            time.Time   `json:"to"`
	TotalChecked  int64       `json:"total_checked"`
	SignedCount   int64       `json:"signed_count"`
	UnsignedCount int64       `json:"unsigned_count"`
	ValidCount    int64       `json:"valid_count"`
	InvalidCount  int64       `json:"invalid_count"`
	InvalidEvents []uuid.UUID `json:"invalid_events"`
	Passed        bool        `json:"passed"`
}

func newVerifyResult(report *auditDomain.VerificationReport, from, to time.Time) verifyResult {
	invalid := report.InvalidEvents
	if invalid == nil {
		invalid = []uuid.UUID{}
	}
	return verifyResult{
		From:          from,
		To:            to,
		TotalChecked:  report.TotalChecked,
		SignedCount:   report.SignedCount,
		UnsignedCount: report.UnsignedCount,
		ValidCount:    report.ValidCount,
		InvalidCount:  report.InvalidCount,
		InvalidEvents: invalid,
		Passed:        report.InvalidCount == 0,
	}
}

func (r verifyResult) status() string {
	switch {
	case !r.Passed:
		return "FAILED"
	case r.TotalChecked == 0:
		return "No events found in specified time range"
	default:
		return "PASSED"
	}
}

func (r verifyResult) writeText(w io.Writer) {
	const title = "Audit Log Integrity Verification"

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(&b, "Time Range: %s to %s\n\n", r.From.Format(time.DateTime), r.To.Format(time.DateTime))

	rows := []struct {
		label string
		value int64
	}{
		{"Total Checked", r.TotalChecked},
		{"Signed", r.SignedCount},
		{"Unsigned", r.UnsignedCount},
		{"Valid", r.ValidCount},
		{"Invalid", r.InvalidCount},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%-15s %d\n", row.label+":", row.value)
	}
	b.WriteString("\n")

	if !r.Passed {
		fmt.Fprintf(&b, "WARNING: %d event(s) failed integrity check!\n\nInvalid Event IDs:\n", r.InvalidCount)
		for _, id := range r.InvalidEvents {
			fmt.Fprintf(&b, "  - %s\n", id)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Status: %s\n", r.status())

	_, _ = io.WriteString(w, b.String())
}

// RunVerifyAuditLogs checks the HMAC signature of every audit event created in
// the range and fails when any signature does not verify.
func RunVerifyAuditLogs(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return err
	}

	logger.Info("verifying audit logs", slog.Time("from", from), slog.Time("to", to))

	report, err := useCase.VerifyBatch(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to verify audit logs: %w", err)
	}
	result := newVerifyResult(report, from, to)

	if format == "json" {
		if err := writeJSON(writer, result); err != nil {
			return err
		}
	} else {
		result.writeText(writer)
	}

	logger.Info("verification completed",
		slog.Int64("total_checked", result.TotalChecked),
		slog.Int64("valid", result.ValidCount),
		slog.Int64("invalid", result.InvalidCount),
		slog.Int64("unsigned", result.UnsignedCount),
	)

	if !result.Passed {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", result.InvalidCount)
	}
	return nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	to, err := parseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date")
	}
	return from, to, nil
}
