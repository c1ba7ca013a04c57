package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	reportingDTO "github.com/allisson/tokenvault/internal/reporting/http/dto"
	reportingUseCase "github.com/allisson/tokenvault/internal/reporting/usecase"
)

// Report kinds accepted by RunReport.
const (
	ReportTokenization = "tokenization"
	ReportCompliance   = "compliance"
	ReportScanner      = "scanner"
)

// ReportOptions selects what RunReport prints. ClientID is required for the
// tokenization and compliance reports; From and To bound the tokenization
// and scanner reports.
type ReportOptions struct {
	Kind     string
	ClientID string
	From     string
	To       string
	Format   string
}

// RunReport prints one of the tokenization, compliance or scanner reports.
func RunReport(
	ctx context.Context,
	useCase reportingUseCase.ReportingUseCase,
	logger *slog.Logger,
	writer io.Writer,
	opts ReportOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	from, err := parseOptionalDate(opts.From, false)
	if err != nil {
		return fmt.Errorf("invalid from date: %w", err)
	}
	to, err := parseOptionalDate(opts.To, true)
	if err != nil {
		return fmt.Errorf("invalid to date: %w", err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return fmt.Errorf("to date must not be before from date")
	}

	logger.Info("building report", slog.String("kind", opts.Kind))

	switch opts.Kind {
	case ReportTokenization:
		ownerID, err := parseClientID(opts.ClientID)
		if err != nil {
			return err
		}
		metrics, err := useCase.TokenizationMetrics(ctx, ownerID, from, to)
		if err != nil {
			return fmt.Errorf("failed to build tokenization report: %w", err)
		}
		response := reportingDTO.MapTokenizationMetrics(metrics)
		if opts.Format == "json" {
			return writeJSON(writer, response)
		}
		_, _ = fmt.Fprintf(writer, "Tokenization Report\n===================\n\n")
		_, _ = fmt.Fprintf(writer, "Total tokens:             %d\n", response.TotalTokens)
		_, _ = fmt.Fprintf(writer, "Active tokens:            %d\n", response.ActiveTokens)
		_, _ = fmt.Fprintf(writer, "Expired tokens:           %d\n", response.ExpiredTokens)
		_, _ = fmt.Fprintf(writer, "Revoked tokens:           %d\n", response.RevokedTokens)
		_, _ = fmt.Fprintf(writer, "Average lifespan (hours): %.2f\n", response.AverageTokenLifespanHours)

	case ReportCompliance:
		ownerID, err := parseClientID(opts.ClientID)
		if err != nil {
			return err
		}
		metrics, err := useCase.ComplianceMetrics(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to build compliance report: %w", err)
		}
		response := reportingDTO.MapComplianceMetrics(metrics)
		if opts.Format == "json" {
			return writeJSON(writer, response)
		}
		_, _ = fmt.Fprintf(writer, "Compliance Report\n=================\n\n")
		_, _ = fmt.Fprintf(writer, "Token expiry compliance:   %.2f%%\n", response.TokenExpiryCompliance)
		_, _ = fmt.Fprintf(writer, "Data retention compliance: %.2f%%\n", response.DataRetentionCompliance)
		_, _ = fmt.Fprintf(writer, "Scanning coverage:         %.2f%%\n", response.ScanningCoverage)
		_, _ = fmt.Fprintf(writer, "Unused tokens:             %.2f%%\n", response.UnusedTokenPercentage)

	case ReportScanner:
		metrics, err := useCase.ScannerMetrics(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to build scanner report: %w", err)
		}
		response := reportingDTO.MapScannerMetrics(metrics)
		if opts.Format == "json" {
			return writeJSON(writer, response)
		}
		_, _ = fmt.Fprintf(writer, "Scanner Report\n==============\n\n")
		_, _ = fmt.Fprintf(writer, "Total scans:           %d\n", response.TotalScans)
		_, _ = fmt.Fprintf(writer, "Total findings:        %d\n", response.TotalFindings)
		_, _ = fmt.Fprintf(writer, "Average duration (ms): %.0f\n", response.AverageScanDurationMS)
		for _, infoType := range slices.Sorted(maps.Keys(response.DetectionsByType)) {
			_, _ = fmt.Fprintf(writer, "  %-28s %d\n", infoType, response.DetectionsByType[infoType])
		}

	default:
		return fmt.Errorf(
			"invalid report kind %q (valid options: %s, %s, %s)",
			opts.Kind, ReportTokenization, ReportCompliance, ReportScanner,
		)
	}

	return nil
}

func parseClientID(clientID string) (uuid.UUID, error) {
	if clientID == "" {
		return uuid.Nil, fmt.Errorf("--client-id is required for this report")
	}
	id, err := uuid.Parse(clientID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid client id: %w", err)
	}
	return id, nil
}
