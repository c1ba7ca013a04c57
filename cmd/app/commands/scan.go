package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
	scannerDTO "github.com/allisson/tokenvault/internal/scanner/http/dto"
	scannerUseCase "github.com/allisson/tokenvault/internal/scanner/usecase"
)

// RunScan performs one scan of the configured sources and prints the report.
func RunScan(
	ctx context.Context,
	useCase scannerUseCase.ScannerUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("starting scan")

	report, err := useCase.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, scannerDTO.MapReportToResponse(report))
	}
	outputScanText(writer, report)
	return nil
}

func outputScanText(writer io.Writer, report *scannerDomain.Report) {
	_, _ = fmt.Fprintf(writer, "Scan Report\n")
	_, _ = fmt.Fprintf(writer, "===========\n\n")
	_, _ = fmt.Fprintf(writer, "Duration:    %s\n", report.Duration)
	_, _ = fmt.Fprintf(writer, "Sources:     %d\n", report.Sources)
	_, _ = fmt.Fprintf(writer, "Objects:     %d\n", report.Objects)
	_, _ = fmt.Fprintf(writer, "Findings:    %d\n", report.Findings)
	_, _ = fmt.Fprintf(writer, "Tokenized:   %d\n", report.Tokenized)
	_, _ = fmt.Fprintf(writer, "Duplicates:  %d\n", report.Duplicates)
	_, _ = fmt.Fprintf(writer, "Failed:      %d\n", report.Failed)

	if len(report.ByInfoType) == 0 {
		return
	}
	_, _ = fmt.Fprintf(writer, "\nFindings by type:\n")
	for _, infoType := range slices.Sorted(maps.Keys(report.ByInfoType)) {
		_, _ = fmt.Fprintf(writer, "  %-28s %d\n", infoType, report.ByInfoType[infoType])
	}
}
