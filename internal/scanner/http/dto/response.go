// Package dto holds the scanner response bodies.
package dto

import (
	"time"

	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

// ScanReportResponse summarises one completed run.
type ScanReportResponse struct {
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Sources    int            `json:"sources"`
	Objects    int            `json:"objects"`
	Findings   int            `json:"findings"`
	Tokenized  int            `json:"tokenized"`
	Duplicates int            `json:"duplicates"`
	Failed     int            `json:"failed"`
	ByInfoType map[string]int `json:"by_info_type"`
}

// ScannerStatusResponse is the scanner state.
type ScannerStatusResponse struct {
	Scheduled     bool       `json:"scheduled"`
	Running       bool       `json:"running"`
	TotalScans    int64      `json:"total_scans"`
	TotalFindings int64      `json:"total_findings"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

func MapReportToResponse(report *scannerDomain.Report) ScanReportResponse {
	byInfoType := make(map[string]int, len(report.ByInfoType))
	for infoType, count := range report.ByInfoType {
		byInfoType[string(infoType)] = count
	}
	return ScanReportResponse{
		StartedAt:  report.StartedAt,
		DurationMS: report.Duration.Milliseconds(),
		Sources:    report.Sources,
		Objects:    report.Objects,
		Findings:   report.Findings,
		Tokenized:  report.Tokenized,
		Duplicates: report.Duplicates,
		Failed:     report.Failed,
		ByInfoType: byInfoType,
	}
}

func MapStatusToResponse(status scannerDomain.Status, scheduled bool) ScannerStatusResponse {
	return ScannerStatusResponse{
		Scheduled:     scheduled,
		Running:       status.Running,
		TotalScans:    status.TotalScans,
		TotalFindings: status.TotalFindings,
		LastRunAt:     status.LastRunAt,
		LastError:     status.LastError,
	}
}
