// Package dto holds the report response bodies.
package dto

import reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"

type TokenizationReportResponse struct {
	TotalTokens               int64   `json:"total_tokens"`
	ActiveTokens              int64   `json:"active_tokens"`
	ExpiredTokens             int64   `json:"expired_tokens"`
	RevokedTokens             int64   `json:"revoked_tokens"`
	AverageTokenLifespanHours float64 `json:"average_token_lifespan_hours"`
}

type ComplianceReportResponse struct {
	TokenExpiryCompliance   float64 `json:"token_expiry_compliance"`
	DataRetentionCompliance float64 `json:"data_retention_compliance"`
	ScanningCoverage        float64 `json:"scanning_coverage"`
	UnusedTokenPercentage   float64 `json:"unused_token_percentage"`
}

type ScannerReportResponse struct {
	TotalScans            int64            `json:"total_scans"`
	TotalFindings         int64            `json:"total_findings"`
	AverageScanDurationMS float64          `json:"average_scan_duration_ms"`
	DetectionsByType      map[string]int64 `json:"detections_by_type"`
}

func MapTokenizationMetrics(m *reportingDomain.TokenizationMetrics) TokenizationReportResponse {
	return TokenizationReportResponse{
		TotalTokens:               m.TotalTokens,
		ActiveTokens:              m.ActiveTokens,
		ExpiredTokens:             m.ExpiredTokens,
		RevokedTokens:             m.RevokedTokens,
		AverageTokenLifespanHours: m.AverageTokenLifespanHours,
	}
}

func MapComplianceMetrics(m *reportingDomain.ComplianceMetrics) ComplianceReportResponse {
	return ComplianceReportResponse{
		TokenExpiryCompliance:   m.TokenExpiryCompliance,
		DataRetentionCompliance: m.DataRetentionCompliance,
		ScanningCoverage:        m.ScanningCoverage,
		UnusedTokenPercentage:   m.UnusedTokenPercentage,
	}
}

func MapScannerMetrics(m *reportingDomain.ScannerMetrics) ScannerReportResponse {
	detections := m.DetectionsByType
	if detections == nil {
		detections = map[string]int64{}
	}
	return ScannerReportResponse{
		TotalScans:            m.TotalScans,
		TotalFindings:         m.TotalFindings,
		AverageScanDurationMS: m.AverageScanDurationMS,
		DetectionsByType:      detections,
	}
}
