// Package domain defines the report models computed over tokens and audit events.
package domain

import "time"

// RetentionPeriod is the age past which a still-active token counts as a
// data retention violation.
const RetentionPeriod = 90 * 24 * time.Hour

// TokenStats are the raw token aggregates of one owner.
type TokenStats struct {
	Total   int64
	Active  int64
	Expired int64
	// WithinPolicy counts tokens whose lifespan does not exceed the maximum expiry.
	WithinPolicy int64
	// RetentionViolations counts active tokens created before the retention cutoff.
	RetentionViolations  int64
	AverageLifespanHours float64
}

// ScanStats are the raw scan aggregates taken from the audit trail.
type ScanStats struct {
	Scans             int64
	AverageDurationMS float64
	DetectionsByType  map[string]int64
}

// TokenizationMetrics summarises an owner's tokens.
type TokenizationMetrics struct {
	TotalTokens   int64
	ActiveTokens  int64
	ExpiredTokens int64
	// RevokedTokens counts revoke events, including repeated revokes.
	RevokedTokens             int64
	AverageTokenLifespanHours float64
}

// ComplianceMetrics are percentages in [0, 100].
type ComplianceMetrics struct {
	TokenExpiryCompliance   float64
	DataRetentionCompliance float64
	ScanningCoverage        float64
	UnusedTokenPercentage   float64
}

// ScannerMetrics summarises scan activity.
type ScannerMetrics struct {
	TotalScans            int64
	TotalFindings         int64
	AverageScanDurationMS float64
	DetectionsByType      map[string]int64
}
