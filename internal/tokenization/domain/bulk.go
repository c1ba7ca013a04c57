package domain

import "time"

// BulkStatus is the per-item outcome of a bulk create.
type BulkStatus string

const (
	BulkStatusCreated   BulkStatus = "created"
	BulkStatusDuplicate BulkStatus = "duplicate"
	BulkStatusFailed    BulkStatus = "failed"
)

// BulkItem is one entry of a bulk create request. ExpiryHours zero means the default.
type BulkItem struct {
	Fields      Fields
	ExpiryHours int
}

// BulkResult reports one item, at the same index as the request item. For duplicates
// Token is the handle of the pre-existing token (or of the earlier item in the batch).
type BulkResult struct {
	Index     int
	Status    BulkStatus
	Token     string
	ExpiresAt *time.Time
	Error     error
}

// BulkSummary aggregates per-item outcomes. Duplicates are not failures.
type BulkSummary struct {
	Total      int
	Created    int
	Duplicates int
	Failed     int
}

// BulkOutput is the bulk create response.
type BulkOutput struct {
	Results []BulkResult
	Summary BulkSummary
}

// Summarize counts results by status.
func Summarize(results []BulkResult) BulkSummary {
	summary := BulkSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case BulkStatusCreated:
			summary.Created++
		case BulkStatusDuplicate:
			summary.Duplicates++
		case BulkStatusFailed:
			summary.Failed++
		}
	}
	return summary
}
