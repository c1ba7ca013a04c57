// Package usecase runs object storage scans and tokenizes what they find.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
	scannerService "github.com/allisson/tokenvault/internal/scanner/service"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

// ObjectSource is a bucket-like store the scanner can enumerate and read.
type ObjectSource interface {
	Name() string
	List(ctx context.Context) ([]scannerDomain.ObjectRef, error)
	// Read returns at most limit bytes from the start of the object.
	Read(ctx context.Context, key string, limit int64) ([]byte, error)
}

// Inspector finds sensitive values in raw content.
type Inspector interface {
	Inspect(data []byte) []scannerService.Match
}

// Tokenizer is the token lifecycle surface a scan needs.
type Tokenizer interface {
	CreateBulk(
		ctx context.Context,
		ownerID uuid.UUID,
		items []tokenizationDomain.BulkItem,
	) (*tokenizationDomain.BulkOutput, error)
}

// AuditRecorder appends scan events to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, ownerID uuid.UUID, action auditDomain.Action, details map[string]any) error
}

// ScannerUseCase scans the configured sources on demand or on a schedule.
type ScannerUseCase interface {
	// Scan performs one run. Only one run may be active at a time.
	Scan(ctx context.Context) (*scannerDomain.Report, error)

	Status() scannerDomain.Status
}
