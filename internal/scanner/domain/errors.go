package domain

import (
	"github.com/allisson/tokenvault/internal/errors"
)

var (
	// ErrScanInProgress is returned when a run is requested while another is active.
	ErrScanInProgress = errors.Wrap(errors.ErrConflict, "scan already in progress")

	// ErrNoSources is returned when the scanner has nothing configured to scan.
	ErrNoSources = errors.Wrap(errors.ErrInvalidInput, "no scan sources configured")
)
