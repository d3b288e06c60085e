package services

import (
	"errors"

	"parbids/internal/journal"
)

// ResultStatus maps a scan-group error to the journal status the orchestrator
// should record. A nil error means the conversion succeeded; a recognized
// geometric limitation is an expected skip rather than a failure.
func ResultStatus(err error) journal.Status {
	switch {
	case err == nil:
		return journal.StatusSucceeded
	case errors.Is(err, ErrUnsupportedGeometry):
		return journal.StatusSkipped
	default:
		return journal.StatusFailed
	}
}
