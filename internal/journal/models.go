package journal

import "time"

// Status represents the outcome of one scan group.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{StatusSucceeded, StatusSkipped, StatusFailed}

// Valid reports whether the status is one of the known outcomes.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Run describes one batch invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Succeeded  int
	Skipped    int
	Failed     int
}

// Record describes the outcome of one scan group within a run.
type Record struct {
	ID         int64
	RunID      string
	Subject    string
	Session    string
	ScanName   string
	SourcePath string
	OutputPath string
	Status     Status
	Reason     string
	CreatedAt  time.Time
}
