package workflow

import (
	"parbids/internal/bids"
	"parbids/internal/journal"
)

// Result is the outcome of one scan group.
type Result struct {
	Group      ScanGroup
	Identity   bids.Identity
	OutputPath string
	Status     journal.Status
	Reason     string
}

// Summary aggregates the outcomes of one batch run.
type Summary struct {
	RunID     string
	Results   []Result
	Succeeded int
	Skipped   int
	Failed    int
}

func (s *Summary) add(result Result) {
	s.Results = append(s.Results, result)
	switch result.Status {
	case journal.StatusSucceeded:
		s.Succeeded++
	case journal.StatusSkipped:
		s.Skipped++
	case journal.StatusFailed:
		s.Failed++
	}
}

// Total returns the number of scan groups processed.
func (s *Summary) Total() int {
	return len(s.Results)
}
