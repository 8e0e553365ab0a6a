package ingest

import (
	"fmt"
	"log/slog"
	"sort"
)

// Stats holds statistics about one calculation run.
type Stats struct {
	RowsRead        int
	Accepted        int
	SkippedCurrency int
	Rejected        int
	FeesCalculated  int
	Persisted       bool
	Failures        map[int]string
}

// NewStats creates and initializes a new Stats object.
func NewStats() *Stats {
	return &Stats{
		Failures: make(map[int]string),
	}
}

// AddFailure records a rejected row and its reason.
func (s *Stats) AddFailure(line int, reason string) {
	s.Rejected++
	s.Failures[line] = reason
}

// Log prints the final statistics to the provided logger.
func (s *Stats) Log(logger *slog.Logger) {
	logger.Info("--- Commission Run Stats ---")
	logger.Info(fmt.Sprintf("Rows read: %d", s.RowsRead))
	logger.Info(fmt.Sprintf("Transactions accepted: %d", s.Accepted))
	logger.Info(fmt.Sprintf("Rows with unsupported currency: %d", s.SkippedCurrency))
	logger.Info(fmt.Sprintf("Rows rejected: %d", s.Rejected))
	logger.Info(fmt.Sprintf("Fees calculated: %d", s.FeesCalculated))
	if s.Rejected > 0 {
		logger.Info("Rejected rows:")
		lines := make([]int, 0, len(s.Failures))
		for line := range s.Failures {
			lines = append(lines, line)
		}
		sort.Ints(lines)
		for _, line := range lines {
			logger.Info(fmt.Sprintf("- line %d: %s", line, s.Failures[line]))
		}
	}
	logger.Info("----------------------------")
}
