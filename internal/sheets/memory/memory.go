package memory

import (
	"context"
	"slices"
	"sync"

	"foodtracker/internal/core"
	"foodtracker/internal/sheets"
)

var _ sheets.Mirror = (*Store)(nil)

// Store keeps the mirrored summary in process.
type Store struct {
	mu     sync.Mutex
	rows   []core.DayRow
	writes int
}

func New() *Store {
	return &Store{}
}

// ReplaceSummary stores a copy of rows.
func (s *Store) ReplaceSummary(_ context.Context, rows []core.DayRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = slices.Clone(rows)
	s.writes++
	return nil
}

func (s *Store) ReadSummary(_ context.Context) ([]core.DayRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rows), nil
}

// Writes reports how many times the summary was replaced.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
