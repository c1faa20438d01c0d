// Package memory is an in-process Table used by tests and the memory backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"jiaban/internal/sheet"
)

type Store struct {
	mu   sync.Mutex
	cols int
	rows [][]string // rows[0] is the header
}

var _ sheet.Table = (*Store)(nil)

// New creates a store holding just the header row.
func New(header []string) *Store {
	h := append([]string(nil), header...)
	return &Store{cols: len(h), rows: [][]string{h}}
}

// Rows returns a copy of all rows, header included. Test helper.
func (s *Store) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (s *Store) Find(_ context.Context, key string, col int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if cellAt(r, col) == key {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (s *Store) ColumnValues(_ context.Context, col int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = cellAt(r, col)
	}
	return out, nil
}

func (s *Store) Range(_ context.Context, r1, c1, r2, c2 int) ([][]string, error) {
	if r1 < 1 || c1 < 1 || r2 < r1 || c2 < c1 {
		return nil, fmt.Errorf("invalid range %d,%d:%d,%d", r1, c1, r2, c2)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, 0, r2-r1+1)
	for row := r1; row <= r2; row++ {
		line := make([]string, 0, c2-c1+1)
		for col := c1; col <= c2; col++ {
			if row <= len(s.rows) {
				line = append(line, cellAt(s.rows[row-1], col))
			} else {
				line = append(line, "")
			}
		}
		out = append(out, line)
	}
	return out, nil
}

func (s *Store) UpdateCell(_ context.Context, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCell(row, col, value)
}

func (s *Store) BatchUpdate(_ context.Context, updates []sheet.CellUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		if err := s.setCell(u.Row, u.Col, u.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) InsertRow(_ context.Context, values []string, at int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at < 1 {
		return fmt.Errorf("insert row index %d out of range", at)
	}
	row := s.pad(values)
	if at > len(s.rows) {
		s.rows = append(s.rows, row)
		return nil
	}
	s.rows = append(s.rows, nil)
	copy(s.rows[at:], s.rows[at-1:])
	s.rows[at-1] = row
	return nil
}

func (s *Store) AppendRows(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rows = append(s.rows, s.pad(r))
	}
	return nil
}

func (s *Store) setCell(row, col int, value string) error {
	if row < 1 || row > len(s.rows) || col < 1 || col > s.cols {
		return fmt.Errorf("cell %d,%d out of range", row, col)
	}
	s.rows[row-1][col-1] = value
	return nil
}

func (s *Store) pad(values []string) []string {
	row := make([]string, s.cols)
	copy(row, values)
	return row
}

func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
