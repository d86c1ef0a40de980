// Package reveal tracks which cells of the grid have been uncovered.
package reveal

import (
	"fmt"

	"svw.info/picreveal/internal/domain"
)

// State is a rows x cols matrix of revealed flags. count always equals the
// number of true entries.
type State struct {
	rows, cols int
	cells      [][]bool
	count      int
}

// New returns an all-hidden grid. Non-positive sizes yield an empty grid.
func New(rows, cols int) *State {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([][]bool, rows)
	for r := range cells {
		cells[r] = make([]bool, cols)
	}
	return &State{rows: rows, cols: cols, cells: cells}
}

// Restore adopts a saved matrix. The matrix is copied.
func Restore(rows, cols int, matrix [][]bool) (*State, error) {
	if rows < 1 || cols < 1 || len(matrix) != rows {
		return nil, fmt.Errorf("%w: want %dx%d, got %d rows", domain.ErrDimensionMismatch, rows, cols, len(matrix))
	}
	s := New(rows, cols)
	for r, row := range matrix {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", domain.ErrDimensionMismatch, r, len(row), cols)
		}
		for c, v := range row {
			if v {
				s.cells[r][c] = true
				s.count++
			}
		}
	}
	return s, nil
}

func (s *State) Rows() int  { return s.rows }
func (s *State) Cols() int  { return s.cols }
func (s *State) Count() int { return s.count }

// Total is the number of cells in the grid.
func (s *State) Total() int { return s.rows * s.cols }

func (s *State) inBounds(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.cols
}

// Revealed reports whether the cell is uncovered. Out of range cells read as
// hidden.
func (s *State) Revealed(row, col int) bool {
	return s.inBounds(row, col) && s.cells[row][col]
}

// Reveal uncovers a cell. The bool is false when the cell was already
// revealed, in which case no event is produced.
func (s *State) Reveal(row, col int) (domain.RevealEvent, bool, error) {
	if !s.inBounds(row, col) {
		return domain.RevealEvent{}, false, fmt.Errorf("%w: (%d,%d) on %dx%d", domain.ErrOutOfRange, row, col, s.rows, s.cols)
	}
	if s.cells[row][col] {
		return domain.RevealEvent{}, false, nil
	}
	s.cells[row][col] = true
	s.count++
	return domain.RevealEvent{Row: row, Col: col, RevealCount: s.count}, true, nil
}

// RevealAll uncovers every hidden cell in row-major order and returns one
// event per newly revealed cell.
func (s *State) RevealAll() []domain.RevealEvent {
	var out []domain.RevealEvent
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if ev, ok, _ := s.Reveal(r, c); ok {
				out = append(out, ev)
			}
		}
	}
	return out
}

func (s *State) IsComplete() bool { return s.count == s.rows*s.cols }

// Unrevealed lists hidden cells in row-major order.
func (s *State) Unrevealed() []domain.CellCoord {
	out := make([]domain.CellCoord, 0, s.Total()-s.count)
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if !s.cells[r][c] {
				out = append(out, domain.CellCoord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Matrix returns a copy of the revealed flags.
func (s *State) Matrix() [][]bool {
	out := make([][]bool, s.rows)
	for r := range s.cells {
		out[r] = append([]bool(nil), s.cells[r]...)
	}
	return out
}
