// Package grid models crossword grids and extracts word slots from them.
//
// A grid is an immutable rectangular snapshot of cells. Nothing in this
// package mutates grid state; slot extraction, numbering and validation
// only read it.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is returned for grids that are not rectangular, have
// rows with zero columns, or carry cell content outside A-Z. A grid with
// zero rows is well formed and simply has no slots.
var ErrInvalidShape = errors.New("grid: invalid shape")

// Cell is a single square of the grid. Letter is 'A'..'Z' or 0 when the
// cell is empty. Black cells never carry a letter.
type Cell struct {
	Black  bool
	Letter byte
}

// Coord identifies a cell by position.
type Coord struct {
	Row int `msgpack:"row" json:"row"`
	Col int `msgpack:"col" json:"col"`
}

// Grid is a rectangular snapshot of cells, rows first.
type Grid struct {
	cells [][]Cell
	rows  int
	cols  int
}

// New builds a Grid from rows of cells. All rows must have the same,
// non-zero length. Letters are normalized to uppercase; any filled cell
// holding something other than a letter is rejected.
func New(cells [][]Cell) (*Grid, error) {
	rows := len(cells)
	if rows == 0 {
		return &Grid{}, nil
	}
	cols := len(cells[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: zero columns", ErrInvalidShape)
	}
	normalized := make([][]Cell, rows)
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidShape, r, len(row), cols)
		}
		normalized[r] = make([]Cell, cols)
		for c, cell := range row {
			if cell.Letter >= 'a' && cell.Letter <= 'z' {
				cell.Letter -= 'a' - 'A'
			}
			if cell.Letter != 0 && (cell.Letter < 'A' || cell.Letter > 'Z') {
				return nil, fmt.Errorf("%w: cell (%d,%d) holds non-letter %q", ErrInvalidShape, r, c, cell.Letter)
			}
			normalized[r][c] = cell
		}
	}
	return &Grid{cells: normalized, rows: rows, cols: cols}, nil
}

// FromStrings builds a grid from a textual sketch, one string per row.
// '#' marks a black cell, '.' or ' ' or '_' an empty white cell, and
// letters fill cells; any other byte is an error. Mostly useful in tests
// and the debug CLI.
func FromStrings(rows []string) (*Grid, error) {
	cells := make([][]Cell, len(rows))
	for r, line := range rows {
		cells[r] = make([]Cell, len(line))
		for c := 0; c < len(line); c++ {
			switch ch := line[c]; ch {
			case '#':
				cells[r][c] = Cell{Black: true}
			case '.', ' ', '_':
				cells[r][c] = Cell{}
			default:
				cells[r][c] = Cell{Letter: ch}
			}
		}
	}
	return New(cells)
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at (row, col). Callers must stay in bounds.
func (g *Grid) At(row, col int) Cell { return g.cells[row][col] }

// IsBlack reports whether the cell at (row, col) is black.
func (g *Grid) IsBlack(row, col int) bool { return g.cells[row][col].Black }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}
