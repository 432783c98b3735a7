package engine

import (
	"fmt"
	"strings"
)

// Grid is the authoritative rows x cols matrix of tiles. 0 marks an empty cell.
type Grid struct {
	cells [][]int
	rows  int
	cols  int
}

// NewGrid copies seed into a new grid. The seed must be non-empty and rectangular.
func NewGrid(seed [][]int) (*Grid, error) {
	if len(seed) == 0 || len(seed[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	rows, cols := len(seed), len(seed[0])
	cells := make([][]int, rows)
	for i, row := range seed {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrRaggedGrid, i, len(row), cols)
		}
		cells[i] = make([]int, cols)
		copy(cells[i], row)
	}

	return &Grid{cells: cells, rows: rows, cols: cols}, nil
}

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Capacity returns min(rows, cols), the largest tile value a valid grid may hold
func (g *Grid) Capacity() int {
	return min(g.rows, g.cols)
}

// InBounds reports whether p lies on the grid
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// At returns the value stored at p
func (g *Grid) At(p Position) (int, error) {
	if !g.InBounds(p) {
		return 0, fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, p, g.rows, g.cols)
	}
	return g.cells[p.Row][p.Col], nil
}

// Cells returns a copy of the grid contents
func (g *Grid) Cells() [][]int {
	out := make([][]int, g.rows)
	for i, row := range g.cells {
		out[i] = make([]int, g.cols)
		copy(out[i], row)
	}
	return out
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	return &Grid{cells: g.Cells(), rows: g.rows, cols: g.cols}
}

// Equal reports whether both grids have the same dimensions and contents
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if g.cells[i][j] != other.cells[i][j] {
				return false
			}
		}
	}
	return true
}

// IsValid reports whether every value in [1, min(rows, cols)] appears at most once
// and every other cell is 0.
func (g *Grid) IsValid() bool {
	c := g.Capacity()
	seen := make([]int, c+1) // slot 0 counts empty cells

	for _, row := range g.cells {
		for _, v := range row {
			if v < 0 || v > c {
				return false
			}
			if v != 0 && seen[v] != 0 {
				return false
			}
			seen[v]++
		}
	}
	return true
}

// IsSorted reports whether the non-zero values are non-decreasing in row-major
// order. It does not check validity.
func (g *Grid) IsSorted() bool {
	last := g.cells[0][0]

	for _, row := range g.cells {
		for _, v := range row {
			if v == 0 {
				continue
			}
			if v < last {
				return false
			}
			last = v
		}
	}
	return true
}

// Tiles maps every non-zero value to its position
func (g *Grid) Tiles() TileMap {
	tiles := newTileMap()
	for i, row := range g.cells {
		for j, v := range row {
			if v != 0 {
				tiles.place(v, Position{Row: i, Col: j})
			}
		}
	}
	return tiles
}

// TileCount returns the number of occupied cells
func (g *Grid) TileCount() int {
	n := 0
	for _, row := range g.cells {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Describe returns details about the cell at p
func (g *Grid) Describe(p Position) (CellInfo, error) {
	v, err := g.At(p)
	if err != nil {
		return CellInfo{}, err
	}

	info := CellInfo{Position: p, Value: v, Empty: v == 0}
	if v > 0 {
		info.Home = Position{Row: 0, Col: v - 1}
		info.AtHome = info.Home == p
		info.InRange = v <= g.Capacity()
	}
	return info, nil
}

// String renders the grid one row per line with '.' for empty cells
func (g *Grid) String() string {
	width := len(fmt.Sprint(g.Capacity()))
	var b strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			if v == 0 {
				fmt.Fprintf(&b, "%*s", width, ".")
			} else {
				fmt.Fprintf(&b, "%*d", width, v)
			}
		}
	}
	return b.String()
}

// occupied reports effective occupancy of p under the ledger's virtual delta.
// Callers must pass an in-bounds position.
func (g *Grid) occupied(p Position, l Ledger) bool {
	baseline := g.cells[p.Row][p.Col] != 0
	return (baseline && !l.Vacated(p)) || l.Filled(p)
}
