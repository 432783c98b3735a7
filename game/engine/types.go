package engine

import "fmt"

// Axis is the direction a move travels along
type Axis int

const (
	// RowWise moves travel along a row and change the column
	RowWise Axis = iota
	// ColumnWise moves travel along a column and change the row
	ColumnWise
)

const (
	// Validation constants
	MinGridSize     = 1
	MaxGridSize     = 32
	MaxMovesPerCall = 500
	HistoryPageMax  = 100
)

// String returns the wire name of the axis
func (a Axis) String() string {
	switch a {
	case RowWise:
		return "row"
	case ColumnWise:
		return "column"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler
func (a Axis) MarshalText() ([]byte, error) {
	switch a {
	case RowWise, ColumnWise:
		return []byte(a.String()), nil
	default:
		return nil, fmt.Errorf("unknown axis %d", int(a))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Axis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "row", "row-wise", "horizontal":
		*a = RowWise
	case "column", "col", "column-wise", "vertical":
		*a = ColumnWise
	default:
		return fmt.Errorf("unknown axis %q", string(text))
	}
	return nil
}

// Perpendicular returns the other axis
func (a Axis) Perpendicular() Axis {
	if a == RowWise {
		return ColumnWise
	}
	return RowWise
}

// Position represents row,col coordinates
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String renders the position as (row,col)
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Step returns the position n cells away along the axis
func (p Position) Step(axis Axis, n int) Position {
	if axis == RowWise {
		return Position{Row: p.Row, Col: p.Col + n}
	}
	return Position{Row: p.Row + n, Col: p.Col}
}

// Move shoves the tile at Origin Displacement cells along Axis
type Move struct {
	Origin       Position `json:"origin"`
	Axis         Axis     `json:"axis"`
	Displacement int      `json:"displacement"`
}

// Destination returns the cell the tile ends up in
func (m Move) Destination() Position {
	return m.Origin.Step(m.Axis, m.Displacement)
}

// direction returns -1, 0 or +1
func (m Move) direction() int {
	switch {
	case m.Displacement > 0:
		return 1
	case m.Displacement < 0:
		return -1
	default:
		return 0
	}
}

// String renders the move as origin, axis and signed displacement
func (m Move) String() string {
	return fmt.Sprintf("%s %s %+d", m.Origin, m.Axis, m.Displacement)
}

// Infeasibility explains why a move was rejected
type Infeasibility int

const (
	Feasible Infeasibility = iota
	OriginEmpty
	OutOfBounds
	PathBlocked
)

// String returns the machine-friendly reason code
func (r Infeasibility) String() string {
	switch r {
	case Feasible:
		return "feasible"
	case OriginEmpty:
		return "origin_empty"
	case OutOfBounds:
		return "out_of_bounds"
	case PathBlocked:
		return "path_blocked"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Infeasibility) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Feasibility is the outcome of checking an ordered move list against a Ledger.
// Ledger holds the virtual delta after every move that passed; when Feasible is
// false it is the ledger as of just before the move at FailedAt.
type Feasibility struct {
	Feasible bool
	Ledger   Ledger
	FailedAt int
	Reason   Infeasibility
	Blocked  Position // first occupied cell for PathBlocked
}

// PuzzleConfig represents a puzzle configuration loaded from JSON
type PuzzleConfig struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	Layout      [][]int `json:"layout"`
}

// PuzzleState represents the complete observable state of a puzzle session
type PuzzleState struct {
	Cells       [][]int            `json:"cells"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Valid       bool               `json:"valid"`
	Sorted      bool               `json:"sorted"`
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single applied move in the puzzle history
type MoveHistoryEntry struct {
	Move       Move  `json:"move"`
	Tile       int   `json:"tile"`
	Timestamp  int64 `json:"timestamp"`
	MoveNumber int   `json:"move_number"`
	Solver     bool  `json:"solver,omitempty"` // produced by Solve rather than the caller
}

// CellInfo describes one grid cell
type CellInfo struct {
	Position Position `json:"position"`
	Value    int      `json:"value"`
	Empty    bool     `json:"empty"`
	Home     Position `json:"home"`               // target cell once sorted, tiles only
	AtHome   bool     `json:"at_home,omitempty"`  // tile sits on its target cell
	InRange  bool     `json:"in_range,omitempty"` // value within [1, min(rows, cols)]
}
