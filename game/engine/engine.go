package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// State management
	GetState() *PuzzleState
	SetState(state *PuzzleState) error
	Reset() *PuzzleState
	IsSorted() bool
	IsValid() bool
	Grid() *Grid

	// Move operations
	ValidateMoves(moves []Move) Feasibility
	ApplyMoves(moves []Move) error
	SortingMoves() ([]Move, error)
	Solve() ([]Move, error)

	// Configuration
	GetConfig() *PuzzleConfig
	SetConfig(config *PuzzleConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Inspection
	DescribeCell(p Position) (CellInfo, error)
}

// PuzzleEngine implements the Engine interface on top of a Grid
type PuzzleEngine struct {
	grid   *Grid
	state  *PuzzleState
	config *PuzzleConfig
}

// NewEngine creates a new puzzle engine with the provided configuration
func NewEngine(config *PuzzleConfig) (*PuzzleEngine, error) {
	if err := ValidatePuzzleConfig(config); err != nil {
		return nil, err
	}

	e := &PuzzleEngine{config: config}
	if err := e.load(config); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new puzzle engine with the built-in configuration
func NewEngineWithDefaults() *PuzzleEngine {
	e, err := NewEngine(DefaultPuzzleConfig())
	if err != nil {
		panic(fmt.Sprintf("default puzzle config is invalid: %v", err))
	}
	return e
}

// load rebuilds grid and state from the config layout
func (e *PuzzleEngine) load(config *PuzzleConfig) error {
	grid, err := NewGrid(config.Layout)
	if err != nil {
		return err
	}
	e.grid = grid
	e.state = &PuzzleState{
		ConfigName:   config.Name,
		MoveHistory:  []MoveHistoryEntry{},
		CurrentMoves: []MoveHistoryEntry{},
	}
	e.refresh()
	return nil
}

// refresh copies grid-derived fields into the state
func (e *PuzzleEngine) refresh() {
	e.state.Cells = e.grid.Cells()
	e.state.Rows = e.grid.Rows()
	e.state.Cols = e.grid.Cols()
	e.state.Valid = e.grid.IsValid()
	e.state.Sorted = e.grid.IsSorted()

	switch {
	case !e.state.Valid:
		e.state.Message = "Grid is invalid"
	case e.state.Sorted:
		e.state.Message = "Grid is sorted"
	default:
		e.state.Message = fmt.Sprintf("%d tiles out of place", CountMisplaced(e.grid))
	}
}

// GetState returns a snapshot of the current puzzle state
func (e *PuzzleEngine) GetState() *PuzzleState {
	return e.state.snapshot()
}

// snapshot copies the state so callers can hold it while the engine moves on
func (s *PuzzleState) snapshot() *PuzzleState {
	out := *s
	out.Cells = make([][]int, len(s.Cells))
	for i, row := range s.Cells {
		out.Cells[i] = append([]int(nil), row...)
	}
	out.MoveHistory = append([]MoveHistoryEntry{}, s.MoveHistory...)
	out.CurrentMoves = append([]MoveHistoryEntry{}, s.CurrentMoves...)
	return &out
}

// SetState sets the puzzle state (used for persistence loading)
func (e *PuzzleEngine) SetState(state *PuzzleState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	grid, err := NewGrid(state.Cells)
	if err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}
	e.grid = grid
	e.state = state.snapshot()
	e.refresh()
	return nil
}

// Reset restores the configured layout
func (e *PuzzleEngine) Reset() *PuzzleState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	if err := e.load(e.config); err != nil {
		// config was validated when it was set
		panic(err)
	}

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	return e.state.snapshot()
}

// IsSorted reports whether the current grid is sorted
func (e *PuzzleEngine) IsSorted() bool {
	return e.grid.IsSorted()
}

// IsValid reports whether the current grid is valid
func (e *PuzzleEngine) IsValid() bool {
	return e.grid.IsValid()
}

// Grid returns a copy of the current grid
func (e *PuzzleEngine) Grid() *Grid {
	return e.grid.Clone()
}

// ValidateMoves checks moves against the current grid without applying them
func (e *PuzzleEngine) ValidateMoves(moves []Move) Feasibility {
	return e.grid.CheckMoves(moves, NewLedger())
}

// ApplyMoves applies moves and records each one in the history
func (e *PuzzleEngine) ApplyMoves(moves []Move) error {
	return e.apply(moves, false)
}

// SortingMoves plans the moves that would sort the current grid
func (e *PuzzleEngine) SortingMoves() ([]Move, error) {
	return e.grid.SortingMoves()
}

// Solve plans a sort and applies it, returning the applied moves
func (e *PuzzleEngine) Solve() ([]Move, error) {
	moves, err := e.grid.SortingMoves()
	if err != nil {
		return nil, err
	}
	if err := e.apply(moves, true); err != nil {
		return nil, err
	}
	return moves, nil
}

func (e *PuzzleEngine) apply(moves []Move, solver bool) error {
	f := e.grid.CheckMoves(moves, NewLedger())
	if !f.Feasible {
		return fmt.Errorf("%w: move %d %s: %s", ErrInfeasibleMoves, f.FailedAt+1, moves[f.FailedAt], f.Reason)
	}

	now := time.Now().Unix()
	for _, m := range moves {
		tile := e.grid.cells[m.Origin.Row][m.Origin.Col]
		e.grid.applyUnchecked([]Move{m})
		e.addMoveToHistory(m, tile, now, solver)
	}
	e.refresh()
	return nil
}

func (e *PuzzleEngine) addMoveToHistory(m Move, tile int, ts int64, solver bool) {
	e.state.TotalMoves++
	entry := MoveHistoryEntry{
		Move:       m,
		Tile:       tile,
		Timestamp:  ts,
		MoveNumber: e.state.TotalMoves,
		Solver:     solver,
	}
	e.state.MoveHistory = append(e.state.MoveHistory, entry)
	e.state.CurrentMoves = append(e.state.CurrentMoves, entry)
	e.state.CurrentMovesCount = len(e.state.CurrentMoves)
}

// GetConfig returns the current puzzle configuration
func (e *PuzzleEngine) GetConfig() *PuzzleConfig {
	return e.config
}

// SetConfig sets a new puzzle configuration and resets the puzzle
func (e *PuzzleEngine) SetConfig(config *PuzzleConfig) error {
	if err := ValidatePuzzleConfig(config); err != nil {
		return err
	}
	if err := e.load(config); err != nil {
		return err
	}
	e.config = config
	return nil
}

// GetMoveHistory returns a copy of the complete move history
func (e *PuzzleEngine) GetMoveHistory() []MoveHistoryEntry {
	return append([]MoveHistoryEntry{}, e.state.MoveHistory...)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *PuzzleEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	last := e.state.MoveHistory[len(e.state.MoveHistory)-1]
	return &last
}

// DescribeCell returns details about one cell of the current grid
func (e *PuzzleEngine) DescribeCell(p Position) (CellInfo, error) {
	return e.grid.Describe(p)
}
