package service

import (
	"time"

	"github.com/wricardo/slidesort/game/engine"
)

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	PuzzleState    *engine.PuzzleState  `json:"puzzle_state"`
	PuzzleConfig   *engine.PuzzleConfig `json:"puzzle_config"`
}

// MoveResult contains the result of applying a move list
type MoveResult struct {
	Success        bool                `json:"success"`
	PuzzleState    *engine.PuzzleState `json:"puzzle_state"`
	Message        string              `json:"message"`
	RequestedMoves int                 `json:"requested_moves"`
	MovesApplied   int                 `json:"moves_applied"`
	Moves          []engine.Move       `json:"moves"`
	Failure        *MoveFailure        `json:"failure,omitempty"`
	Events         []PuzzleEvent       `json:"events"`

	// Start/end snapshot
	StartMisplaced int `json:"start_misplaced"`
	EndMisplaced   int `json:"end_misplaced"`
}

// MoveFailure describes the first infeasible move of a rejected list
type MoveFailure struct {
	MoveIndex int              `json:"move_index"` // 1-based
	Move      engine.Move      `json:"move"`
	Reason    string           `json:"reason"` // origin_empty|out_of_bounds|path_blocked
	Blocked   *engine.Position `json:"blocked,omitempty"`
	Message   string           `json:"message"`
}

// ValidationResult reports whether a move list could be applied, without applying it
type ValidationResult struct {
	Feasible       bool              `json:"feasible"`
	RequestedMoves int               `json:"requested_moves"`
	Failure        *MoveFailure      `json:"failure,omitempty"`
	Vacated        []engine.Position `json:"vacated"`
	Filled         []engine.Position `json:"filled"`
}

// PlanResult contains a sorting plan and what it would produce
type PlanResult struct {
	Moves             []engine.Move `json:"moves"`
	MoveCount         int           `json:"move_count"`
	TotalDisplacement int           `json:"total_displacement"`
	AlreadySorted     bool          `json:"already_sorted"`
	Start             [][]int       `json:"start"`
	Result            [][]int       `json:"result"`
}

// PuzzleEvent represents something that happened during a call
type PuzzleEvent struct {
	Type      string    `json:"type"` // "reset", "moves_applied", "moves_rejected", "sorted", "solved"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Tiles       int    `json:"tiles"`
	Sorted      bool   `json:"sorted"`
}
