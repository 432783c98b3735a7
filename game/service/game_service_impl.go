package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/slidesort/game/engine"
)

// puzzleServiceImpl implements the PuzzleService interface
type puzzleServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewPuzzleService creates a new puzzle service instance
func NewPuzzleService(sessions SessionManager, configs ConfigManager) PuzzleService {
	return &puzzleServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config display name
func (s *puzzleServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		PuzzleState:    sess.Engine.GetState(),
		PuzzleConfig:   sess.Config,
	}
}

// CreateSession creates a new puzzle session
func (s *puzzleServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.PuzzleConfig
	var err error
	configID := strings.TrimSuffix(configName, ".json")
	if configID != "" {
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Str("session", session.ID).Str("config", configID).Msg("session created")
	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *puzzleServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// access times are written under RLock elsewhere, so reading them needs the write lock
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *puzzleServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *puzzleServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ApplyMoves validates and applies a move list atomically. With reset the
// moves are checked against the initial layout, and the reset only happens if
// they are feasible there; a rejected list leaves the session untouched.
func (s *puzzleServiceImpl) ApplyMoves(ctx context.Context, sessionID string, moves []engine.Move, reset bool) (*MoveResult, error) {
	if len(moves) > engine.MaxMovesPerCall {
		return nil, fmt.Errorf("%w: %d requested, limit is %d", ErrTooManyMoves, len(moves), engine.MaxMovesPerCall)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{
		RequestedMoves: len(moves),
		Moves:          []engine.Move{},
		Events:         []PuzzleEvent{},
	}

	start := sess.Engine.Grid()
	if reset {
		if start, err = engine.NewGrid(sess.Engine.GetConfig().Layout); err != nil {
			return nil, fmt.Errorf("failed to rebuild initial layout: %w", err)
		}
	}

	if f := start.CheckMoves(moves, engine.NewLedger()); !f.Feasible {
		result.Failure = describeFailure(moves, f)
		result.Message = result.Failure.Message
		result.Events = append(result.Events, newEvent("moves_rejected", result.Failure.Message))
		result.PuzzleState = sess.Engine.GetState()
		result.StartMisplaced = engine.CountMisplaced(sess.Engine.Grid())
		result.EndMisplaced = result.StartMisplaced
		return result, nil
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, newEvent("reset", "Puzzle reset to initial layout"))
	}

	result.StartMisplaced = engine.CountMisplaced(start)
	wasSorted := sess.Engine.IsSorted()

	if err := sess.Engine.ApplyMoves(moves); err != nil {
		return nil, fmt.Errorf("failed to apply moves: %w", err)
	}
	result.Success = true
	result.MovesApplied = len(moves)
	result.Moves = append(result.Moves, moves...)
	result.Events = append(result.Events, newEvent("moves_applied", fmt.Sprintf("Applied %d moves", len(moves))))
	if !wasSorted && sess.Engine.IsSorted() {
		result.Events = append(result.Events, newEvent("sorted", "Grid is sorted"))
	}

	state := sess.Engine.GetState()
	result.PuzzleState = state
	result.EndMisplaced = engine.CountMisplaced(sess.Engine.Grid())
	result.Message = state.Message

	s.persist(sessionID, "moves")
	return result, nil
}

// ValidateMoves checks a move list against the session grid without applying it
func (s *puzzleServiceImpl) ValidateMoves(ctx context.Context, sessionID string, moves []engine.Move) (*ValidationResult, error) {
	if len(moves) > engine.MaxMovesPerCall {
		return nil, fmt.Errorf("%w: %d requested, limit is %d", ErrTooManyMoves, len(moves), engine.MaxMovesPerCall)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	f := sess.Engine.ValidateMoves(moves)
	result := &ValidationResult{
		Feasible:       f.Feasible,
		RequestedMoves: len(moves),
		Vacated:        f.Ledger.VacatedPositions(),
		Filled:         f.Ledger.FilledPositions(),
	}
	if !f.Feasible {
		result.Failure = describeFailure(moves, f)
	}
	return result, nil
}

// PlanSort returns the moves that would sort the session grid without applying them
func (s *puzzleServiceImpl) PlanSort(ctx context.Context, sessionID string) (*PlanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return planFor(sess.Engine.Grid())
}

// Solve plans a sort for the session grid and applies it
func (s *puzzleServiceImpl) Solve(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := engine.CountMisplaced(sess.Engine.Grid())
	moves, err := sess.Engine.Solve()
	if err != nil {
		return nil, fmt.Errorf("failed to solve session %s: %w", sessionID, err)
	}

	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:        true,
		PuzzleState:    state,
		Message:        state.Message,
		RequestedMoves: len(moves),
		MovesApplied:   len(moves),
		Moves:          moves,
		Events:         []PuzzleEvent{newEvent("solved", fmt.Sprintf("Solver applied %d moves", len(moves)))},
		StartMisplaced: start,
		EndMisplaced:   engine.CountMisplaced(sess.Engine.Grid()),
	}

	log.Info().Str("session", sessionID).Int("moves", len(moves)).Msg("session solved")
	s.persist(sessionID, "solve")
	return result, nil
}

// Reset resets a puzzle session to its initial layout
func (s *puzzleServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.PuzzleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset()
	s.persist(sessionID, "reset")
	return state, nil
}

// GetState retrieves the current puzzle state
func (s *puzzleServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.PuzzleState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *puzzleServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

// paginateHistory slices history into one page
func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > engine.HistoryPageMax {
		opts.Limit = engine.HistoryPageMax
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// DescribeCell returns details about one cell of the session grid
func (s *puzzleServiceImpl) DescribeCell(ctx context.Context, sessionID string, pos engine.Position) (*engine.CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	info, err := sess.Engine.DescribeCell(pos)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// PlanGrid plans a sort for an arbitrary grid without touching any session
func (s *puzzleServiceImpl) PlanGrid(ctx context.Context, cells [][]int) (*PlanResult, error) {
	grid, err := engine.NewGrid(cells)
	if err != nil {
		return nil, err
	}
	if grid.Rows() > engine.MaxGridSize || grid.Cols() > engine.MaxGridSize {
		return nil, fmt.Errorf("%w: grid larger than %dx%d", engine.ErrInvalidGrid, engine.MaxGridSize, engine.MaxGridSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return planFor(grid)
}

// ListConfigs returns available puzzle configurations
func (s *puzzleServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *puzzleServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a puzzle configuration to disk
func (s *puzzleServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// session looks up a session and refreshes its access time. Callers hold s.mu.
func (s *puzzleServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *puzzleServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Str("after", after).Msg("failed to persist session")
	}
}

// planFor computes a sorting plan for grid and replays it for the result snapshot
func planFor(grid *engine.Grid) (*PlanResult, error) {
	moves, err := grid.SortingMoves()
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Moves:             moves,
		MoveCount:         len(moves),
		TotalDisplacement: engine.TotalDisplacement(moves),
		AlreadySorted:     grid.IsSorted(),
		Start:             grid.Cells(),
	}

	replay := grid.Clone()
	if err := replay.ApplyMoves(moves); err != nil {
		return nil, err
	}
	result.Result = replay.Cells()
	return result, nil
}

func describeFailure(moves []engine.Move, f engine.Feasibility) *MoveFailure {
	m := moves[f.FailedAt]
	failure := &MoveFailure{
		MoveIndex: f.FailedAt + 1,
		Move:      m,
		Reason:    f.Reason.String(),
	}

	switch f.Reason {
	case engine.OriginEmpty:
		failure.Message = fmt.Sprintf("move %d: no tile at %s", failure.MoveIndex, m.Origin)
	case engine.OutOfBounds:
		failure.Message = fmt.Sprintf("move %d: %s leaves the grid", failure.MoveIndex, m)
	case engine.PathBlocked:
		blocked := f.Blocked
		failure.Blocked = &blocked
		failure.Message = fmt.Sprintf("move %d: %s is blocked at %s", failure.MoveIndex, m, blocked)
	default:
		failure.Message = fmt.Sprintf("move %d: %s is not feasible", failure.MoveIndex, m)
	}
	return failure
}

func newEvent(kind, message string) PuzzleEvent {
	return PuzzleEvent{Type: kind, Message: message, Timestamp: time.Now()}
}
