package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/slidesort/game/engine"
	"github.com/wricardo/slidesort/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, configID string, config *engine.PuzzleConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.PuzzleConfig
}

func NewMockConfigManager() *MockConfigManager {
	swap := &engine.PuzzleConfig{
		Name:        "Swap",
		Description: "Two tiles in the wrong order",
		Rows:        2,
		Cols:        2,
		Layout:      [][]int{{2, 1}, {0, 0}},
	}
	reversed := &engine.PuzzleConfig{
		Name:        "Reversed",
		Description: "Reversed middle row",
		Rows:        3,
		Cols:        3,
		Layout:      [][]int{{0, 0, 0}, {3, 2, 1}, {0, 0, 0}},
	}

	return &MockConfigManager{
		configs: map[string]*engine.PuzzleConfig{
			"swap":     swap,
			"reversed": reversed,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Rows:        config.Rows,
			Cols:        config.Cols,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.PuzzleConfig {
	return m.configs["swap"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	if err := engine.ValidatePuzzleConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newTestService(t *testing.T) (service.PuzzleService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	return service.NewPuzzleService(sessions, NewMockConfigManager()), sessions
}

func move(r, c int, axis engine.Axis, d int) engine.Move {
	return engine.Move{Origin: engine.Position{Row: r, Col: c}, Axis: axis, Displacement: d}
}

func TestPuzzleService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    string
	}{
		{"create with default config", "", "swap", ""},
		{"create with specific config", "reversed", "reversed", ""},
		{"create with json suffix", "reversed.json", "reversed", ""},
		{"create with invalid config", "nonexistent", "", "Available configs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %q, got %q", tt.wantConfig, session.ConfigName)
			}
			if session.PuzzleState == nil || session.PuzzleConfig == nil {
				t.Error("Expected state and config in session info")
			}
		})
	}
}

func TestPuzzleService_UnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.GetSession(ctx, "missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("GetSession: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.ApplyMoves(ctx, "missing", nil, false); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("ApplyMoves: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.PlanSort(ctx, "missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("PlanSort: expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.DeleteSession(ctx, "missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("DeleteSession: expected ErrSessionNotFound, got %v", err)
	}
}

func TestPuzzleService_ApplyMoves(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	info, err := svc.CreateSession(ctx, "swap")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Run("infeasible list is rejected atomically", func(t *testing.T) {
		moves := []engine.Move{
			move(0, 0, engine.ColumnWise, 1),
			move(0, 0, engine.RowWise, 1), // origin vacated by the first move
		}
		result, err := svc.ApplyMoves(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("ApplyMoves error: %v", err)
		}
		if result.Success || result.MovesApplied != 0 {
			t.Errorf("Expected rejection, got %+v", result)
		}
		if result.Failure == nil || result.Failure.MoveIndex != 2 || result.Failure.Reason != "origin_empty" {
			t.Errorf("Unexpected failure %+v", result.Failure)
		}
		if result.PuzzleState.Cells[0][0] != 2 {
			t.Error("Expected grid to be untouched")
		}
	})

	t.Run("path blocked reports the cell", func(t *testing.T) {
		result, err := svc.ApplyMoves(ctx, info.ID, []engine.Move{move(0, 1, engine.RowWise, -1)}, false)
		if err != nil {
			t.Fatal(err)
		}
		if result.Failure == nil || result.Failure.Blocked == nil || *result.Failure.Blocked != (engine.Position{Row: 0, Col: 0}) {
			t.Errorf("Expected blocked cell (0,0), got %+v", result.Failure)
		}
	})

	t.Run("feasible list sorts the grid", func(t *testing.T) {
		savesBefore := sessions.saves
		moves := []engine.Move{
			move(0, 0, engine.ColumnWise, 1),
			move(0, 1, engine.RowWise, -1),
			move(1, 0, engine.RowWise, 1),
			move(1, 1, engine.ColumnWise, -1),
		}
		result, err := svc.ApplyMoves(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatal(err)
		}
		if !result.Success || result.MovesApplied != 4 {
			t.Fatalf("Expected 4 moves applied, got %+v", result)
		}
		if !result.PuzzleState.Sorted {
			t.Error("Expected sorted grid")
		}
		if result.StartMisplaced != 2 || result.EndMisplaced != 0 {
			t.Errorf("Expected misplaced 2 -> 0, got %d -> %d", result.StartMisplaced, result.EndMisplaced)
		}
		if !hasEvent(result.Events, "sorted") {
			t.Errorf("Expected sorted event, got %+v", result.Events)
		}
		if sessions.saves <= savesBefore {
			t.Error("Expected session to be persisted after moves")
		}
	})

	t.Run("reset before moves", func(t *testing.T) {
		result, err := svc.ApplyMoves(ctx, info.ID, []engine.Move{move(0, 0, engine.ColumnWise, 1)}, true)
		if err != nil {
			t.Fatal(err)
		}
		if !result.Success || !hasEvent(result.Events, "reset") {
			t.Errorf("Expected reset then success, got %+v", result)
		}
		if result.PuzzleState.Cells[1][0] != 2 {
			t.Errorf("Expected tile 2 moved down from the reset layout, got %v", result.PuzzleState.Cells)
		}
	})

	t.Run("reset is skipped when the moves are rejected", func(t *testing.T) {
		savesBefore := sessions.saves
		// (1,0) holds tile 2 now but is empty in the initial layout
		result, err := svc.ApplyMoves(ctx, info.ID, []engine.Move{move(1, 0, engine.RowWise, 1)}, true)
		if err != nil {
			t.Fatal(err)
		}
		if result.Success || hasEvent(result.Events, "reset") {
			t.Errorf("Expected rejection without reset, got %+v", result)
		}
		if result.Failure == nil || result.Failure.Reason != "origin_empty" {
			t.Errorf("Expected origin_empty against the initial layout, got %+v", result.Failure)
		}
		if result.PuzzleState.Cells[1][0] != 2 || result.PuzzleState.Cells[0][0] != 0 {
			t.Errorf("Expected grid left as it was, got %v", result.PuzzleState.Cells)
		}
		if sessions.saves != savesBefore {
			t.Error("Expected a rejected list not to be persisted")
		}
	})

	t.Run("too many moves", func(t *testing.T) {
		moves := make([]engine.Move, engine.MaxMovesPerCall+1)
		if _, err := svc.ApplyMoves(ctx, info.ID, moves, false); !errors.Is(err, service.ErrTooManyMoves) {
			t.Errorf("Expected ErrTooManyMoves, got %v", err)
		}
	})
}

func TestPuzzleService_ValidateMoves(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "swap")

	result, err := svc.ValidateMoves(ctx, info.ID, []engine.Move{
		move(0, 1, engine.ColumnWise, 1),
		move(0, 0, engine.RowWise, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Feasible || result.Failure != nil {
		t.Fatalf("Expected feasible list, got %+v", result)
	}
	if len(result.Vacated) != 1 || len(result.Filled) != 2 {
		t.Errorf("Unexpected ledger %v / %v", result.Vacated, result.Filled)
	}

	state, _ := svc.GetState(ctx, info.ID)
	if state.TotalMoves != 0 || state.Cells[0][1] != 1 {
		t.Error("ValidateMoves must not change the grid")
	}
}

func TestPuzzleService_PlanSortAndSolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "reversed")

	plan, err := svc.PlanSort(ctx, info.ID)
	if err != nil {
		t.Fatalf("PlanSort failed: %v", err)
	}
	if plan.MoveCount != 8 || plan.AlreadySorted {
		t.Errorf("Expected 8 planned moves, got %+v", plan)
	}
	if plan.Result[0][0] != 1 || plan.Result[0][1] != 2 || plan.Result[0][2] != 3 {
		t.Errorf("Unexpected plan result %v", plan.Result)
	}

	state, _ := svc.GetState(ctx, info.ID)
	if state.Sorted {
		t.Fatal("PlanSort must not change the grid")
	}

	result, err := svc.Solve(ctx, info.ID)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Success || !result.PuzzleState.Sorted || result.MovesApplied != plan.MoveCount {
		t.Errorf("Unexpected solve result %+v", result)
	}

	again, err := svc.PlanSort(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.AlreadySorted || again.MoveCount != 0 || again.Moves == nil {
		t.Errorf("Expected empty plan for sorted grid, got %+v", again)
	}
}

func TestPuzzleService_PlanGrid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	plan, err := svc.PlanGrid(ctx, [][]int{{0, 2}, {1, 0}})
	if err != nil {
		t.Fatalf("PlanGrid failed: %v", err)
	}
	if plan.MoveCount != 1 || plan.TotalDisplacement != 1 {
		t.Errorf("Unexpected plan %+v", plan)
	}

	if _, err := svc.PlanGrid(ctx, [][]int{{1, 1}, {0, 0}}); !errors.Is(err, engine.ErrInvalidGrid) {
		t.Errorf("Expected ErrInvalidGrid, got %v", err)
	}
	if _, err := svc.PlanGrid(ctx, [][]int{{1}, {0, 0}}); !errors.Is(err, engine.ErrRaggedGrid) {
		t.Errorf("Expected ErrRaggedGrid, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.PlanGrid(cancelled, [][]int{{1}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPuzzleService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "reversed")

	if _, err := svc.Solve(ctx, info.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst int
		wantNext  bool
	}{
		{"defaults are newest first", service.HistoryOptions{}, 8, 8, false},
		{"ascending first page", service.HistoryOptions{Page: 1, Limit: 3, Order: "asc"}, 3, 1, true},
		{"ascending last page", service.HistoryOptions{Page: 3, Limit: 3, Order: "asc"}, 2, 7, false},
		{"descending second page", service.HistoryOptions{Page: 2, Limit: 3, Order: "desc"}, 3, 5, true},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 3}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(history.Moves) != tt.wantLen {
				t.Fatalf("Expected %d moves, got %d", tt.wantLen, len(history.Moves))
			}
			if tt.wantLen > 0 && history.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("Expected first move number %d, got %d", tt.wantFirst, history.Moves[0].MoveNumber)
			}
			if history.HasNext != tt.wantNext {
				t.Errorf("Expected HasNext %v, got %v", tt.wantNext, history.HasNext)
			}
			if history.TotalMoves != 8 {
				t.Errorf("Expected 8 total moves, got %d", history.TotalMoves)
			}
		})
	}
}

func TestPuzzleService_ResetAndDescribe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateSession(ctx, "swap")

	solved, err := svc.Solve(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Sorted || state.CurrentMovesCount != 0 || state.TotalMoves != solved.MovesApplied {
		t.Errorf("Unexpected state after reset: %+v", state)
	}

	cell, err := svc.DescribeCell(ctx, info.ID, engine.Position{Row: 0, Col: 0})
	if err != nil {
		t.Fatal(err)
	}
	if cell.Value != 2 || cell.Home != (engine.Position{Row: 0, Col: 1}) {
		t.Errorf("Unexpected cell %+v", cell)
	}
	if _, err := svc.DescribeCell(ctx, info.ID, engine.Position{Row: 9, Col: 9}); !errors.Is(err, engine.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
}

func TestPuzzleService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, _ := svc.CreateSession(ctx, "swap")
	svc.CreateSession(ctx, "reversed")

	sessions, err := svc.ListSessions(ctx)
	if err != nil || len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d (%v)", len(sessions), err)
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	sessions, _ = svc.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session after delete, got %d", len(sessions))
	}
}

func TestPuzzleService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(configs), err)
	}

	custom := &engine.PuzzleConfig{
		Name:        "Custom",
		Description: "Saved from a test",
		Rows:        1,
		Cols:        1,
		Layout:      [][]int{{1}},
	}
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "custom")
	if err != nil || loaded.Name != "Custom" {
		t.Errorf("Expected saved config, got %+v (%v)", loaded, err)
	}
}

func hasEvent(events []service.PuzzleEvent, kind string) bool {
	for _, ev := range events {
		if ev.Type == kind {
			return true
		}
	}
	return false
}
