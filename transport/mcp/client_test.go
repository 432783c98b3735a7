package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/slidesort/game/engine"
	"github.com/wricardo/slidesort/game/service"
)

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			json.NewEncoder(w).Encode(map[string]any{"id": "abc"})
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": "session not found: x", "code": 404})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var response map[string]any
	if err := client.apiCall(ctx, "GET", "/ok", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "abc" {
		t.Errorf("Expected id abc, got %v", response["id"])
	}

	err := client.apiCall(ctx, "GET", "/missing", nil, nil)
	if err == nil || err.Error() != "session not found: x" {
		t.Errorf("Expected API error message, got %v", err)
	}

	err = client.apiCall(ctx, "GET", "/boom", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error: 500") {
		t.Errorf("Expected 'API error: 500', got %v", err)
	}
}

func TestClient_apiCall_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for unreachable server")
	}
}

func TestParseMoves(t *testing.T) {
	raw := []any{
		map[string]any{"row": float64(0), "col": float64(2), "axis": "row", "displacement": float64(-2)},
		map[string]any{"row": float64(1), "col": float64(0), "axis": "column", "displacement": float64(-1)},
	}

	moves, err := parseMoves(raw)
	if err != nil {
		t.Fatalf("parseMoves failed: %v", err)
	}

	want := []engine.Move{
		{Origin: engine.Position{Row: 0, Col: 2}, Axis: engine.RowWise, Displacement: -2},
		{Origin: engine.Position{Row: 1, Col: 0}, Axis: engine.ColumnWise, Displacement: -1},
	}
	if len(moves) != len(want) {
		t.Fatalf("Expected %d moves, got %d", len(want), len(moves))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("Move %d: expected %v, got %v", i, want[i], moves[i])
		}
	}

	if _, err := parseMoves(nil); err == nil {
		t.Error("Expected error for missing moves")
	}
	if _, err := parseMoves([]any{map[string]any{"axis": "sideways"}}); err == nil {
		t.Error("Expected error for unknown axis")
	}
}

func TestClient_handleCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: body["config_id"],
			PuzzleState: &engine.PuzzleState{
				Cells: [][]int{{0, 2}, {1, 0}},
				Rows:  2,
				Cols:  2,
				Valid: true,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]any{"config_id": "easy"}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"test-session-123", "Config: easy", "Grid 2x2"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleApplyMoves(t *testing.T) {
	var received struct {
		Moves []engine.Move `json:"moves"`
		Reset bool          `json:"reset"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/moves" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)

		json.NewEncoder(w).Encode(service.MoveResult{
			Success:        false,
			RequestedMoves: 1,
			Failure: &service.MoveFailure{
				MoveIndex: 1,
				Move:      received.Moves[0],
				Reason:    "path_blocked",
				Blocked:   &engine.Position{Row: 0, Col: 1},
			},
			PuzzleState: &engine.PuzzleState{Cells: [][]int{{1, 2}}, Rows: 1, Cols: 2, Valid: true},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	request := callTool("apply_moves", map[string]any{
		"session_id": "s1",
		"moves": []any{
			map[string]any{"row": float64(0), "col": float64(0), "axis": "row", "displacement": float64(1)},
		},
		"reset":  true,
		"intent": "try to push 1 right",
	})

	result, err := client.handleApplyMoves(context.Background(), request)
	if err != nil {
		t.Fatalf("handleApplyMoves failed: %v", err)
	}

	if !received.Reset || len(received.Moves) != 1 || received.Moves[0].Axis != engine.RowWise {
		t.Errorf("Unexpected request body %+v", received)
	}

	text := resultText(t, result)
	for _, want := range []string{"✗ Rejected", "Move 1", "path_blocked at (0,1)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleApplyMoves_BadMoves(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	result, err := client.handleApplyMoves(context.Background(), callTool("apply_moves", map[string]any{"session_id": "s1"}))
	if err != nil {
		t.Fatalf("Expected tool error, not Go error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error result for missing moves")
	}
}

func TestClient_handleDescribeCell(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("row") != "1" || r.URL.Query().Get("col") != "0" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(engine.CellInfo{
			Position: engine.Position{Row: 1, Col: 0},
			Value:    2,
			Home:     engine.Position{Row: 0, Col: 1},
			InRange:  true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleDescribeCell(context.Background(), callTool("describe_cell", map[string]any{
		"session_id": "s1",
		"row":        float64(1),
		"col":        float64(0),
	}))
	if err != nil {
		t.Fatalf("handleDescribeCell failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "holds tile 2") || !strings.Contains(text, "belongs at (0,1)") {
		t.Errorf("Unexpected describe output: %s", text)
	}

	result, _ = client.handleDescribeCell(context.Background(), callTool("describe_cell", map[string]any{"session_id": "s1"}))
	if !result.IsError {
		t.Error("Expected error result when row and col are missing")
	}
}

func TestFormatGrid(t *testing.T) {
	got := formatGrid([][]int{{0, 2}, {1, 0}})
	want := "      0  1\n  0   .  2\n  1   1  .\n"
	if got != want {
		t.Errorf("formatGrid mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestFormatPuzzleState(t *testing.T) {
	tests := []struct {
		name  string
		state *engine.PuzzleState
		want  string
	}{
		{
			name:  "sorted",
			state: &engine.PuzzleState{Cells: [][]int{{1, 2}}, Rows: 1, Cols: 2, Valid: true, Sorted: true, TotalMoves: 3},
			want:  "✓ SORTED",
		},
		{
			name:  "invalid",
			state: &engine.PuzzleState{Cells: [][]int{{2, 2}}, Rows: 1, Cols: 2},
			want:  "⚠ INVALID GRID",
		},
		{
			name:  "nil",
			state: nil,
			want:  "No puzzle state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPuzzleState(tt.state); !strings.Contains(got, tt.want) {
				t.Errorf("Expected %q in output, got: %s", tt.want, got)
			}
		})
	}
}

func TestFormatPlan(t *testing.T) {
	if got := formatPlan(&service.PlanResult{AlreadySorted: true}); !strings.Contains(got, "already sorted") {
		t.Errorf("Unexpected output for sorted plan: %s", got)
	}

	plan := &service.PlanResult{
		Moves:             []engine.Move{{Origin: engine.Position{Row: 1, Col: 0}, Axis: engine.ColumnWise, Displacement: -1}},
		MoveCount:         1,
		TotalDisplacement: 1,
		Result:            [][]int{{1, 2}, {0, 0}},
	}
	got := formatPlan(plan)
	for _, want := range []string{"Plan: 1 moves", "1. (1,0) column -1", "Result:"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output, got: %s", want, got)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	history := &service.HistoryResponse{
		Moves: []engine.MoveHistoryEntry{
			{MoveNumber: 2, Tile: 1, Move: engine.Move{Origin: engine.Position{Row: 1, Col: 0}, Axis: engine.ColumnWise, Displacement: -1}, Solver: true},
		},
		TotalMoves: 2,
		Page:       1,
		TotalPages: 2,
		HasNext:    true,
	}

	got := formatHistory(history)
	for _, want := range []string{"Page 1 of 2", "2. tile 1: (1,0) column -1 [solver]", "next page"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output, got: %s", want, got)
		}
	}
}

func TestClient_ServeHTTP(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	w := httptest.NewRecorder()
	client.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	w = httptest.NewRecorder()
	client.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	for _, tool := range []string{"apply_moves", "validate_moves", "sorting_moves", "describe_cell"} {
		if !strings.Contains(w.Body.String(), tool) {
			t.Errorf("Expected tool %s in tools/list response", tool)
		}
	}
}
