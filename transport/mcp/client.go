package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/slidesort/game/engine"
	"github.com/wricardo/slidesort/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"slidesort",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`slidesort - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Numbered tiles sit on a grid. Shove them in straight lines until the tiles,
read row by row, appear in ascending order.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage puzzle sessions
- puzzle_state: show the grid
- apply_moves: apply a list of moves (all or nothing) - requires intent explanation
- validate_moves: check a move list without applying it
- sorting_moves: ask the planner for a move list that sorts the grid
- solve: plan and apply in one call
- reset_puzzle: restore the starting layout
- move_history: view past moves
- list_configs: list available layouts
- describe_cell: inspect one cell
- puzzle_instructions: full rules

NOTE: The 'intent' parameter on apply_moves serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

var sessionIDProperty = map[string]any{
	"type":        "string",
	"description": "Session ID",
}

var movesProperty = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"row":          map[string]any{"type": "integer", "description": "Origin row (0-based)"},
			"col":          map[string]any{"type": "integer", "description": "Origin column (0-based)"},
			"axis":         map[string]any{"type": "string", "enum": []string{"row", "column"}, "description": "row moves change the column, column moves change the row"},
			"displacement": map[string]any{"type": "integer", "description": "Signed number of cells to travel"},
		},
		"required": []string{"row", "col", "axis", "displacement"},
	},
	"description": "Moves in the order they should be applied",
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]any{"session_id": sessionIDProperty},
		Required:   []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new puzzle session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Puzzle operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "puzzle_state",
		Description: "Get the current grid and whether it is sorted",
		InputSchema: sessionOnlySchema(),
	}, c.handlePuzzleState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "apply_moves",
		Description: "Apply a list of moves. The whole list is checked first; if any move is blocked nothing is applied and the first failing move is reported.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"moves":      movesProperty,
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind these moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleApplyMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_moves",
		Description: "Check whether a list of moves could be applied, without changing the grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"moves":      movesProperty,
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleValidateMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sorting_moves",
		Description: "Compute a move list that sorts the grid, without applying it",
		InputSchema: sessionOnlySchema(),
	}, c.handleSortingMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve",
		Description: "Compute and apply a move list that sorts the grid",
		InputSchema: sessionOnlySchema(),
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_puzzle",
		Description: "Reset the grid to its starting layout",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]any{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzle layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "puzzle_instructions",
		Description: "Get the complete puzzle rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handlePuzzleInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about one cell: its tile, and where that tile belongs once sorted",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"row": map[string]any{
					"type":        "integer",
					"description": "Row of the cell (0-based)",
				},
				"col": map[string]any{
					"type":        "integer",
					"description": "Column of the cell (0-based)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeHTTP handles single JSON-RPC messages posted to the MCP endpoint
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)

	// Notifications have no response
	if response == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(responseData)
}

// ServeStdio runs the MCP server over stdin/stdout until the input closes
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// moveArg is the flattened move shape tools accept
type moveArg struct {
	Row          int         `json:"row"`
	Col          int         `json:"col"`
	Axis         engine.Axis `json:"axis"`
	Displacement int         `json:"displacement"`
}

// parseMoves converts the "moves" tool argument into engine moves
func parseMoves(raw any) ([]engine.Move, error) {
	if raw == nil {
		return nil, fmt.Errorf("moves is required")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var args []moveArg
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("invalid moves: %w", err)
	}

	moves := make([]engine.Move, len(args))
	for i, a := range args {
		moves[i] = engine.Move{
			Origin:       engine.Position{Row: a.Row, Col: a.Col},
			Axis:         a.Axis,
			Displacement: a.Displacement,
		}
	}
	return moves, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID := request.GetString("config_id", "")

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.PuzzleState != nil {
		result += "\n" + formatPuzzleState(session.PuzzleState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		sorted := ""
		if s.PuzzleState != nil && s.PuzzleState.Sorted {
			sorted = ", sorted"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), sorted)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handlePuzzleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.PuzzleState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPuzzleState(&state)), nil
}

func (c *Client) handleApplyMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")
	reset := request.GetBool("reset", false)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	moves, err := parseMoves(args["moves"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]any{
		"moves": moves,
		"reset": reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/moves"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleValidateMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")

	moves, err := parseMoves(args["moves"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ValidationResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/validate"), map[string]any{"moves": moves}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatValidation(&result)), nil
}

func (c *Client) handleSortingMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var plan service.PlanResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/plan"), nil, &plan); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlan(&plan)), nil
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/solve"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string              `json:"message"`
		State   *engine.PuzzleState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatPuzzleState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Tiles: %d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Rows, cfg.Cols, cfg.Tiles)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePuzzleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	row, err := request.RequireInt("row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := request.RequireInt("col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := fmt.Sprintf("%s?row=%d&col=%d", sessionPath(sessionID, "/cell"), row, col)

	var cell engine.CellInfo
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("describe_cell failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

const instructions = `slidesort - Complete Instructions

OBJECTIVE:
Sort the grid. With c = min(rows, cols), the tiles are numbered 1..c (some may
be missing). The grid is sorted when the tiles, read left to right and top to
bottom, never decrease. Empty cells are shown as '.' and do not count.

MOVES:
A move shoves one tile in a straight line:
  {"row": R, "col": C, "axis": "row"|"column", "displacement": D}
• axis "row" travels along the row (the column changes by D)
• axis "column" travels along the column (the row changes by D)
• D is signed: negative moves left/up, positive moves right/down

A move is allowed only when:
1. The origin holds a tile
2. The destination is inside the grid
3. Every cell the tile passes through, including the destination, is empty

Move lists are checked as a whole before anything changes. Later moves may use
cells emptied by earlier moves in the same list. If any move fails, nothing is
applied and the first failing move is reported with its reason:
  origin_empty, out_of_bounds or path_blocked

TOOLS:
• validate_moves - dry run a move list
• sorting_moves - get a complete plan from the built-in planner
• solve - let the planner sort the grid for you
• describe_cell - see which tile sits in a cell and where it belongs

STRATEGY:
The planner first slides each tile v into column v-1, pushing blockers out of
the way up or down, then lifts every tile to row 0. Try to beat its move count!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n",
		session.ID, session.ConfigName, session.CreatedAt.Format(time.RFC3339))
	if session.PuzzleState != nil {
		result += "\n" + formatPuzzleState(session.PuzzleState)
	}
	return result
}

// formatGrid renders cells with column headers, '.' for empty
func formatGrid(cells [][]int) string {
	if len(cells) == 0 {
		return "(empty grid)\n"
	}

	var b strings.Builder
	b.WriteString("    ")
	for col := range cells[0] {
		fmt.Fprintf(&b, "%3d", col)
	}
	b.WriteString("\n")

	for row, line := range cells {
		fmt.Fprintf(&b, "%3d ", row)
		for _, v := range line {
			if v == 0 {
				b.WriteString("  .")
			} else {
				fmt.Fprintf(&b, "%3d", v)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatPuzzleState(state *engine.PuzzleState) string {
	if state == nil {
		return "No puzzle state"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Grid %dx%d", state.Rows, state.Cols)
	if state.ConfigName != "" {
		fmt.Fprintf(&b, " (%s)", state.ConfigName)
	}
	b.WriteString("\n")
	b.WriteString(formatGrid(state.Cells))

	switch {
	case !state.Valid:
		b.WriteString("⚠ INVALID GRID\n")
	case state.Sorted:
		b.WriteString("✓ SORTED\n")
	}

	fmt.Fprintf(&b, "Moves: %d since reset, %d total\n", state.CurrentMovesCount, state.TotalMoves)
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	return b.String()
}

func formatMoveList(moves []engine.Move) string {
	var b strings.Builder
	for i, m := range moves {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, m)
	}
	return b.String()
}

func formatFailure(f *service.MoveFailure) string {
	result := fmt.Sprintf("Move %d (%s) failed: %s", f.MoveIndex, f.Move, f.Reason)
	if f.Blocked != nil {
		result += fmt.Sprintf(" at %s", f.Blocked)
	}
	return result + "\n"
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	if result.Success {
		fmt.Fprintf(&b, "✓ Applied %d of %d moves\n", result.MovesApplied, result.RequestedMoves)
	} else {
		fmt.Fprintf(&b, "✗ Rejected, nothing applied (%d moves requested)\n", result.RequestedMoves)
	}
	if result.Failure != nil {
		b.WriteString(formatFailure(result.Failure))
	}
	if len(result.Moves) > 0 {
		b.WriteString("Moves:\n")
		b.WriteString(formatMoveList(result.Moves))
	}
	fmt.Fprintf(&b, "Misplaced tiles: %d → %d\n", result.StartMisplaced, result.EndMisplaced)

	for _, e := range result.Events {
		fmt.Fprintf(&b, "Event: %s - %s\n", e.Type, e.Message)
	}

	if result.PuzzleState != nil {
		b.WriteString("\n")
		b.WriteString(formatPuzzleState(result.PuzzleState))
	}
	return b.String()
}

func formatValidation(result *service.ValidationResult) string {
	var b strings.Builder
	if result.Feasible {
		fmt.Fprintf(&b, "✓ All %d moves are feasible\n", result.RequestedMoves)
	} else {
		b.WriteString("✗ Not feasible\n")
		if result.Failure != nil {
			b.WriteString(formatFailure(result.Failure))
		}
	}
	fmt.Fprintf(&b, "Cells vacated: %s\n", formatPositions(result.Vacated))
	fmt.Fprintf(&b, "Cells filled: %s\n", formatPositions(result.Filled))
	return b.String()
}

func formatPositions(positions []engine.Position) string {
	if len(positions) == 0 {
		return "none"
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

func formatPlan(plan *service.PlanResult) string {
	if plan.AlreadySorted {
		return "✓ Grid is already sorted, no moves needed\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan: %d moves, total displacement %d\n", plan.MoveCount, plan.TotalDisplacement)
	b.WriteString(formatMoveList(plan.Moves))
	if len(plan.Result) > 0 {
		b.WriteString("\nResult:\n")
		b.WriteString(formatGrid(plan.Result))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d of %d, Total: %d moves)\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, entry := range history.Moves {
		solver := ""
		if entry.Solver {
			solver = " [solver]"
		}
		fmt.Fprintf(&b, "%d. tile %d: %s%s\n", entry.MoveNumber, entry.Tile, entry.Move, solver)
	}

	if history.HasNext {
		b.WriteString("\n(More moves available on next page)")
	}
	return b.String()
}

func formatCell(cell *engine.CellInfo) string {
	if cell.Empty {
		return fmt.Sprintf("Cell %s is empty\n", cell.Position)
	}

	result := fmt.Sprintf("Cell %s holds tile %d\n", cell.Position, cell.Value)
	switch {
	case !cell.InRange:
		result += "This value is outside the allowed range; the grid is invalid\n"
	case cell.AtHome:
		result += "It is already where it belongs\n"
	default:
		result += fmt.Sprintf("It belongs at %s once sorted\n", cell.Home)
	}
	return result
}
