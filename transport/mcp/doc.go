// Package mcp exposes slidesort to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a REST request against the
// api package, so MCP agents and HTTP clients always see the same sessions.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - puzzle_state: grid rendering with sorted/invalid markers
//   - apply_moves: all-or-nothing move list, reports the first failing move
//   - validate_moves: dry run of a move list
//   - sorting_moves: planner output without applying it
//   - solve, reset_puzzle, move_history
//   - list_configs, describe_cell, puzzle_instructions
//
// Moves are passed as flat objects:
//
//	{"row": 0, "col": 2, "axis": "row", "displacement": -2}
//
// Transport Modes:
//   - Stdio: Client.ServeStdio for local MCP clients
//   - HTTP: Client implements http.Handler for single JSON-RPC POSTs
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	apiServer.Mount("/mcp", client)
//
//	// or
//	client.ServeStdio()
package mcp
