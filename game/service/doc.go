// Package service provides the business logic layer for the slidesort puzzle server.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Configuration listing, loading and saving
//   - Atomic move list validation and application
//   - Sorting plans for session grids and for ad-hoc grids
//   - Move history pagination
//
// Core Interfaces:
//
// PuzzleService is the main service interface used by the HTTP, WebSocket and
// MCP transports. SessionManager stores sessions and persists them.
// ConfigManager loads and saves puzzle configurations.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	puzzles := service.NewPuzzleService(sessionMgr, configMgr)
//
//	info, err := puzzles.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plan, err := puzzles.PlanSort(ctx, info.ID)
//	result, err := puzzles.ApplyMoves(ctx, info.ID, plan.Moves, false)
//
// A move list is either applied whole or not at all. When a list is rejected,
// ApplyMoves returns a MoveResult with Success false and a MoveFailure naming
// the first infeasible move, rather than an error.
package service
