// Package api provides the HTTP REST API for slidesort sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Puzzle Operations:
//   - GET /api/sessions/{id}/state - Current grid and derived flags
//   - POST /api/sessions/{id}/moves - Apply a move list atomically
//   - POST /api/sessions/{id}/validate - Check a move list without applying it
//   - GET /api/sessions/{id}/plan - Compute a sorting plan
//   - POST /api/sessions/{id}/solve - Plan and apply in one call
//   - POST /api/sessions/{id}/reset - Restore the configured layout
//   - GET /api/sessions/{id}/history - Paginated move history
//   - GET /api/sessions/{id}/cell?row=R&col=C - Describe one cell
//
// Stateless:
//   - POST /api/grids/plan - Plan for a grid sent in the body ({"cells": [[...]]})
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration (?id= overrides the derived ID)
//
// Move lists are sent as:
//
//	{
//	  "moves": [
//	    {"origin": {"row": 0, "col": 1}, "axis": "column", "displacement": 2}
//	  ],
//	  "reset": false
//	}
//
// A rejected move list is not an HTTP error: the response carries
// "success": false and a "failure" naming the first infeasible move.
//
// Errors are returned as JSON with the HTTP status code repeated in the body:
//
//	{
//	  "error": "session not found: abc",
//	  "code": 404
//	}
package api
