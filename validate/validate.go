// Package validate checks puzzle configuration JSON files. For each file it
// verifies:
//   - JSON structure and required fields
//   - Dimensions match the layout and stay within engine limits
//   - Grid validity: each of 1..min(rows, cols) at most once, 0 elsewhere
//   - Solvability: the sort planner produces a move list that, applied to
//     the layout, leaves it sorted
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/slidesort/game/engine"
)

// Result captures the outcome of validating a single file.
// If Valid is true, Notes contains informational messages; Errors
// accumulates the validation errors that were found.
type Result struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string

	// Filled in once the layout parses into a valid grid
	Tiles     int
	Misplaced int
	Sorted    bool
	PlanMoves int
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// File loads and validates a single configuration JSON file.
func File(path string) Result {
	result := Result{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	Config(&config, &result)
	return result
}

// Config validates an already decoded configuration into result.
func Config(config *engine.PuzzleConfig, result *Result) {
	if config.Name == "" {
		result.fail("Missing name")
	}
	if config.Description == "" {
		result.fail("Missing description")
	}

	if len(config.Layout) == 0 {
		result.fail("Layout is empty")
		return
	}

	if config.Rows != len(config.Layout) {
		result.fail("rows is %d but layout has %d rows", config.Rows, len(config.Layout))
	}
	for i, row := range config.Layout {
		if len(row) != config.Cols {
			result.fail("Row %d has %d cells, expected %d", i, len(row), config.Cols)
		}
	}
	if config.Rows > engine.MaxGridSize || config.Cols > engine.MaxGridSize {
		result.fail("Grid %dx%d exceeds the %d cell limit per side", config.Rows, config.Cols, engine.MaxGridSize)
	}
	if !result.Valid {
		return
	}

	grid, err := engine.NewGrid(config.Layout)
	if err != nil {
		result.fail("Layout rejected: %v", err)
		return
	}

	if !grid.IsValid() {
		result.fail("Layout may only hold each of 1..%d at most once and 0 elsewhere", grid.Capacity())
		return
	}

	result.Tiles = grid.TileCount()
	result.Sorted = grid.IsSorted()
	result.Misplaced = engine.CountMisplaced(grid)
	result.note("✓ Grid: %dx%d with %d of %d tiles", grid.Rows(), grid.Cols(), result.Tiles, grid.Capacity())

	if result.Sorted {
		result.note("Layout is already sorted")
	}

	moves, err := grid.SortingMoves()
	if err != nil {
		result.fail("Planner failed: %v", err)
		return
	}

	// Round trip on a copy: the plan must apply cleanly and leave the grid sorted
	check := grid.Clone()
	if err := check.ApplyMoves(moves); err != nil {
		result.fail("Planned moves are infeasible: %v", err)
		return
	}
	if !check.IsSorted() || !check.IsValid() {
		result.fail("Planned moves leave the grid unsorted:\n%s", check)
		return
	}

	result.PlanMoves = len(moves)
	result.note("✓ Solvable: planner sorts it in %d moves", len(moves))
}

// Dir validates every *.json file in dir, in name order.
func Dir(dir string) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding config files: %w", err)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// AllValid reports whether every result passed.
func AllValid(results []Result) bool {
	for _, r := range results {
		if !r.Valid {
			return false
		}
	}
	return true
}
