// Package engine provides the core logic for the sliding-tile sorting puzzle.
//
// A Grid is a rows x cols matrix of non-negative integers where 0 marks an
// empty cell. A grid is valid when every value in [1, min(rows, cols)] appears
// at most once, and sorted when its non-zero values are non-decreasing in
// row-major order.
//
// Moves shove a single tile along a row or column. A move is feasible when its
// origin holds a tile, its destination is on the grid and every cell it passes
// through, destination included, is empty. Lists of moves are checked against a
// Ledger, the virtual delta of cells that became empty or occupied during the
// earlier moves of the same list, so the grid itself is never touched until
// ApplyMoves commits a list that passed validation.
//
// Core Types:
//
// Grid owns the cells and answers the validity, sortedness and feasibility
// questions. SortingMoves plans a move list that sorts a valid grid: each tile v
// is first shoved into column v-1, recursively clearing tiles out of its path,
// and then lifted to row 0. PuzzleEngine wraps a Grid with a PuzzleConfig and a
// move history for use by sessions.
//
// Usage:
//
//	grid, err := engine.NewGrid([][]int{{0, 2}, {1, 0}})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	moves, err := grid.SortingMoves()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := grid.ApplyMoves(moves); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(grid.IsSorted()) // true
package engine
