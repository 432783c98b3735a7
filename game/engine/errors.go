package engine

import "errors"

var (
	ErrEmptyGrid       = errors.New("grid must have at least one row and one column")
	ErrRaggedGrid      = errors.New("grid rows must all have the same length")
	ErrOutOfBounds     = errors.New("position out of bounds")
	ErrInvalidGrid     = errors.New("grid is not valid")
	ErrInfeasibleMoves = errors.New("move list is not feasible")
	ErrPlanningFailed  = errors.New("planning failed")
)
