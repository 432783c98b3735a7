package engine

import "fmt"

// CheckMoves validates moves in order against the grid as modified by ledger.
// Evaluation stops at the first infeasible move. The ledger passed in is never
// modified; the returned Feasibility carries the updated copy.
func (g *Grid) CheckMoves(moves []Move, ledger Ledger) Feasibility {
	l := ledger.Clone()

	for i, m := range moves {
		reason, blocked := g.checkMove(m, l)
		if reason != Feasible {
			return Feasibility{
				Feasible: false,
				Ledger:   l,
				FailedAt: i,
				Reason:   reason,
				Blocked:  blocked,
			}
		}
		l.record(m.Origin, m.Destination())
	}

	return Feasibility{Feasible: true, Ledger: l, FailedAt: -1}
}

// ProbeMove checks a single move without recording it. Like CheckMoves, the
// returned Feasibility carries a copy of ledger, never the caller's maps.
func (g *Grid) ProbeMove(m Move, ledger Ledger) Feasibility {
	reason, blocked := g.checkMove(m, ledger)
	if reason != Feasible {
		return Feasibility{Ledger: ledger.Clone(), FailedAt: 0, Reason: reason, Blocked: blocked}
	}
	return Feasibility{Feasible: true, Ledger: ledger.Clone(), FailedAt: -1}
}

// ValidateMoves reports whether the whole list is feasible against the current
// grid. The empty list is always feasible.
func (g *Grid) ValidateMoves(moves []Move) bool {
	return g.CheckMoves(moves, NewLedger()).Feasible
}

// ApplyMoves commits moves to the grid in order. The list is validated first and
// the grid is left untouched if any move is infeasible.
func (g *Grid) ApplyMoves(moves []Move) error {
	f := g.CheckMoves(moves, NewLedger())
	if !f.Feasible {
		return fmt.Errorf("%w: move %d %s: %s", ErrInfeasibleMoves, f.FailedAt+1, moves[f.FailedAt], f.Reason)
	}
	g.applyUnchecked(moves)
	return nil
}

// applyUnchecked shoves tiles without validation; an infeasible list corrupts the grid
func (g *Grid) applyUnchecked(moves []Move) {
	for _, m := range moves {
		if m.Displacement == 0 {
			continue
		}
		dst := m.Destination()
		g.cells[dst.Row][dst.Col] = g.cells[m.Origin.Row][m.Origin.Col]
		g.cells[m.Origin.Row][m.Origin.Col] = 0
	}
}

// checkMove runs the start, bounds and path checks for one move
func (g *Grid) checkMove(m Move, l Ledger) (Infeasibility, Position) {
	// An off-grid origin is reported as a bounds failure rather than read.
	if !g.InBounds(m.Origin) {
		return OutOfBounds, Position{}
	}
	if !g.occupied(m.Origin, l) {
		return OriginEmpty, Position{}
	}
	if !g.InBounds(m.Destination()) {
		return OutOfBounds, Position{}
	}

	dir := m.direction()
	for k := 1; k <= abs(m.Displacement); k++ {
		p := m.Origin.Step(m.Axis, dir*k)
		if g.occupied(p, l) {
			return PathBlocked, p
		}
	}
	return Feasible, Position{}
}
