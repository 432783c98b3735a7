package engine

import "fmt"

// SortingMoves returns a move list that sorts the grid when passed to ApplyMoves.
// The grid itself is not modified.
//
// Tiles are handled in ascending value order. Phase one shoves each tile v along
// its row into column v-1, clearing blockers out of the way. Phase two lifts
// every tile straight up to row 0. The plan is replayed on a copy of the grid
// before it is returned, so a plan that would not sort the grid surfaces as
// ErrPlanningFailed instead.
func (g *Grid) SortingMoves() ([]Move, error) {
	if !g.IsValid() {
		return nil, ErrInvalidGrid
	}

	p := newPlanner(g)
	if err := p.placeColumns(); err != nil {
		return nil, err
	}
	p.liftRows()

	if err := g.verifyPlan(p.moves); err != nil {
		return nil, err
	}
	if p.moves == nil {
		return []Move{}, nil
	}
	return p.moves, nil
}

// placeColumns runs phase one. Recursive clearing can push an already placed
// tile sideways, so further passes re-place stragglers, at most one per tile.
func (p *planner) placeColumns() error {
	values := p.tiles.Values()

	for pass := 0; ; pass++ {
		if p.columnsPlaced(values) {
			return nil
		}
		if pass > len(values) {
			return fmt.Errorf("%w: tiles still out of column after %d passes", ErrPlanningFailed, pass)
		}

		for _, v := range values {
			pos, _ := p.tiles.Position(v)
			if pos.Col == v-1 {
				continue
			}
			if err := p.placeTile(v, pos); err != nil {
				return fmt.Errorf("placing tile %d: %w", v, err)
			}
		}
	}
}

// placeTile shoves tile v from pos into column v-1
func (p *planner) placeTile(v int, pos Position) error {
	m := Move{Origin: pos, Axis: RowWise, Displacement: v - 1 - pos.Col}

	if err := p.clearUntilFeasible(m, 0); err != nil {
		return err
	}
	p.commit(m)
	return nil
}

func (p *planner) columnsPlaced(values []int) bool {
	for _, v := range values {
		if pos, _ := p.tiles.Position(v); pos.Col != v-1 {
			return false
		}
	}
	return true
}

// liftRows runs phase two. Every tile owns its column by now, so the lifts are
// appended without probing.
func (p *planner) liftRows() {
	for _, v := range p.tiles.Values() {
		pos, _ := p.tiles.Position(v)
		if pos.Row == 0 {
			continue
		}
		p.commit(Move{Origin: pos, Axis: ColumnWise, Displacement: -pos.Row})
	}
}

// verifyPlan replays moves on a copy of the grid and checks the outcome
func (g *Grid) verifyPlan(moves []Move) error {
	replay := g.Clone()
	if err := replay.ApplyMoves(moves); err != nil {
		return fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	if !replay.IsValid() || !replay.IsSorted() {
		return fmt.Errorf("%w: plan leaves grid unsorted", ErrPlanningFailed)
	}
	return nil
}
