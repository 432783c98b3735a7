package engine

import (
	"fmt"
	"sort"
)

// TileMap tracks where each tile sits while moves are being planned
type TileMap struct {
	positions map[int]Position
	occupants map[Position]int
}

func newTileMap() TileMap {
	return TileMap{
		positions: make(map[int]Position),
		occupants: make(map[Position]int),
	}
}

// Position returns the planned position of tile v
func (t TileMap) Position(v int) (Position, bool) {
	p, ok := t.positions[v]
	return p, ok
}

// TileAt returns the tile planned to sit at p
func (t TileMap) TileAt(p Position) (int, bool) {
	v, ok := t.occupants[p]
	return v, ok
}

// Values returns every tile in ascending order
func (t TileMap) Values() []int {
	values := make([]int, 0, len(t.positions))
	for v := range t.positions {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}

// Len returns the number of tiles
func (t TileMap) Len() int {
	return len(t.positions)
}

func (t TileMap) place(v int, p Position) {
	t.positions[v] = p
	t.occupants[p] = v
}

// shift moves whichever tile sits at from to to
func (t TileMap) shift(from, to Position) {
	if from == to {
		return
	}
	v, ok := t.occupants[from]
	if !ok {
		return
	}
	delete(t.occupants, from)
	t.place(v, to)
}

// planner owns the virtual state of one planning request. Every recursive
// clearing call works on the same planner, so nothing is shared across requests.
type planner struct {
	grid     *Grid
	ledger   Ledger
	tiles    TileMap
	moves    []Move
	maxDepth int

	// pinned holds cells whose tile is waiting on a clearing request further up
	// the stack and must not be displaced.
	pinned map[Position]bool
}

func newPlanner(g *Grid) *planner {
	return &planner{
		grid:     g,
		ledger:   NewLedger(),
		tiles:    g.Tiles(),
		maxDepth: g.rows * g.cols,
		pinned:   make(map[Position]bool),
	}
}

func (p *planner) feasible(m Move) bool {
	reason, _ := p.grid.checkMove(m, p.ledger)
	return reason == Feasible
}

// commit emits a move and folds it into the ledger and tile map
func (p *planner) commit(m Move) {
	p.moves = append(p.moves, m)
	p.ledger.record(m.Origin, m.Destination())
	p.tiles.shift(m.Origin, m.Destination())
}

// clearPath displaces every tile on target's path one cell along the
// perpendicular axis so that target becomes feasible. Tiles go forward (down or
// right) when they can, backward otherwise, and when both are blocked the
// forward step is itself cleared recursively and then forced.
func (p *planner) clearPath(target Move, depth int) error {
	if depth > p.maxDepth {
		return fmt.Errorf("%w: clearing for %s exceeded depth %d", ErrPlanningFailed, target, p.maxDepth)
	}
	if !p.grid.InBounds(target.Origin) || !p.grid.InBounds(target.Destination()) {
		return fmt.Errorf("%w: %s leaves the grid", ErrPlanningFailed, target)
	}

	perp := target.Axis.Perpendicular()
	dir := target.direction()

	for k := 1; k <= abs(target.Displacement); k++ {
		cur := target.Origin.Step(target.Axis, dir*k)
		if !p.grid.occupied(cur, p.ledger) {
			continue
		}
		if p.pinned[cur] {
			return fmt.Errorf("%w: %s is held by a pending move", ErrPlanningFailed, cur)
		}

		forward := Move{Origin: cur, Axis: perp, Displacement: 1}
		backward := Move{Origin: cur, Axis: perp, Displacement: -1}

		var err error
		switch {
		case p.feasible(forward):
			p.commit(forward)
		case p.feasible(backward):
			p.commit(backward)
		case p.grid.InBounds(forward.Destination()):
			err = p.force(forward, depth)
		default:
			err = p.force(backward, depth)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// force clears the single step's destination and then commits the step
func (p *planner) force(step Move, depth int) error {
	if !p.grid.InBounds(step.Destination()) {
		return fmt.Errorf("%w: no room to displace tile at %s", ErrPlanningFailed, step.Origin)
	}
	if err := p.clearUntilFeasible(step, depth+1); err != nil {
		return err
	}
	p.commit(step)
	return nil
}

// clearUntilFeasible runs clearPath over m until m is feasible. Recursive
// clearing can push a tile back onto a path cell that was already scanned, so
// the path is rescanned for as long as each pass still emits moves. m's tile
// is pinned while its path is being cleared.
func (p *planner) clearUntilFeasible(m Move, depth int) error {
	for pass := 0; !p.feasible(m); pass++ {
		if pass > p.maxDepth {
			return fmt.Errorf("%w: %s still blocked after %d passes", ErrPlanningFailed, m, pass)
		}

		before := len(p.moves)
		p.pinned[m.Origin] = true
		err := p.clearPath(m, depth)
		delete(p.pinned, m.Origin)
		if err != nil {
			return err
		}
		if len(p.moves) == before {
			return fmt.Errorf("%w: %s still blocked after clearing", ErrPlanningFailed, m)
		}
	}
	return nil
}
