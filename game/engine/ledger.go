package engine

import "sort"

// Ledger is the net virtual delta of proposed moves against a grid. It lets a
// sequence of moves be validated and chained before anything is applied.
//
// The zero value is an empty ledger ready for use.
type Ledger struct {
	becameEmpty    map[Position]struct{}
	becameOccupied map[Position]struct{}
}

// NewLedger returns an empty ledger
func NewLedger() Ledger {
	return Ledger{
		becameEmpty:    make(map[Position]struct{}),
		becameOccupied: make(map[Position]struct{}),
	}
}

// Vacated reports whether p was emptied by a virtual move
func (l Ledger) Vacated(p Position) bool {
	_, ok := l.becameEmpty[p]
	return ok
}

// Filled reports whether p was filled by a virtual move
func (l Ledger) Filled(p Position) bool {
	_, ok := l.becameOccupied[p]
	return ok
}

// IsEmpty reports whether the ledger carries no delta
func (l Ledger) IsEmpty() bool {
	return len(l.becameEmpty) == 0 && len(l.becameOccupied) == 0
}

// VacatedPositions returns the vacated set in row-major order
func (l Ledger) VacatedPositions() []Position {
	return sortedPositions(l.becameEmpty)
}

// FilledPositions returns the filled set in row-major order
func (l Ledger) FilledPositions() []Position {
	return sortedPositions(l.becameOccupied)
}

// Clone returns a ledger that shares no storage with l
func (l Ledger) Clone() Ledger {
	out := NewLedger()
	for p := range l.becameEmpty {
		out.becameEmpty[p] = struct{}{}
	}
	for p := range l.becameOccupied {
		out.becameOccupied[p] = struct{}{}
	}
	return out
}

// record moves a tile from one cell to another in place. Only the net delta is
// kept: a cell is never in both sets.
func (l *Ledger) record(from, to Position) {
	if from == to {
		return
	}
	if l.becameEmpty == nil {
		l.becameEmpty = make(map[Position]struct{})
	}
	if l.becameOccupied == nil {
		l.becameOccupied = make(map[Position]struct{})
	}

	l.becameEmpty[from] = struct{}{}
	delete(l.becameOccupied, from)

	l.becameOccupied[to] = struct{}{}
	delete(l.becameEmpty, to)
}

func sortedPositions(set map[Position]struct{}) []Position {
	out := make([]Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
