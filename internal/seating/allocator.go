package seating

import "fmt"

// Placement is a concrete seat assignment produced by Allocate.
type Placement struct {
	Row   int
	Start int
	Size  int
	// Loose is set when no fragmentation-free run existed and the party was
	// placed in the first run large enough to hold it.
	Loose bool
}

// Selection expands the placement into seat identifiers.
func (p Placement) Selection() Selection {
	sel := make(Selection, p.Size)
	for i := range sel {
		sel[i] = SeatID{Row: p.Row, Number: p.Start + i}
	}
	return sel
}

// Allocate finds seats for a party of partySize without the caller choosing
// specific seats.  It returns the first good-fit run (rows in order, runs in
// seat order) seated from its left edge; failing that, the first run large
// enough with Loose set.  A nil placement with a nil error means the house
// has no run large enough.
func Allocate(l *Layout, partySize int) (*Placement, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPartySize, partySize)
	}

	for i, occ := range l.rows {
		row := i + 1
		for _, run := range runsOf(row, occ) {
			if !GoodFit(run.Length, partySize) {
				continue
			}
			p := Placement{Row: row, Start: run.Start, Size: partySize}
			// Good-fit runs seated from the left never trap a seat; the
			// detector guards that invariant.
			if len(TrappedNeighbors(occ, p.Selection().Numbers())) == 0 {
				return &p, nil
			}
		}
	}

	for i, occ := range l.rows {
		for _, run := range runsOf(i+1, occ) {
			if run.Length >= partySize {
				return &Placement{Row: i + 1, Start: run.Start, Size: partySize, Loose: true}, nil
			}
		}
	}
	return nil, nil
}
