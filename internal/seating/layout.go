// Package seating implements the seat layout of a single screening and the
// anti-fragmentation policy built on top of it.  Every function in this
// package is a pure computation over an explicit *Layout (or an in-place
// mutation of it); callers that share a Layout between goroutines must
// serialize access themselves.
package seating

import (
	"fmt"
	"sort"
)

// SeatID identifies a seat by its 1-based row and 1-based seat number.
type SeatID struct {
	Row    int
	Number int
}

func (id SeatID) String() string { return fmt.Sprintf("%d-%d", id.Row, id.Number) }

// Seat is a snapshot of one seat and its occupancy flag.
type Seat struct {
	Row      int
	Number   int
	Occupied bool
}

// Selection is the unordered set of seats a party asks for in one
// transaction.  Duplicate entries refer to the same seat.
type Selection []SeatID

// Layout holds the occupancy of every seat in the house.  Rows are stored
// in a fixed-size slice so that row r lives at index r-1; every row has the
// same width and no gaps.
type Layout struct {
	width int
	rows  [][]bool
}

// NewLayout builds a layout of rows×width free seats.
func NewLayout(rows, width int) (*Layout, error) {
	if rows < 1 || width < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, width)
	}
	l := &Layout{width: width, rows: make([][]bool, rows)}
	for i := range l.rows {
		l.rows[i] = make([]bool, width)
	}
	return l, nil
}

// RowCount returns the number of rows.
func (l *Layout) RowCount() int { return len(l.rows) }

// Width returns the number of seats per row.
func (l *Layout) Width() int { return l.width }

// TotalSeats returns RowCount()*Width().
func (l *Layout) TotalSeats() int { return len(l.rows) * l.width }

// OccupiedCount returns how many seats are currently occupied.
func (l *Layout) OccupiedCount() int {
	n := 0
	for _, row := range l.rows {
		for _, taken := range row {
			if taken {
				n++
			}
		}
	}
	return n
}

// Contains reports whether id addresses a seat of this layout.
func (l *Layout) Contains(id SeatID) bool {
	return id.Row >= 1 && id.Row <= len(l.rows) && id.Number >= 1 && id.Number <= l.width
}

// IsOccupied reports the occupancy of one seat.
func (l *Layout) IsOccupied(id SeatID) (bool, error) {
	if !l.Contains(id) {
		return false, fmt.Errorf("%w: %s", ErrSeatOutOfRange, id)
	}
	return l.rows[id.Row-1][id.Number-1], nil
}

// row returns the live occupancy slice of row r (1-based).  Callers inside
// the package must not retain or mutate it.
func (l *Layout) row(r int) ([]bool, error) {
	if r < 1 || r > len(l.rows) {
		return nil, fmt.Errorf("%w: row %d", ErrRowOutOfRange, r)
	}
	return l.rows[r-1], nil
}

// Seats lists every seat row-major, seat-ascending within a row.
func (l *Layout) Seats() []Seat {
	out := make([]Seat, 0, l.TotalSeats())
	for i, row := range l.rows {
		for j, taken := range row {
			out = append(out, Seat{Row: i + 1, Number: j + 1, Occupied: taken})
		}
	}
	return out
}

// Commit marks every seat of sel occupied.  It performs no policy or
// occupancy checks; a seat outside the layout aborts the whole commit
// before anything is changed.
func (l *Layout) Commit(sel Selection) error {
	for _, id := range sel {
		if !l.Contains(id) {
			return fmt.Errorf("%w: %s", ErrSeatOutOfRange, id)
		}
	}
	for _, id := range sel {
		l.rows[id.Row-1][id.Number-1] = true
	}
	return nil
}

// Reset frees every seat.
func (l *Layout) Reset() {
	for _, row := range l.rows {
		for j := range row {
			row[j] = false
		}
	}
}

// Seed resets the layout and then occupies every seat of pattern.
func (l *Layout) Seed(pattern []SeatID) error {
	for _, id := range pattern {
		if !l.Contains(id) {
			return fmt.Errorf("%w: %s", ErrSeatOutOfRange, id)
		}
	}
	l.Reset()
	return l.Commit(pattern)
}

// Clone returns an independent deep copy.
func (l *Layout) Clone() *Layout {
	c := &Layout{width: l.width, rows: make([][]bool, len(l.rows))}
	for i, row := range l.rows {
		c.rows[i] = append([]bool(nil), row...)
	}
	return c
}

// Rows returns the distinct row numbers referenced by the selection in
// ascending order.
func (s Selection) Rows() []int {
	seen := make(map[int]struct{}, 1)
	var rows []int
	for _, id := range s {
		if _, ok := seen[id.Row]; !ok {
			seen[id.Row] = struct{}{}
			rows = append(rows, id.Row)
		}
	}
	sort.Ints(rows)
	return rows
}

// Unique returns the selection with duplicates removed, ordered by row and
// seat number.
func (s Selection) Unique() Selection {
	seen := make(map[SeatID]struct{}, len(s))
	out := make(Selection, 0, len(s))
	for _, id := range s {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// Numbers returns the seat numbers of the selection, in selection order.
func (s Selection) Numbers() []int {
	out := make([]int, len(s))
	for i, id := range s {
		out[i] = id.Number
	}
	return out
}

// RowSelection builds a selection of the given seat numbers in one row.
func RowSelection(row int, numbers ...int) Selection {
	sel := make(Selection, len(numbers))
	for i, n := range numbers {
		sel[i] = SeatID{Row: row, Number: n}
	}
	return sel
}
