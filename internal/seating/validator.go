package seating

import "fmt"

// Verdict is the outcome of validating a selection.
type Verdict int

const (
	// Accepted means the selection may be committed.
	Accepted Verdict = iota
	// RejectedFragmentation means the selection strands a single seat and a
	// better placement exists elsewhere in the house.
	RejectedFragmentation
	// RejectedCrossRow means the selection spans more than one row.
	RejectedCrossRow
	// InvalidEmptySelection means the selection named no seats.
	InvalidEmptySelection
	// InvalidSeat means the selection names a seat outside the layout.
	InvalidSeat
	// RejectedUnavailable means a selected seat is already occupied.  Only
	// produced when the occupancy precheck is enabled.
	RejectedUnavailable
)

var verdictNames = map[Verdict]string{
	Accepted:              "accepted",
	RejectedFragmentation: "rejected_fragmentation",
	RejectedCrossRow:      "rejected_cross_row",
	InvalidEmptySelection: "invalid_empty_selection",
	InvalidSeat:           "invalid_seat",
	RejectedUnavailable:   "rejected_unavailable",
}

func (v Verdict) String() string {
	if s, ok := verdictNames[v]; ok {
		return s
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// IsAccepted reports whether v allows the selection to be committed.
func (v Verdict) IsAccepted() bool { return v == Accepted }

// Policy configures the selection validator.  The zero value does not look
// at the occupancy of the selected seats themselves.
type Policy struct {
	// OccupancyPrecheck rejects selections containing an occupied seat
	// with RejectedUnavailable before the fragmentation logic runs.
	OccupancyPrecheck bool
}

// Validate applies the default Policy.
func Validate(l *Layout, sel Selection) (Verdict, error) {
	return Policy{}.Validate(l, sel)
}

// Validate decides whether sel may be booked on l.  Caller errors (an empty
// selection or a seat outside the layout) are returned as errors alongside
// their verdict; policy outcomes are returned with a nil error.
func (p Policy) Validate(l *Layout, sel Selection) (Verdict, error) {
	if len(sel) == 0 {
		return InvalidEmptySelection, ErrEmptySelection
	}
	rows := sel.Rows()
	if len(rows) > 1 {
		return RejectedCrossRow, nil
	}
	sel = sel.Unique()
	for _, id := range sel {
		if !l.Contains(id) {
			return InvalidSeat, fmt.Errorf("%w: %s", ErrSeatOutOfRange, id)
		}
	}

	if p.OccupancyPrecheck {
		taken, err := CheckAvailability(l, sel)
		if err != nil {
			return InvalidSeat, err
		}
		if len(taken) > 0 {
			return RejectedUnavailable, nil
		}
	}

	fragments, err := CreatesFragmentation(l, rows[0], sel.Numbers())
	if err != nil {
		return InvalidSeat, err
	}
	if !fragments {
		return Accepted, nil
	}
	// Admitting fragmentation beats refusing a booking nothing can improve.
	if HasAlternative(l, len(sel)) {
		return RejectedFragmentation, nil
	}
	return Accepted, nil
}

// CheckAvailability returns the seats of sel that are already occupied.
func CheckAvailability(l *Layout, sel Selection) ([]SeatID, error) {
	var taken []SeatID
	for _, id := range sel.Unique() {
		occ, err := l.IsOccupied(id)
		if err != nil {
			return nil, err
		}
		if occ {
			taken = append(taken, id)
		}
	}
	return taken, nil
}
