package model

import "github.com/iliyamo/cinema-seat-picker/internal/seating"

// Seat is the transport shape of a seat.  Requests carry only row and seat;
// responses also report whether the seat is taken.
//
// Fields:
//
//	Row   – 1-based row number.
//	Seat  – 1-based seat number within the row.
//	Taken – occupancy flag (ignored on input).
type Seat struct {
	Row   int  `json:"row" validate:"min=1"`
	Seat  int  `json:"seat" validate:"min=1"`
	Taken bool `json:"taken"`
}

// FromSeating converts a layout snapshot into transport seats.
func FromSeating(seats []seating.Seat) []Seat {
	out := make([]Seat, len(seats))
	for i, s := range seats {
		out[i] = Seat{Row: s.Row, Seat: s.Number, Taken: s.Occupied}
	}
	return out
}

// ToSelection converts requested seats into a selection.
func ToSelection(seats []Seat) seating.Selection {
	sel := make(seating.Selection, len(seats))
	for i, s := range seats {
		sel[i] = seating.SeatID{Row: s.Row, Number: s.Seat}
	}
	return sel
}
