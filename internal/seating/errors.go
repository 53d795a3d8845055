package seating

import "errors"

// ErrInvalidDimensions is returned by NewLayout for a non-positive row count
// or width.
var ErrInvalidDimensions = errors.New("seating: invalid layout dimensions")

// ErrSeatOutOfRange is returned when a seat does not exist in the layout.
var ErrSeatOutOfRange = errors.New("seating: seat out of range")

// ErrRowOutOfRange is returned when a row number does not exist in the layout.
var ErrRowOutOfRange = errors.New("seating: row out of range")

// ErrEmptySelection is a caller error: a selection must name at least one
// seat.  It is distinct from a policy rejection.
var ErrEmptySelection = errors.New("seating: empty selection")

// ErrInvalidPartySize is returned by Allocate for a party smaller than one.
var ErrInvalidPartySize = errors.New("seating: invalid party size")
