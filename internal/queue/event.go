// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// SeatsOrderedQueue is the durable queue seat orders are published to.
const SeatsOrderedQueue = "seats.ordered"

// SeatsOrderedEvent is published after a selection has been accepted and
// committed.  It carries enough for downstream consumers to log or analyse
// bookings without reading the layout.
type SeatsOrderedEvent struct {
	EventID       string `json:"event_id"`
	Row           int    `json:"row"`
	Seats         []int  `json:"seats"`
	Verdict       string `json:"verdict"`
	Allocated     bool   `json:"allocated"` // seats chosen by the allocator, not the customer
	OccupiedAfter int    `json:"occupied_after"`
	TotalSeats    int    `json:"total_seats"`
	OrderedAt     string `json:"ordered_at"`
}
