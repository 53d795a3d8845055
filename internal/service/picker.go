// Package service wraps the seating engine in a concurrency-safe seat picker
// that commits orders, reports metrics and publishes order events.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-seat-picker/internal/metrics"
	q "github.com/iliyamo/cinema-seat-picker/internal/queue"
	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

// Options configures a SeatPicker.
type Options struct {
	Rows        int
	SeatsPerRow int
	// Scenario is applied on construction; empty means an empty house.
	Scenario  string
	Policy    seating.Policy
	Publisher Publisher        // nil disables events
	Metrics   metrics.Recorder // nil disables metrics
	Now       func() time.Time // defaults to time.Now
}

// SeatPicker owns one seating layout.  Every operation runs under a single
// mutex so validation and commit of an order are atomic with respect to
// other requests.
type SeatPicker struct {
	mu        sync.Mutex
	layout    *seating.Layout
	policy    seating.Policy
	publisher Publisher
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewSeatPicker builds a picker over a fresh layout.
func NewSeatPicker(opts Options) (*SeatPicker, error) {
	l, err := seating.NewLayout(opts.Rows, opts.SeatsPerRow)
	if err != nil {
		return nil, err
	}
	p := &SeatPicker{
		layout:    l,
		policy:    opts.Policy,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if p.publisher == nil {
		p.publisher = NopPublisher{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.Scenario != "" {
		if err := p.SetupScenario(opts.Scenario); err != nil {
			return nil, err
		}
	}
	p.recordOccupancy()
	return p, nil
}

// Dimensions returns the number of rows and seats per row.
func (p *SeatPicker) Dimensions() (rows, width int) {
	return p.layout.RowCount(), p.layout.Width()
}

// Seats returns a row-major snapshot of the house.
func (p *SeatPicker) Seats() []seating.Seat {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layout.Seats()
}

// Check validates sel without changing the layout.
func (p *SeatPicker) Check(sel seating.Selection) (seating.Verdict, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, err := p.policy.Validate(p.layout, sel)
	p.recordVerdict("check", v)
	return v, err
}

// Order validates sel and, when accepted, commits it and publishes a
// SeatsOrderedEvent.  Publish failures are logged and do not undo the
// commit.
func (p *SeatPicker) Order(ctx context.Context, sel seating.Selection) (seating.Verdict, error) {
	p.mu.Lock()
	v, err := p.policy.Validate(p.layout, sel)
	p.recordVerdict("order", v)
	if err != nil || !v.IsAccepted() {
		p.mu.Unlock()
		return v, err
	}
	sel = sel.Unique()
	if err := p.layout.Commit(sel); err != nil {
		p.mu.Unlock()
		return seating.InvalidSeat, err
	}
	ev := p.event(sel, v, false)
	p.recordOccupancy()
	p.mu.Unlock()

	p.publish(ctx, ev)
	return v, nil
}

// Allocate finds seats for a party of partySize.  With commit set the
// placement is booked and an event is published.  A nil placement with a
// nil error means no row has room for the party.
func (p *SeatPicker) Allocate(ctx context.Context, partySize int, commit bool) (*seating.Placement, error) {
	p.mu.Lock()
	pl, err := seating.Allocate(p.layout, partySize)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.recordAllocation(pl, partySize)
	if pl == nil || !commit {
		p.mu.Unlock()
		return pl, nil
	}
	sel := pl.Selection()
	if err := p.layout.Commit(sel); err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("commit placement: %w", err)
	}
	ev := p.event(sel, seating.Accepted, true)
	p.recordOccupancy()
	p.mu.Unlock()

	p.publish(ctx, ev)
	return pl, nil
}

// Reset frees every seat.
func (p *SeatPicker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.layout.Reset()
	p.recordOccupancy()
}

// SetupScenario resets the house and seeds the named occupancy pattern.
func (p *SeatPicker) SetupScenario(name string) error {
	build, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.layout.Seed(build(p.layout.RowCount(), p.layout.Width())); err != nil {
		return err
	}
	p.recordOccupancy()
	return nil
}

// IsolatedSeats reports the current count of stranded single seats.
func (p *SeatPicker) IsolatedSeats() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return seating.CountIsolated(p.layout)
}

// event must be called with p.mu held.
func (p *SeatPicker) event(sel seating.Selection, v seating.Verdict, allocated bool) q.SeatsOrderedEvent {
	return q.SeatsOrderedEvent{
		EventID:       uuid.NewString(),
		Row:           sel[0].Row,
		Seats:         sel.Numbers(),
		Verdict:       v.String(),
		Allocated:     allocated,
		OccupiedAfter: p.layout.OccupiedCount(),
		TotalSeats:    p.layout.TotalSeats(),
		OrderedAt:     p.now().UTC().Format(time.RFC3339),
	}
}

func (p *SeatPicker) publish(ctx context.Context, ev q.SeatsOrderedEvent) {
	if err := p.publisher.PublishSeatsOrdered(ctx, ev); err != nil {
		log.Printf("seat-picker: publish seats ordered (event %s) failed: %v", ev.EventID, err)
	}
}

func (p *SeatPicker) recordVerdict(op string, v seating.Verdict) {
	if p.metrics != nil {
		p.metrics.RecordVerdict(op, v.String())
	}
}

func (p *SeatPicker) recordAllocation(pl *seating.Placement, partySize int) {
	if p.metrics == nil {
		return
	}
	outcome := "no_capacity"
	switch {
	case pl == nil:
	case pl.Loose:
		outcome = "loose"
	default:
		outcome = "strict"
	}
	p.metrics.RecordAllocation(outcome, partySize)
}

func (p *SeatPicker) recordOccupancy() {
	if p.metrics != nil {
		p.metrics.RecordOccupancy(p.layout.OccupiedCount(), p.layout.TotalSeats())
	}
}
