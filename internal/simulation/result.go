package simulation

import (
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

// Result holds the tallies of one strategy run.
type Result struct {
	Strategy          Strategy `json:"strategy"`
	GroupsPlaced      int      `json:"groups_placed"`
	GroupsRejected    int      `json:"groups_rejected"`
	LoosePlacements   int      `json:"loose_placements"`
	SeatsOccupied     int      `json:"seats_occupied"`
	TotalSeats        int      `json:"total_seats"`
	IsolatedSeats     int      `json:"isolated_seats"`
	Utilization       float64  `json:"utilization"`
	FragmentationRate float64  `json:"fragmentation_rate"`
}

// finish derives the end-of-run metrics from the final layout.
func (r *Result) finish(l *seating.Layout) {
	r.TotalSeats = l.TotalSeats()
	r.IsolatedSeats = seating.CountIsolated(l)
	if r.TotalSeats > 0 {
		r.Utilization = float64(r.SeatsOccupied) * 100 / float64(r.TotalSeats)
	}
	if r.SeatsOccupied > 0 {
		r.FragmentationRate = float64(r.IsolatedSeats) * 100 / float64(r.SeatsOccupied)
	}
}

func (r Result) String() string {
	return fmt.Sprintf(`=== %s ===
Groups placed: %d
Groups rejected: %d
Total seats occupied: %d
Cinema utilization: %.2f%%
Single isolated seats: %d
Fragmentation rate: %.2f%% (isolated/occupied)
`, r.Strategy, r.GroupsPlaced, r.GroupsRejected, r.SeatsOccupied,
		r.Utilization, r.IsolatedSeats, r.FragmentationRate)
}

// Comparison pairs the two strategies over one sequence.
type Comparison struct {
	Sequence  []int  `json:"sequence"`
	Naive     Result `json:"naive"`
	Algorithm Result `json:"algorithm"`
}

// IsolatedReduction is how many fewer isolated seats the algorithm left.
func (c Comparison) IsolatedReduction() int {
	return c.Naive.IsolatedSeats - c.Algorithm.IsolatedSeats
}

// Report renders the comparison as a plain-text A/B report.
func (c Comparison) Report() string {
	rule := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "CINEMA SEAT PICKER A/B SIMULATION")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Group sequence: %v\n", c.Sequence)
	fmt.Fprintf(&b, "Total groups: %d\n\n", len(c.Sequence))
	fmt.Fprintln(&b, c.Naive.String())
	fmt.Fprintln(&b, c.Algorithm.String())
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "COMPARISON")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Fragmentation rate - Naive: %.2f%%, Algorithm: %.2f%%\n",
		c.Naive.FragmentationRate, c.Algorithm.FragmentationRate)
	fmt.Fprintf(&b, "Isolated seats reduced: %d -> %d (-%d seats)\n",
		c.Naive.IsolatedSeats, c.Algorithm.IsolatedSeats, c.IsolatedReduction())
	return b.String()
}

// Summary aggregates repeated comparisons.
type Summary struct {
	Trials            int          `json:"trials"`
	NaiveIsolated     int          `json:"naive_isolated"`
	AlgorithmIsolated int          `json:"algorithm_isolated"`
	AlgorithmNoWorse  int          `json:"algorithm_no_worse"`
	Comparisons       []Comparison `json:"-"`
}

// MeanNaiveIsolated is the average naive isolated-seat count per trial.
func (s Summary) MeanNaiveIsolated() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.NaiveIsolated) / float64(s.Trials)
}

// MeanAlgorithmIsolated is the average algorithm isolated-seat count per trial.
func (s Summary) MeanAlgorithmIsolated() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.AlgorithmIsolated) / float64(s.Trials)
}
