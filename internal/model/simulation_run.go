package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/cinema-seat-picker/internal/simulation"
)

// SimulationRun records one naive-versus-algorithm comparison.  It maps to
// a row in the `simulation_runs` table.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Rows, SeatsPerRow  – dimensions of the simulated house.
//	Seed               – seed of the naive strategy's random source.
//	Sequence           – party sizes, comma separated.
//	NaiveIsolated      – isolated seats left by the naive strategy.
//	AlgorithmIsolated  – isolated seats left by the allocator.
//	NaiveOccupied      – seats occupied by the naive strategy.
//	AlgorithmOccupied  – seats occupied by the allocator.
//	CreatedAt          – when the run was stored.
type SimulationRun struct {
	ID                uint64    `json:"id"`                 // simulation_runs.id
	Rows              int       `json:"rows"`               // simulation_runs.seat_rows
	SeatsPerRow       int       `json:"seats_per_row"`      // simulation_runs.seats_per_row
	Seed              int64     `json:"seed"`               // simulation_runs.seed
	Sequence          string    `json:"sequence"`           // simulation_runs.sequence
	NaiveIsolated     int       `json:"naive_isolated"`     // simulation_runs.naive_isolated
	AlgorithmIsolated int       `json:"algorithm_isolated"` // simulation_runs.algorithm_isolated
	NaiveOccupied     int       `json:"naive_occupied"`     // simulation_runs.naive_occupied
	AlgorithmOccupied int       `json:"algorithm_occupied"` // simulation_runs.algorithm_occupied
	CreatedAt         time.Time `json:"created_at"`         // simulation_runs.created_at
}

// NewSimulationRun flattens a comparison into a storable record.
func NewSimulationRun(rows, seatsPerRow int, seed int64, c simulation.Comparison) SimulationRun {
	parts := make([]string, len(c.Sequence))
	for i, n := range c.Sequence {
		parts[i] = strconv.Itoa(n)
	}
	return SimulationRun{
		Rows:              rows,
		SeatsPerRow:       seatsPerRow,
		Seed:              seed,
		Sequence:          strings.Join(parts, ","),
		NaiveIsolated:     c.Naive.IsolatedSeats,
		AlgorithmIsolated: c.Algorithm.IsolatedSeats,
		NaiveOccupied:     c.Naive.SeatsOccupied,
		AlgorithmOccupied: c.Algorithm.SeatsOccupied,
	}
}
