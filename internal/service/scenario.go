package service

import (
	"errors"
	"sort"

	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

// ErrUnknownScenario is returned by SetupScenario for an unregistered name.
var ErrUnknownScenario = errors.New("service: unknown scenario")

// Scenario names accepted by SetupScenario.
const (
	ScenarioEmpty      = "empty"
	ScenarioDemo       = "demo"
	ScenarioFragmented = "fragmented"
	ScenarioNearlyFull = "nearly-full"
)

// scenario builds an occupancy pattern for a layout of the given shape.
// Seats outside the shape are never produced.
type scenario func(rows, width int) []seating.SeatID

var scenarios = map[string]scenario{
	ScenarioEmpty: func(int, int) []seating.SeatID { return nil },
	// Row 4 seat 5 taken: the state the demo house opens with.
	ScenarioDemo: func(rows, width int) []seating.SeatID {
		if rows < 4 || width < 5 {
			return nil
		}
		return []seating.SeatID{{Row: 4, Number: 5}}
	},
	// Every third seat taken, leaving pairs that a careless pick splits.
	ScenarioFragmented: func(rows, width int) []seating.SeatID {
		var out []seating.SeatID
		for r := 1; r <= rows; r++ {
			for n := 3; n <= width; n += 3 {
				out = append(out, seating.SeatID{Row: r, Number: n})
			}
		}
		return out
	},
	// Everything taken except the first three seats of the last row.
	ScenarioNearlyFull: func(rows, width int) []seating.SeatID {
		var out []seating.SeatID
		for r := 1; r <= rows; r++ {
			for n := 1; n <= width; n++ {
				if r == rows && n <= 3 {
					continue
				}
				out = append(out, seating.SeatID{Row: r, Number: n})
			}
		}
		return out
	},
}

// Scenarios lists the registered scenario names in sorted order.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
