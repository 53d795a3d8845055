// Package cli holds the cobra commands of the seatpicker tooling.
package cli

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-seat-picker/internal/config"
	"github.com/iliyamo/cinema-seat-picker/internal/database"
	"github.com/iliyamo/cinema-seat-picker/internal/model"
	"github.com/iliyamo/cinema-seat-picker/internal/repository"
	"github.com/iliyamo/cinema-seat-picker/internal/simulation"
)

// runStore persists one comparison.  Swapped out in tests.
type runStore func(ctx context.Context, run *model.SimulationRun) error

// NewSimulateCommand creates the root simulate command.
func NewSimulateCommand() *cobra.Command {
	return newSimulateCommand(mysqlStore)
}

func newSimulateCommand(store runStore) *cobra.Command {
	var (
		rows     int
		width    int
		seed     int64
		trials   int
		sequence string
		random   int
		persist  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Compare naive seating with the anti-fragmentation allocator",
		Long: `Replay a sequence of party sizes against a naive random-fit strategy and
the anti-fragmentation allocator, then report how many single seats each one
strands.

Examples:
  simulate
  simulate --seed 42 --trials 100
  simulate --sequence 3,2,4,2 --rows 1
  simulate --random 40 --store`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))

			seq := simulation.DefaultSequence
			switch {
			case sequence != "" && random > 0:
				return fmt.Errorf("--sequence and --random are mutually exclusive")
			case sequence != "":
				parsed, err := parseSequence(sequence)
				if err != nil {
					return err
				}
				seq = parsed
			case random > 0:
				drawn, err := simulation.RandomSequence(rng, random, 2, 5)
				if err != nil {
					return err
				}
				seq = drawn
			}

			h, err := simulation.New(rows, width, rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			c := h.Compare(seq)
			fmt.Fprint(out, c.Report())

			if trials > 1 {
				sum, err := h.Trials(cmd.Context(), seq, trials)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nTrials: %d\n", sum.Trials)
				fmt.Fprintf(out, "  Mean isolated (naive):     %.2f\n", sum.MeanNaiveIsolated())
				fmt.Fprintf(out, "  Mean isolated (algorithm): %.2f\n", sum.MeanAlgorithmIsolated())
				fmt.Fprintf(out, "  Algorithm no worse in:     %d/%d\n", sum.AlgorithmNoWorse, sum.Trials)
			}

			if persist {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				run := model.NewSimulationRun(rows, width, seed, c)
				if err := store(ctx, &run); err != nil {
					return fmt.Errorf("store simulation run: %w", err)
				}
				fmt.Fprintf(out, "\nStored as simulation run #%d\n", run.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 10, "Number of rows in the simulated house")
	cmd.Flags().IntVar(&width, "width", 10, "Seats per row")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Seed for the naive strategy's random source")
	cmd.Flags().IntVar(&trials, "trials", 1, "Repeat the comparison and print averages when > 1")
	cmd.Flags().StringVar(&sequence, "sequence", "", "Comma-separated party sizes, e.g. 3,2,4")
	cmd.Flags().IntVar(&random, "random", 0, "Draw this many party sizes between 2 and 5")
	cmd.Flags().BoolVar(&persist, "store", false, "Store the comparison in MySQL (DB_* env vars)")

	cmd.AddCommand(newHashPasswordCommand())
	return cmd
}

func parseSequence(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	seq := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid party size %q in --sequence", p)
		}
		seq = append(seq, n)
	}
	return seq, nil
}

func mysqlStore(ctx context.Context, run *model.SimulationRun) error {
	cfg := config.LoadDBConfig()
	if !cfg.Enabled() {
		return fmt.Errorf("DB_HOST is not set")
	}
	db, err := database.Open(cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}
	return repository.NewSimulationRunRepo(db).Create(ctx, run)
}
