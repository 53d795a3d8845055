package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-seat-picker/internal/model"
)

// SimulationRunRepo manages persistence for simulation runs.
type SimulationRunRepo struct {
	db *sql.DB
}

// NewSimulationRunRepo returns a repository bound to db.
func NewSimulationRunRepo(db *sql.DB) *SimulationRunRepo {
	return &SimulationRunRepo{db: db}
}

// Create inserts run and populates its ID and CreatedAt from the database.
func (r *SimulationRunRepo) Create(ctx context.Context, run *model.SimulationRun) error {
	const q = `INSERT INTO simulation_runs
		(seat_rows, seats_per_row, seed, sequence, naive_isolated, algorithm_isolated, naive_occupied, algorithm_occupied)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		run.Rows, run.SeatsPerRow, run.Seed, run.Sequence,
		run.NaiveIsolated, run.AlgorithmIsolated, run.NaiveOccupied, run.AlgorithmOccupied)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM simulation_runs WHERE id = ?`, run.ID).Scan(&run.CreatedAt)
}

// GetByID returns a single run or ErrNotFound.
func (r *SimulationRunRepo) GetByID(ctx context.Context, id uint64) (*model.SimulationRun, error) {
	const q = `SELECT id, seat_rows, seats_per_row, seed, sequence, naive_isolated, algorithm_isolated,
		naive_occupied, algorithm_occupied, created_at
		FROM simulation_runs WHERE id = ?`
	var run model.SimulationRun
	err := scanRun(r.db.QueryRowContext(ctx, q, id), &run)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent returns up to limit runs, newest first.
func (r *SimulationRunRepo) ListRecent(ctx context.Context, limit int) ([]model.SimulationRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const q = `SELECT id, seat_rows, seats_per_row, seed, sequence, naive_isolated, algorithm_isolated,
		naive_occupied, algorithm_occupied, created_at
		FROM simulation_runs ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SimulationRun, 0, limit)
	for rows.Next() {
		var run model.SimulationRun
		if err := scanRun(rows, &run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner, run *model.SimulationRun) error {
	return s.Scan(
		&run.ID,
		&run.Rows,
		&run.SeatsPerRow,
		&run.Seed,
		&run.Sequence,
		&run.NaiveIsolated,
		&run.AlgorithmIsolated,
		&run.NaiveOccupied,
		&run.AlgorithmOccupied,
		&run.CreatedAt,
	)
}
