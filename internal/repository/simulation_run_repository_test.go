package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-picker/internal/database"
	"github.com/iliyamo/cinema-seat-picker/internal/model"
)

// openTestDB connects to the database named by SEATPICKER_TEST_DSN or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("SEATPICKER_TEST_DSN")
	if dsn == "" {
		t.Skip("SEATPICKER_TEST_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db))
	return db
}

func TestSimulationRunRepo_CreateAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewSimulationRunRepo(db)
	ctx := context.Background()

	run := model.SimulationRun{
		Rows: 10, SeatsPerRow: 10, Seed: 7, Sequence: "3,2,4",
		NaiveIsolated: 4, AlgorithmIsolated: 1, NaiveOccupied: 9, AlgorithmOccupied: 9,
	}
	require.NoError(t, repo.Create(ctx, &run))
	require.NotZero(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Sequence, got.Sequence)
	assert.Equal(t, run.AlgorithmIsolated, got.AlgorithmIsolated)

	list, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, run.ID, list[0].ID)
}

func TestSimulationRunRepo_GetByIDMissing(t *testing.T) {
	db := openTestDB(t)
	_, err := NewSimulationRunRepo(db).GetByID(context.Background(), 1<<62)
	assert.ErrorIs(t, err, ErrNotFound)
}
