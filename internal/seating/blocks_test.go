package seating_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

func TestFreeRuns_EmptyRow(t *testing.T) {
	l := newHouse(t, 1)

	runs, err := seating.FreeRuns(l, 1)

	require.NoError(t, err)
	assert.Equal(t, []seating.FreeRun{{Row: 1, Start: 1, Length: 10}}, runs)
	assert.Equal(t, 10, runs[0].End())
}

func TestFreeRuns_FullRow(t *testing.T) {
	l := newHouse(t, 1)
	fillRowExcept(t, l, 1)

	runs, err := seating.FreeRuns(l, 1)

	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestFreeRuns_MixedRow(t *testing.T) {
	l := newHouse(t, 2)
	require.NoError(t, l.Commit(seating.RowSelection(2, 3, 7)))

	runs, err := seating.FreeRuns(l, 2)

	require.NoError(t, err)
	assert.Equal(t, []seating.FreeRun{
		{Row: 2, Start: 1, Length: 2},
		{Row: 2, Start: 4, Length: 3},
		{Row: 2, Start: 8, Length: 3},
	}, runs)
	assert.Equal(t, []int{2, 3, 3}, seating.RunLengths(runs))
}

func TestFreeRuns_Idempotent(t *testing.T) {
	l := newHouse(t, 1)
	require.NoError(t, l.Commit(seating.RowSelection(1, 1, 4, 5, 9)))

	first, err := seating.FreeRuns(l, 1)
	require.NoError(t, err)
	second, err := seating.FreeRuns(l, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFreeRuns_RowOutOfRange(t *testing.T) {
	l := newHouse(t, 2)
	_, err := seating.FreeRuns(l, 3)
	assert.ErrorIs(t, err, seating.ErrRowOutOfRange)
}

func TestAllFreeRuns_LayoutOrder(t *testing.T) {
	l := newHouse(t, 3)
	fillRowExcept(t, l, 1, 9, 10)
	fillRowExcept(t, l, 2)

	runs := seating.AllFreeRuns(l)

	assert.Equal(t, []seating.FreeRun{
		{Row: 1, Start: 9, Length: 2},
		{Row: 3, Start: 1, Length: 10},
	}, runs)
}
