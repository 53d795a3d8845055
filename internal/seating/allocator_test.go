package seating_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

func TestAllocate_EmptyHouse(t *testing.T) {
	l := newHouse(t, 10)

	p, err := seating.Allocate(l, 3)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, seating.Placement{Row: 1, Start: 1, Size: 3}, *p)
	assert.Equal(t, seating.RowSelection(1, 1, 2, 3), p.Selection())
}

func TestAllocate_SkipsPlusOneRuns(t *testing.T) {
	l := newHouse(t, 3)
	fillRowExcept(t, l, 1, 1, 2, 3)

	p, err := seating.Allocate(l, 2)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Row)
	assert.Equal(t, 1, p.Start)
	assert.False(t, p.Loose)
}

func TestAllocate_PrefersExactFitInLaterRun(t *testing.T) {
	l := newHouse(t, 1)
	fillRowExcept(t, l, 1, 1, 2, 3, 6, 7)

	p, err := seating.Allocate(l, 2)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, seating.Placement{Row: 1, Start: 6, Size: 2}, *p)
}

func TestAllocate_LooseFallback(t *testing.T) {
	l := newHouse(t, 2)
	fillRowExcept(t, l, 1, 4, 5, 6)
	fillRowExcept(t, l, 2, 1, 2, 3)

	p, err := seating.Allocate(l, 2)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, seating.Placement{Row: 1, Start: 4, Size: 2, Loose: true}, *p)
}

func TestAllocate_NoCapacity(t *testing.T) {
	l := newHouse(t, 2)
	fillRowExcept(t, l, 1, 1)
	fillRowExcept(t, l, 2, 10)

	p, err := seating.Allocate(l, 2)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = seating.Allocate(newHouse(t, 1), 11)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestAllocate_InvalidPartySize(t *testing.T) {
	_, err := seating.Allocate(newHouse(t, 1), 0)
	assert.ErrorIs(t, err, seating.ErrInvalidPartySize)
}

func TestAllocate_StrictPlacementsNeverIsolate(t *testing.T) {
	l := newHouse(t, 10)
	for _, size := range []int{3, 2, 4, 2, 5, 3, 2, 4, 3, 2, 4, 2, 3, 5, 2, 2, 3, 4} {
		before := seating.CountIsolated(l)
		p, err := seating.Allocate(l, size)
		require.NoError(t, err)
		if p == nil {
			continue
		}
		require.NoError(t, l.Commit(p.Selection()))
		if !p.Loose {
			assert.Equal(t, before, seating.CountIsolated(l), "placement %+v isolated a seat", *p)
		}
	}
}
