package seating_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-seat-picker/internal/seating"
)

func TestCountIsolated(t *testing.T) {
	l := newHouse(t, 5)
	fillRowExcept(t, l, 1)
	fillRowExcept(t, l, 2, 1)
	fillRowExcept(t, l, 3, 5)
	fillRowExcept(t, l, 4, 4, 5)
	fillRowExcept(t, l, 5, 1, 5, 10)

	assert.Equal(t, 5, seating.CountIsolated(l))
}

func TestCountIsolated_EmptyHouse(t *testing.T) {
	assert.Equal(t, 0, seating.CountIsolated(newHouse(t, 3)))
}
