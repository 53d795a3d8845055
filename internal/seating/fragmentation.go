package seating

import (
	"fmt"
	"sort"
)

// TrappedNeighbors returns the seat numbers that would become single free
// seats next to a proposed seat once the proposal is applied.
//
// occupied is the current occupancy of one row (index 0 is seat 1) and
// proposed lists the seat numbers about to be taken.  The check runs on the
// union of both.  For every proposed seat s, its immediate neighbour p is
// trapped when p is free and the seat beyond p is occupied or lies past the
// row edge.  Proposed seats already occupied change nothing.  Numbers outside
// 1..len(occupied) are ignored.
func TrappedNeighbors(occupied []bool, proposed []int) []int {
	width := len(occupied)
	state := append([]bool(nil), occupied...)
	for _, n := range proposed {
		if n >= 1 && n <= width {
			state[n-1] = true
		}
	}

	taken := func(i int) bool { return i < 0 || i >= width || state[i] }

	found := map[int]struct{}{}
	for _, n := range proposed {
		if n < 1 || n > width {
			continue
		}
		i := n - 1
		if left := i - 1; left >= 0 && !state[left] && taken(left-1) {
			found[left+1] = struct{}{}
		}
		if right := i + 1; right < width && !state[right] && taken(right+1) {
			found[right+1] = struct{}{}
		}
	}

	out := make([]int, 0, len(found))
	for n := range found {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// CreatesFragmentation reports whether occupying proposed in row would trap
// a single free seat beside one of the proposed seats.
func CreatesFragmentation(l *Layout, row int, proposed []int) (bool, error) {
	occ, err := l.row(row)
	if err != nil {
		return false, err
	}
	for _, n := range proposed {
		if n < 1 || n > l.width {
			return false, fmt.Errorf("%w: %d-%d", ErrSeatOutOfRange, row, n)
		}
	}
	return len(TrappedNeighbors(occ, proposed)) > 0, nil
}
