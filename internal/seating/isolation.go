package seating

// CountIsolated counts free seats whose neighbours on both sides are
// occupied.  The row edges count as occupied, so a free seat 1 next to an
// occupied seat 2 is isolated.
func CountIsolated(l *Layout) int {
	count := 0
	for _, occ := range l.rows {
		for i, taken := range occ {
			if taken {
				continue
			}
			leftTaken := i == 0 || occ[i-1]
			rightTaken := i == len(occ)-1 || occ[i+1]
			if leftTaken && rightTaken {
				count++
			}
		}
	}
	return count
}
