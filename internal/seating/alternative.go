package seating

// GoodFit reports whether a free run of the given length can seat a party of
// n without stranding a single seat: an exact fit, or at least two seats
// left over.  A run of n+1 is never a good fit.
func GoodFit(length, n int) bool {
	return length == n || length >= n+2
}

// FindAlternative returns the first free run in the layout that is a good
// fit for a party of n.  Rows are scanned 1..RowCount, runs in seat order.
// The row a proposal was made in is not excluded.
func FindAlternative(l *Layout, n int) (FreeRun, bool) {
	if n < 1 {
		return FreeRun{}, false
	}
	for i, occ := range l.rows {
		for _, run := range runsOf(i+1, occ) {
			if GoodFit(run.Length, n) {
				return run, true
			}
		}
	}
	return FreeRun{}, false
}

// HasAlternative reports whether FindAlternative finds anything.
func HasAlternative(l *Layout, n int) bool {
	_, ok := FindAlternative(l, n)
	return ok
}
