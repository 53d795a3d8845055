package seating

// FreeRun is a maximal span of contiguous free seats within one row.
type FreeRun struct {
	Row    int
	Start  int
	Length int
}

// End returns the seat number of the last seat of the run.
func (r FreeRun) End() int { return r.Start + r.Length - 1 }

// FreeRuns returns the free runs of one row in seat-number order.  A full
// row yields an empty slice.
func FreeRuns(l *Layout, row int) ([]FreeRun, error) {
	occ, err := l.row(row)
	if err != nil {
		return nil, err
	}
	return runsOf(row, occ), nil
}

// AllFreeRuns returns the free runs of every row, rows in layout order.
func AllFreeRuns(l *Layout) []FreeRun {
	var out []FreeRun
	for i, occ := range l.rows {
		out = append(out, runsOf(i+1, occ)...)
	}
	return out
}

// RunLengths projects runs onto their lengths.
func RunLengths(runs []FreeRun) []int {
	out := make([]int, len(runs))
	for i, r := range runs {
		out[i] = r.Length
	}
	return out
}

func runsOf(row int, occ []bool) []FreeRun {
	runs := []FreeRun{}
	start, length := 0, 0
	for i, taken := range occ {
		if !taken {
			if length == 0 {
				start = i + 1
			}
			length++
			continue
		}
		if length > 0 {
			runs = append(runs, FreeRun{Row: row, Start: start, Length: length})
			length = 0
		}
	}
	if length > 0 {
		runs = append(runs, FreeRun{Row: row, Start: start, Length: length})
	}
	return runs
}
