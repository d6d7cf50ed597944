package ticket

import (
	"fmt"
	"sort"
)

// Layout places a flat list of 15 numbers onto a grid. Numbers are grouped
// by column and each one goes to the least-filled row that still has room
// and has no number in that column yet, lowest row first on ties. The
// result is deterministic for a given set of numbers.
func Layout(numbers []int) (Grid, error) {
	columns, err := groupByColumn(numbers)
	if err != nil {
		return Grid{}, err
	}

	grid, err := placeRows(columns)
	if err != nil {
		return Grid{}, err
	}
	if err := grid.Check(); err != nil {
		return Grid{}, err
	}
	return grid, nil
}

// groupByColumn buckets numbers into their columns, sorted ascending, and
// rejects anything that cannot be laid out.
func groupByColumn(numbers []int) ([Columns][]int, error) {
	var columns [Columns][]int

	if len(numbers) != NumbersPerTicket {
		return columns, fmt.Errorf("%w: need %d numbers, got %d", ErrInvalidGrid, NumbersPerTicket, len(numbers))
	}

	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		c, ok := ColumnOf(n)
		if !ok {
			return columns, fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidGrid, n, MinNumber, MaxNumber)
		}
		if seen[n] {
			return columns, fmt.Errorf("%w: %d appears more than once", ErrInvalidGrid, n)
		}
		seen[n] = true
		columns[c] = append(columns[c], n)
	}

	for c := range columns {
		if len(columns[c]) > MaxPerColumn {
			return columns, fmt.Errorf("%w: column %d has %d numbers", ErrInvalidGrid, c+1, len(columns[c]))
		}
		sort.Ints(columns[c])
	}
	return columns, nil
}

// placeRows assigns each column's numbers to rows. Row fill never differs by
// more than one between rows after a column is placed, so 15 numbers always
// end up five per row.
func placeRows(columns [Columns][]int) (Grid, error) {
	var grid Grid
	var filled [Rows]int

	for c := 0; c < Columns; c++ {
		used := make([]int, 0, MaxPerColumn)
		for _, n := range columns[c] {
			best := -1
			for r := 0; r < Rows; r++ {
				if filled[r] >= NumbersPerRow || grid[r][c] != 0 {
					continue
				}
				if best == -1 || filled[r] < filled[best] {
					best = r
				}
			}
			if best == -1 {
				return Grid{}, fmt.Errorf("%w: no free row for %d in column %d", ErrInvalidGrid, n, c+1)
			}
			grid[best][c] = n
			filled[best]++
			used = append(used, best)
		}

		// keep the column ascending from the top row down
		sort.Ints(used)
		for i, r := range used {
			grid[r][c] = columns[c][i]
		}
	}

	return grid, nil
}
