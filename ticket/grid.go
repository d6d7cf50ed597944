package ticket

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidGrid is returned when a grid breaks one of the ticket invariants
var ErrInvalidGrid = errors.New("invalid ticket grid")

// Grid is the 3x9 ticket layout. A zero cell is empty.
type Grid [Rows][Columns]int

// Ticket is a generated ticket: the grid plus its numbers sorted ascending,
// which is the form that gets persisted.
type Ticket struct {
	Grid    Grid  `json:"grid"`
	Numbers []int `json:"flatNumbers"`
}

// Numbers returns every number on the grid, sorted ascending
func (g Grid) Numbers() []int {
	numbers := make([]int, 0, NumbersPerTicket)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if g[r][c] != 0 {
				numbers = append(numbers, g[r][c])
			}
		}
	}
	sort.Ints(numbers)
	return numbers
}

// RowCounts returns the number of filled cells in each row
func (g Grid) RowCounts() [Rows]int {
	var counts [Rows]int
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if g[r][c] != 0 {
				counts[r]++
			}
		}
	}
	return counts
}

// ColumnCounts returns the number of filled cells in each column
func (g Grid) ColumnCounts() [Columns]int {
	var counts [Columns]int
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if g[r][c] != 0 {
				counts[c]++
			}
		}
	}
	return counts
}

// Check verifies the grid against every ticket invariant and reports all
// violations at once.
func (g Grid) Check() error {
	var problems []string

	total := 0
	for r, count := range g.RowCounts() {
		total += count
		if count != NumbersPerRow {
			problems = append(problems, fmt.Sprintf("row %d has %d numbers", r+1, count))
		}
	}
	if total != NumbersPerTicket {
		problems = append(problems, fmt.Sprintf("grid has %d numbers", total))
	}

	for c, count := range g.ColumnCounts() {
		if count > MaxPerColumn {
			problems = append(problems, fmt.Sprintf("column %d has %d numbers", c+1, count))
		}
	}

	seen := make(map[int]bool, NumbersPerTicket)
	for c := 0; c < Columns; c++ {
		previous := 0
		for r := 0; r < Rows; r++ {
			n := g[r][c]
			if n == 0 {
				continue
			}
			if n < 0 || !columnRanges[c].Contains(n) {
				problems = append(problems, fmt.Sprintf("%d does not belong in column %d", n, c+1))
			}
			if seen[n] {
				problems = append(problems, fmt.Sprintf("%d appears more than once", n))
			}
			seen[n] = true
			if previous != 0 && n <= previous {
				problems = append(problems, fmt.Sprintf("column %d is not ascending", c+1))
			}
			previous = n
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidGrid, strings.Join(problems, "; "))
	}
	return nil
}

// String renders the grid as three fixed-width lines, blanks shown as "..".
func (g Grid) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if g[r][c] == 0 {
				sb.WriteString("..")
			} else {
				fmt.Fprintf(&sb, "%2d", g[r][c])
			}
		}
		if r < Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
