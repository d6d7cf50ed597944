// Package ticket builds and checks Housie (Tambola) tickets: a 3x9 grid
// holding 15 distinct numbers from 1-90, five per row, at most three per
// column, each column covering a fixed numeric range.
package ticket

const (
	Rows             = 3
	Columns          = 9
	NumbersPerTicket = 15
	NumbersPerRow    = 5
	MaxPerColumn     = 3
	MinNumber        = 1
	MaxNumber        = 90
)

// ColumnRange is the inclusive span of numbers a column may hold
type ColumnRange struct {
	Min int
	Max int
}

// Contains reports whether n falls inside the range
func (r ColumnRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Size returns how many numbers the range spans
func (r ColumnRange) Size() int {
	return r.Max - r.Min + 1
}

var columnRanges = [Columns]ColumnRange{
	{1, 9},
	{10, 19},
	{20, 29},
	{30, 39},
	{40, 49},
	{50, 59},
	{60, 69},
	{70, 79},
	{80, 90},
}

// ColumnRanges returns a copy of the column range table
func ColumnRanges() [Columns]ColumnRange {
	return columnRanges
}

// ColumnOf returns the zero-based column a number belongs to.
// The second return value is false when n is outside 1-90.
func ColumnOf(n int) (int, bool) {
	if n < MinNumber || n > MaxNumber {
		return 0, false
	}
	if n == MaxNumber {
		return Columns - 1, true
	}
	return n / 10, true
}
