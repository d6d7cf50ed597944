package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleGrid = Grid{
	{1, 0, 23, 0, 41, 52, 0, 71, 0},
	{5, 0, 27, 0, 45, 0, 63, 0, 84},
	{0, 12, 0, 34, 48, 0, 66, 0, 90},
}

func TestGrid_Check(t *testing.T) {
	assert.NoError(t, sampleGrid.Check())

	tests := []struct {
		name    string
		mutate  func(g *Grid)
		message string
	}{
		{
			name:    "row short a number",
			mutate:  func(g *Grid) { g[0][0] = 0 },
			message: "row 1 has 4 numbers",
		},
		{
			name:    "number in the wrong column",
			mutate:  func(g *Grid) { g[0][2] = 33 },
			message: "33 does not belong in column 3",
		},
		{
			name:    "column out of order",
			mutate:  func(g *Grid) { g[0][0], g[1][0] = 5, 1 },
			message: "column 1 is not ascending",
		},
		{
			name:    "duplicate number",
			mutate:  func(g *Grid) { g[1][2] = 23 },
			message: "23 appears more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGrid
			tt.mutate(&g)

			err := g.Check()
			assert.ErrorIs(t, err, ErrInvalidGrid)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestGrid_Counts(t *testing.T) {
	assert.Equal(t, [Rows]int{5, 5, 5}, sampleGrid.RowCounts())
	assert.Equal(t, [Columns]int{2, 1, 2, 1, 3, 1, 2, 1, 2}, sampleGrid.ColumnCounts())
	assert.Equal(t, []int{1, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84, 90}, sampleGrid.Numbers())
}

func TestGrid_String(t *testing.T) {
	expected := " 1 .. 23 .. 41 52 .. 71 ..\n" +
		" 5 .. 27 .. 45 .. 63 .. 84\n" +
		".. 12 .. 34 48 .. 66 .. 90"

	assert.Equal(t, expected, sampleGrid.String())
}

func TestColumnOf(t *testing.T) {
	tests := map[int]int{1: 0, 9: 0, 10: 1, 19: 1, 45: 4, 79: 7, 80: 8, 89: 8, 90: 8}
	for n, expected := range tests {
		c, ok := ColumnOf(n)
		assert.True(t, ok)
		assert.Equal(t, expected, c, "number %d", n)
		assert.True(t, ColumnRanges()[c].Contains(n))
	}

	for _, n := range []int{0, -1, 91, 1000} {
		_, ok := ColumnOf(n)
		assert.False(t, ok, "number %d", n)
	}
}
