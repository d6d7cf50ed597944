package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_PlacesLeastFilledRowFirst(t *testing.T) {
	numbers := []int{84, 1, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 90}

	grid, err := Layout(numbers)
	require.NoError(t, err)

	expected := Grid{
		{1, 0, 23, 0, 41, 52, 0, 71, 0},
		{5, 0, 27, 0, 45, 0, 63, 0, 84},
		{0, 12, 0, 34, 48, 0, 66, 0, 90},
	}
	assert.Equal(t, expected, grid)
}

func TestLayout_KeepsColumnsAscending(t *testing.T) {
	// 15 lands in row 0 after 12 took row 2, so the column gets re-sorted
	numbers := []int{1, 5, 12, 15, 23, 34, 37, 41, 52, 56, 63, 71, 75, 84, 88}

	grid, err := Layout(numbers)
	require.NoError(t, err)

	assert.Equal(t, 12, grid[0][1])
	assert.Equal(t, 0, grid[1][1])
	assert.Equal(t, 15, grid[2][1])
	assert.NoError(t, grid.Check())
}

func TestLayout_Deterministic(t *testing.T) {
	g := NewGenerator(NewSeededRandom(99))

	for i := 0; i < 200; i++ {
		numbers := g.Generate().Numbers

		first, err := Layout(numbers)
		require.NoError(t, err)
		second, err := Layout(numbers)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, [Rows]int{5, 5, 5}, first.RowCounts())
	}
}

func TestLayout_RejectsUnplaceableInput(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
	}{
		{"too few", []int{1, 12, 23}},
		{"column overflow", []int{1, 2, 3, 4, 12, 23, 27, 34, 41, 45, 52, 63, 66, 71, 84}},
		{"duplicate", []int{1, 1, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84, 90}},
		{"out of range", []int{1, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84, 95}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Layout(tt.numbers)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}
}
