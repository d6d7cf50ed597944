package ticket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	grid := Grid{
		{1, 0, 23, 0, 41, 52, 0, 71, 0},
		{5, 0, 27, 0, 45, 0, 63, 0, 84},
		{0, 12, 0, 34, 48, 0, 66, 0, 90},
	}

	tests := []struct {
		name      string
		candidate any
		expected  []int
	}{
		{"int slice", []int{3, 1, 2}, []int{3, 1, 2}},
		{"int64 slice", []int64{10, 20}, []int{10, 20}},
		{"int32 slice", []int32{7, 8}, []int{7, 8}},
		{"float slice", []float64{1, 2.0, 2.5}, []int{1, 2}},
		{"string slice", []string{"4", " 5 ", "six"}, []int{4, 5}},
		{"mixed", []any{1, "x", nil, -4, 2.5, "7", json.Number("8"), true}, []int{1, 7, 8}},
		{"nested", [][]int{{1, 0, 23}, {5, 0, 0}}, []int{1, 23, 5}},
		{"grid", grid, []int{1, 23, 41, 52, 71, 5, 27, 45, 63, 84, 12, 34, 48, 66, 90}},
		{"grid pointer", &grid, []int{1, 23, 41, 52, 71, 5, 27, 45, 63, 84, 12, 34, 48, 66, 90}},
		{"array", [3][2]int{{1, 2}, {0, 3}, {4, 0}}, []int{1, 2, 3, 4}},
		{"json", "[1, 2, 3]", []int{1, 2, 3}},
		{"json nested", json.RawMessage(`[[1,null,23],[0,"12"]]`), []int{1, 23, 12}},
		{"json bytes", []byte(`[4,5]`), []int{4, 5}},
		{"double encoded", `"[1,2]"`, []int{1, 2}},
		{"postgres array", "{1,2,3}", []int{1, 2, 3}},
		{"postgres nested", "{{1,NULL},{3,4}}", []int{1, 3, 4}},
		{"separated", "1, 2 3;4", []int{1, 2, 3, 4}},
		{"empty list", []int{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			numbers, err := Flatten(tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, numbers)
		})
	}
}

func TestFlatten_Malformed(t *testing.T) {
	for _, candidate := range []any{nil, 3.5, "abc", "[oops", `{"a":1}`, struct{}{}} {
		_, err := Flatten(candidate)
		assert.ErrorIs(t, err, ErrMalformed, "candidate %#v", candidate)
	}
}

func TestFlatten_HugeValuesStayOutOfRange(t *testing.T) {
	numbers, err := Flatten([]any{int64(1) << 40, "99999999999", 1e12})
	require.NoError(t, err)

	for _, n := range numbers {
		assert.Greater(t, n, MaxNumber)
	}
	assert.Len(t, numbers, 3)
}
