package ticket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var validNumbers = []int{1, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84, 90}

func TestValidate_ValidTicket(t *testing.T) {
	report := Validate(validNumbers)

	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
	assert.NotNil(t, report.Issues)
	assert.Equal(t, [Columns]int{2, 1, 2, 1, 3, 1, 2, 1, 2}, report.ColumnCounts)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		candidate any
		expected  []string
	}{
		{
			name:      "fourteen numbers",
			candidate: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
			expected:  []string{"Has 14 numbers instead of 15"},
		},
		{
			name:      "duplicate five",
			candidate: []int{1, 5, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84},
			expected:  []string{"Contains duplicate numbers"},
		},
		{
			name:      "ninety five",
			candidate: []int{1, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84, 95},
			expected:  []string{"Number 95 is outside valid range 1-90"},
		},
		{
			name:      "four numbers in column one",
			candidate: []int{1, 2, 3, 4, 12, 23, 27, 34, 41, 45, 52, 63, 66, 71, 84},
			expected: []string{
				"Column 1 has 4 numbers (max 3 allowed)",
				"Ticket needs regeneration for proper Housie format",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(tt.candidate)

			assert.False(t, report.Valid)
			for _, issue := range tt.expected {
				assert.Contains(t, report.Issues, issue)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	report := Validate([]int{1, 1, 2, 3, 95, 120})

	assert.False(t, report.Valid)
	assert.Equal(t, []string{
		"Has 6 numbers instead of 15",
		"Contains duplicate numbers",
		"Number 95 is outside valid range 1-90",
		"Number 120 is outside valid range 1-90",
		"Column 1 has 4 numbers (max 3 allowed)",
		"Ticket needs regeneration for proper Housie format",
	}, report.Issues)
	assert.True(t, report.NeedsRegeneration())
}

func TestValidate_MalformedInput(t *testing.T) {
	candidates := map[string]any{
		"nil":             nil,
		"bool":            true,
		"map":             map[string]int{"a": 1},
		"words":           "not a ticket",
		"broken json":     "[1, 2,",
		"empty string":    "",
		"json object":     `{"numbers": 5}`,
		"nil slice":       []int(nil),
		"plain int":       42,
		"raw json object": json.RawMessage(`{"a":1}`),
	}

	for name, candidate := range candidates {
		t.Run(name, func(t *testing.T) {
			report := Validate(candidate)

			assert.False(t, report.Valid)
			assert.Equal(t, []string{IssueInvalidFormat}, report.Issues)
			assert.Equal(t, [Columns]int{}, report.ColumnCounts)
		})
	}
}

func TestValidate_FillerEntriesAreIgnored(t *testing.T) {
	// grid-shaped legacy data with zero and null blanks
	raw := json.RawMessage(`[
		[1, 0, 23, 0, 41, 52, 0, 71, 0],
		[5, null, 27, 0, 45, 0, 63, 0, 84],
		[0, 12, "", 34, 48, -1, 66, 0, 90]
	]`)

	report := Validate(raw)

	assert.True(t, report.Valid, "%v", report.Issues)
	assert.Equal(t, [Columns]int{2, 1, 2, 1, 3, 1, 2, 1, 2}, report.ColumnCounts)
}

func TestValidate_ColumnCountsMatchValidEntries(t *testing.T) {
	candidates := []any{
		validNumbers,
		[]int{1, 2, 3, 4, 12, 23, 27, 34, 41, 45, 52, 63, 66, 71, 84},
		[]int{1, 5, 12, 23, 27, 34, 41, 45, 48, 52, 63, 66, 71, 84, 95},
		[]any{0, -3, "x", 7, 7, 91, 89, nil, 2.5},
		"{10,20,30,40,500}",
		[][]int{{1, 0, 2}, {3, 99, 4}},
	}

	for _, candidate := range candidates {
		report := Validate(candidate)
		numbers, err := Flatten(candidate)
		assert.NoError(t, err)

		valid := 0
		for _, n := range numbers {
			if n >= MinNumber && n <= MaxNumber {
				valid++
			}
		}

		sum := 0
		for _, count := range report.ColumnCounts {
			sum += count
		}
		assert.Equal(t, valid, sum, "candidate %v", candidate)
	}
}
