package ticket

import "fmt"

// Issue texts reported by Validate
const (
	IssueInvalidFormat   = "Invalid number format"
	IssueDuplicates      = "Contains duplicate numbers"
	IssueNeedsRegenerate = "Ticket needs regeneration for proper Housie format"
)

// Report is the outcome of validating a candidate ticket. ColumnCounts is
// filled even when the ticket is invalid.
type Report struct {
	Valid        bool         `json:"isValid"`
	Issues       []string     `json:"issues"`
	ColumnCounts [Columns]int `json:"columnCounts"`
}

// Validate checks an arbitrary candidate (flat list, grid-shaped list or
// encoded text) against the count, duplicate, range and column rules. Every
// check runs so the caller sees all problems together. Row placement is not
// checked: a flat list does not record it.
func Validate(candidate any) Report {
	report := Report{Issues: []string{}}

	numbers, err := Flatten(candidate)
	if err != nil {
		report.Issues = append(report.Issues, IssueInvalidFormat)
		return report
	}

	if len(numbers) != NumbersPerTicket {
		report.Issues = append(report.Issues,
			fmt.Sprintf("Has %d numbers instead of %d", len(numbers), NumbersPerTicket))
	}

	distinct := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		distinct[n] = struct{}{}
	}
	if len(distinct) != len(numbers) {
		report.Issues = append(report.Issues, IssueDuplicates)
	}

	for _, n := range numbers {
		c, ok := ColumnOf(n)
		if !ok {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Number %d is outside valid range %d-%d", n, MinNumber, MaxNumber))
			continue
		}
		report.ColumnCounts[c]++
	}

	overflow := false
	for c, count := range report.ColumnCounts {
		if count > MaxPerColumn {
			overflow = true
			report.Issues = append(report.Issues,
				fmt.Sprintf("Column %d has %d numbers (max %d allowed)", c+1, count, MaxPerColumn))
		}
	}
	if overflow {
		report.Issues = append(report.Issues, IssueNeedsRegenerate)
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// NeedsRegeneration reports whether the column layout is beyond repair
func (r Report) NeedsRegeneration() bool {
	for _, count := range r.ColumnCounts {
		if count > MaxPerColumn {
			return true
		}
	}
	return false
}
