package models

import (
	"time"
)

// TicketRepairRun records one pass of the validate-and-regenerate workflow
// over stored tickets.
type TicketRepairRun struct {
	ID                 int64          `db:"id"`
	StartedAt          time.Time      `db:"started_at"`
	CompletedAt        time.Time      `db:"completed_at"`
	TicketsChecked     int            `db:"tickets_checked"`
	TicketsInvalid     int            `db:"tickets_invalid"`
	TicketsRegenerated int            `db:"tickets_regenerated"`
	DryRun             bool           `db:"dry_run"`
	ExecutionSummary   map[string]any `db:"execution_summary"`
	CreatedAt          time.Time      `db:"created_at"`
}

// Duration returns how long the run took
func (r *TicketRepairRun) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
