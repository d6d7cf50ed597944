package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"housie/database"
	"housie/models"

	"github.com/jackc/pgx/v5"
)

// TicketRepairRunRepository implements the TicketRepairRunRepository interface
type TicketRepairRunRepository struct {
	q queryable
}

// NewTicketRepairRunRepository creates a new repair run repository
func NewTicketRepairRunRepository(db *database.DB) *TicketRepairRunRepository {
	return &TicketRepairRunRepository{q: db.Pool}
}

func newTicketRepairRunRepositoryWithTx(tx queryable) *TicketRepairRunRepository {
	return &TicketRepairRunRepository{q: tx}
}

// Create records a finished repair run
func (r *TicketRepairRunRepository) Create(ctx context.Context, run *models.TicketRepairRun) error {
	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO ticket_repair_runs
		(started_at, completed_at, tickets_checked, tickets_invalid, tickets_regenerated, dry_run, execution_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		run.StartedAt,
		run.CompletedAt,
		run.TicketsChecked,
		run.TicketsInvalid,
		run.TicketsRegenerated,
		run.DryRun,
		summaryJSON,
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ticket repair run: %w", err)
	}

	return nil
}

// GetLatest returns the most recently started run
func (r *TicketRepairRunRepository) GetLatest(ctx context.Context) (*models.TicketRepairRun, error) {
	query := `
		SELECT id, started_at, completed_at, tickets_checked, tickets_invalid,
		       tickets_regenerated, dry_run, execution_summary, created_at
		FROM ticket_repair_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`

	var run models.TicketRepairRun
	var summaryJSON []byte

	err := r.q.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.StartedAt,
		&run.CompletedAt,
		&run.TicketsChecked,
		&run.TicketsInvalid,
		&run.TicketsRegenerated,
		&run.DryRun,
		&summaryJSON,
		&run.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ticket repair run: %w", err)
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}

	return &run, nil
}
