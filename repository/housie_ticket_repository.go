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

const housieTicketColumns = `id, discord_id, guild_id, numbers, purchase_price, balance_history_id, purchased_at, regenerated_at`

// HousieTicketRepository implements the HousieTicketRepository interface
type HousieTicketRepository struct {
	q queryable
}

// NewHousieTicketRepository creates a new housie ticket repository
func NewHousieTicketRepository(db *database.DB) *HousieTicketRepository {
	return &HousieTicketRepository{q: db.Pool}
}

// newHousieTicketRepositoryWithTx creates a new housie ticket repository with a transaction
func newHousieTicketRepositoryWithTx(tx queryable) *HousieTicketRepository {
	return &HousieTicketRepository{q: tx}
}

// Create stores a ticket. Numbers are written as given so the caller
// controls the stored shape.
func (r *HousieTicketRepository) Create(ctx context.Context, t *models.HousieTicket) error {
	if !json.Valid(t.Numbers) {
		return fmt.Errorf("ticket numbers are not valid JSON")
	}

	query := `
		INSERT INTO housie_tickets (discord_id, guild_id, numbers, purchase_price, balance_history_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		t.DiscordID,
		t.GuildID,
		[]byte(t.Numbers),
		t.PurchasePrice,
		t.BalanceHistoryID,
	).Scan(&t.ID, &t.PurchasedAt)

	if err != nil {
		return fmt.Errorf("failed to create ticket for user %d: %w", t.DiscordID, err)
	}

	return nil
}

// GetByID retrieves a ticket by ID
func (r *HousieTicketRepository) GetByID(ctx context.Context, id int64) (*models.HousieTicket, error) {
	query := `SELECT ` + housieTicketColumns + ` FROM housie_tickets WHERE id = $1`

	t, err := scanHousieTicket(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}

	return t, nil
}

// GetByUser returns a user's most recent tickets
func (r *HousieTicketRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.HousieTicket, error) {
	query := `
		SELECT ` + housieTicketColumns + `
		FROM housie_tickets
		WHERE discord_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for user %d: %w", discordID, err)
	}

	return collectHousieTickets(rows)
}

// ListAfter returns up to limit tickets with an ID greater than afterID in
// ascending ID order. Keyset paging keeps the scan stable while a repair
// run rewrites rows it has already passed.
func (r *HousieTicketRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]*models.HousieTicket, error) {
	query := `
		SELECT ` + housieTicketColumns + `
		FROM housie_tickets
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets after %d: %w", afterID, err)
	}

	return collectHousieTickets(rows)
}

// UpdateNumbers replaces a ticket's numbers and stamps regenerated_at
func (r *HousieTicketRepository) UpdateNumbers(ctx context.Context, id int64, numbers []int) error {
	encoded, err := json.Marshal(numbers)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket numbers: %w", err)
	}

	query := `
		UPDATE housie_tickets
		SET numbers = $1, regenerated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, encoded, id)
	if err != nil {
		return fmt.Errorf("failed to update numbers for ticket %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found", id)
	}

	return nil
}

// CountAll returns the number of stored tickets
func (r *HousieTicketRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM housie_tickets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

func scanHousieTicket(row pgx.Row) (*models.HousieTicket, error) {
	var t models.HousieTicket
	var numbers []byte

	err := row.Scan(
		&t.ID,
		&t.DiscordID,
		&t.GuildID,
		&numbers,
		&t.PurchasePrice,
		&t.BalanceHistoryID,
		&t.PurchasedAt,
		&t.RegeneratedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Numbers = json.RawMessage(numbers)
	return &t, nil
}

func collectHousieTickets(rows pgx.Rows) ([]*models.HousieTicket, error) {
	defer rows.Close()

	var tickets []*models.HousieTicket
	for rows.Next() {
		t, err := scanHousieTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}
