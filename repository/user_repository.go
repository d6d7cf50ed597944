package repository

import (
	"context"
	"errors"
	"fmt"

	"housie/database"
	"housie/models"
	"housie/service"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT discord_id, username, balance, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// Create creates a new user with the initial balance
func (r *UserRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, error) {
	query := `
		INSERT INTO users (discord_id, username, balance)
		VALUES ($1, $2, $3)
		RETURNING discord_id, username, balance, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID, username, initialBalance).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user with discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// DeductBalance deducts from a user's balance atomically, failing if insufficient funds
func (r *UserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance - $1
		WHERE discord_id = $2 AND balance >= $1
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the user is missing or the balance is too low
		user, err := r.GetByDiscordID(ctx, discordID)
		if err != nil {
			return 0, fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return 0, fmt.Errorf("user with discord ID %d not found", discordID)
		}
		return 0, fmt.Errorf("%w: have %d, need %d", service.ErrInsufficientBalance, user.Balance, amount)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", discordID, err)
	}

	return newBalance, nil
}
