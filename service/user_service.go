package service

import (
	"context"
	"fmt"

	"housie/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, startingBalance int64) UserService {
	return &userService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

// GetOrCreateUser retrieves an existing user or creates a new one with the starting balance
func (s *userService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, created, err := getOrCreateUser(ctx, uow, discordID, username, s.startingBalance)
	if err != nil {
		return nil, err
	}

	if created {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	return user, nil
}

// getOrCreateUser runs inside the caller's unit of work so a purchase by a
// brand new user creates the wallet and debits it in one transaction.
func getOrCreateUser(ctx context.Context, uow UnitOfWork, discordID int64, username string, startingBalance int64) (*models.User, bool, error) {
	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, false, nil
	}

	// discord_id is the primary key, so a concurrent create fails here
	user, err = uow.UserRepository().Create(ctx, discordID, username, startingBalance)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   0,
		BalanceAfter:    startingBalance,
		ChangeAmount:    startingBalance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"username": username,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, false, fmt.Errorf("failed to record initial balance history: %w", err)
	}

	return user, true, nil
}
