package testutil

import (
	"encoding/json"
	"time"

	"housie/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(discordID int64, username string) *models.User {
	now := time.Now()
	return &models.User{
		DiscordID: discordID,
		Username:  username,
		Balance:   100000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(discordID int64, username string, balance int64) *models.User {
	user := CreateTestUser(discordID, username)
	user.Balance = balance
	return user
}

// CreateTestBalanceHistory creates a ticket purchase history entry
func CreateTestBalanceHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   100000,
		BalanceAfter:    99000,
		ChangeAmount:    -1000,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestTicket creates an unsaved ticket whose numbers column holds raw
// exactly as given, so legacy shapes can be stored.
func CreateTestTicket(discordID int64, raw string) *models.HousieTicket {
	return &models.HousieTicket{
		DiscordID:     discordID,
		GuildID:       1,
		Numbers:       json.RawMessage(raw),
		PurchasePrice: 1000,
	}
}

// CreateTestRepairRun creates an unsaved repair run
func CreateTestRepairRun(startedAt time.Time, checked, invalid int) *models.TicketRepairRun {
	return &models.TicketRepairRun{
		StartedAt:          startedAt,
		CompletedAt:        startedAt.Add(2 * time.Second),
		TicketsChecked:     checked,
		TicketsInvalid:     invalid,
		TicketsRegenerated: invalid,
		ExecutionSummary: map[string]any{
			"batch_size": 100,
		},
	}
}
