package models

import (
	"encoding/json"
	"time"
)

// HousieTicket is a purchased ticket as stored. Numbers holds the persisted
// JSON verbatim: a sorted array of 15 integers for tickets written by the
// current generator, possibly something else for legacy rows.
type HousieTicket struct {
	ID               int64           `db:"id"`
	DiscordID        int64           `db:"discord_id"`
	GuildID          int64           `db:"guild_id"`
	Numbers          json.RawMessage `db:"numbers"`
	PurchasePrice    int64           `db:"purchase_price"`
	BalanceHistoryID *int64          `db:"balance_history_id"`
	PurchasedAt      time.Time       `db:"purchased_at"`
	RegeneratedAt    *time.Time      `db:"regenerated_at"`
}

// WasRegenerated reports whether the numbers were replaced after purchase
func (t *HousieTicket) WasRegenerated() bool {
	return t.RegeneratedAt != nil
}
