package models

import (
	"time"
)

// User is a player wallet keyed by Discord ID
type User struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford reports whether the wallet covers amount
func (u *User) CanAfford(amount int64) bool {
	return u.Balance >= amount
}
