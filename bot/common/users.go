package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the server-specific display name for a user.
// Falls back to username if nickname is not set or if there's an error.
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// InteractionIDs parses the invoking user and guild IDs. Interactions from
// DMs have no member and are rejected.
func InteractionIDs(i *discordgo.InteractionCreate) (discordID, guildID int64, err error) {
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, fmt.Errorf("interaction has no guild member")
	}

	discordID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user ID %q: %w", i.Member.User.ID, err)
	}

	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild ID %q: %w", i.GuildID, err)
	}

	return discordID, guildID, nil
}
