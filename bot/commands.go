package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	minID := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "housie",
			Description: "Buy and inspect Housie tickets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy a new Housie ticket",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "tickets",
					Description: "Show your most recent tickets",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "check",
					Description: "Validate a ticket by ID",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Ticket ID to check",
							Required:    true,
							MinValue:    &minID,
						},
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
		log.Debugf("Registered command /%s", cmd.Name)
	}
	return nil
}
