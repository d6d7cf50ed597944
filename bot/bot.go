package bot

import (
	"fmt"

	"housie/bot/features/balance"
	"housie/bot/features/housie"
	"housie/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // empty registers commands globally
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	commands []*discordgo.ApplicationCommand

	balanceFeature *balance.Feature
	housieFeature  *housie.Feature
}

func New(config Config, userService service.UserService, ticketService service.TicketService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:         config,
		session:        dg,
		balanceFeature: balance.New(userService),
		housieFeature:  housie.New(ticketService),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("guildID", config.GuildID).Info("Discord bot connected")
	return bot, nil
}

// Close removes guild-scoped commands and closes the session
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.commands {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.Warnf("Failed to delete command %s: %v", cmd.Name, err)
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	case "housie":
		b.housieFeature.HandleCommand(s, i)
	}
}
