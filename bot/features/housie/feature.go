package housie

import (
	"housie/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves the /housie command group
type Feature struct {
	ticketService service.TicketService
}

func New(ticketService service.TicketService) *Feature {
	return &Feature{
		ticketService: ticketService,
	}
}

// HandleCommand dispatches /housie subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "buy":
		f.handleBuy(s, i)
	case "tickets":
		f.handleTickets(s, i)
	case "check":
		f.handleCheck(s, i, options[0].Options)
	default:
		log.Warnf("Unknown housie subcommand: %s", options[0].Name)
	}
}
