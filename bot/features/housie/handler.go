package housie

import (
	"context"
	"errors"
	"fmt"

	"housie/bot/common"
	"housie/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, guildID, err := common.InteractionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.ticketService.PurchaseTicket(ctx, discordID, guildID, i.Member.User.Username)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			common.RespondWithError(s, i, "You don't have enough bits to buy a ticket.")
			return
		}
		log.WithFields(log.Fields{
			"discordID": discordID,
			"guildID":   guildID,
		}).Errorf("Error purchasing housie ticket: %v", err)
		common.RespondWithError(s, i, "Unable to buy a ticket. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := buildPurchaseEmbed(displayName, result)
	if err := common.RespondWithEmbeds(s, i, []*discordgo.MessageEmbed{embed}, false); err != nil {
		log.Errorf("Error responding to housie buy: %v", err)
	}
}

func (f *Feature) handleTickets(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, _, err := common.InteractionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Loading and laying out several tickets can exceed the 3s window
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring housie tickets response: %v", err)
		return
	}

	views, err := f.ticketService.GetUserTickets(ctx, discordID, service.MaxTicketsPerListing)
	if err != nil {
		log.Errorf("Error listing tickets for user %d: %v", discordID, err)
		common.FollowUpWithError(s, i, "Unable to load your tickets. Please try again.")
		return
	}

	if err := common.FollowUpWithEmbeds(s, i, buildTicketListEmbeds(views), true); err != nil {
		log.Errorf("Error sending housie tickets: %v", err)
	}
}

func (f *Feature) handleCheck(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var ticketID int64
	for _, opt := range options {
		if opt.Name == "id" {
			ticketID = opt.IntValue()
		}
	}
	if ticketID <= 0 {
		common.RespondWithError(s, i, "Please provide a valid ticket ID.")
		return
	}

	view, err := f.ticketService.CheckTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			common.RespondWithError(s, i, fmt.Sprintf("Ticket #%d does not exist.", ticketID))
			return
		}
		log.Errorf("Error checking ticket %d: %v", ticketID, err)
		common.RespondWithError(s, i, "Unable to check that ticket. Please try again.")
		return
	}

	if err := common.RespondWithEmbeds(s, i, []*discordgo.MessageEmbed{buildCheckEmbed(view)}, true); err != nil {
		log.Errorf("Error responding to housie check: %v", err)
	}
}
