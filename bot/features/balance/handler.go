package balance

import (
	"context"
	"fmt"

	"housie/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, _, err := common.InteractionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Get or create user
	user, err := f.userService.GetOrCreateUser(ctx, discordID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error getting user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)

	message := fmt.Sprintf("%s, your current balance: **%s bits**", displayName, common.FormatBalance(user.Balance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}
