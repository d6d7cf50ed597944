package housie

import (
	"fmt"
	"strings"

	"housie/bot/common"
	"housie/service"

	"github.com/bwmarrin/discordgo"
)

const substitutedNotice = "Stored numbers could not be laid out; showing a freshly generated grid"

func buildPurchaseEmbed(displayName string, result *service.TicketPurchaseResult) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Cost",
			Value:  fmt.Sprintf("%s bits", common.FormatBalance(result.Cost)),
			Inline: true,
		},
		{
			Name:   "Balance",
			Value:  fmt.Sprintf("%s bits", common.FormatBalance(result.NewBalance)),
			Inline: true,
		},
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎟️ Housie Ticket #%d", result.Ticket.ID),
		Description: fmt.Sprintf("%s bought a ticket!\n%s", displayName, common.FormatGrid(result.Grid)),
		Color:       common.ColorSuccess,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: formatNumbers(result.Numbers),
		},
	}
}

func buildTicketEmbed(view *service.TicketView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎟️ Ticket #%d", view.Ticket.ID),
		Description: fmt.Sprintf("Bought %s\n%s",
			common.FormatDiscordTimestamp(view.Ticket.PurchasedAt, "R"), common.FormatGrid(view.Grid)),
		Color: common.ColorPrimary,
	}

	if view.Substituted {
		embed.Color = common.ColorWarning
		embed.Footer = &discordgo.MessageEmbedFooter{Text: substitutedNotice}
	} else if view.Ticket.WasRegenerated() {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Regenerated " + view.Ticket.RegeneratedAt.Format("2006-01-02")}
	}

	return embed
}

func buildTicketListEmbeds(views []*service.TicketView) []*discordgo.MessageEmbed {
	if len(views) == 0 {
		return []*discordgo.MessageEmbed{{
			Title:       "🎟️ Your Housie Tickets",
			Description: "You don't have any tickets yet. Use `/housie buy` to get one.",
			Color:       common.ColorInfo,
		}}
	}

	// Discord allows at most 10 embeds per message
	if len(views) > service.MaxTicketsPerListing {
		views = views[:service.MaxTicketsPerListing]
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(views))
	for _, v := range views {
		embeds = append(embeds, buildTicketEmbed(v))
	}
	return embeds
}

func buildCheckEmbed(view *service.TicketView) *discordgo.MessageEmbed {
	embed := buildTicketEmbed(view)
	embed.Title = fmt.Sprintf("🔍 Ticket #%d Check", view.Ticket.ID)

	counts := make([]string, len(view.Report.ColumnCounts))
	for c, n := range view.Report.ColumnCounts {
		counts[c] = fmt.Sprintf("%d", n)
	}

	status := "✅ Valid"
	if !view.Report.Valid {
		status = "❌ Invalid"
		embed.Color = common.ColorError
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Status", Value: status, Inline: true},
		{Name: "Column counts", Value: strings.Join(counts, " "), Inline: true},
	}
	if len(view.Report.Issues) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Issues",
			Value: "• " + strings.Join(view.Report.Issues, "\n• "),
		})
	}

	return embed
}

func formatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
