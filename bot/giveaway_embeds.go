package bot

import (
	"fmt"
	"strings"

	"raffler/models"
	"raffler/service"

	"github.com/bwmarrin/discordgo"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
)

// buildBidResultEmbed creates the embed confirming a placed bid
func buildBidResultEmbed(displayName string, giveaway *models.Giveaway, result *models.BidResult) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name: "Your Entry",
			Value: fmt.Sprintf("• Bid: **%s rep**\n• Total entry: **%s rep**\n• Win chance: **%s**",
				FormatReputation(result.BidAmount),
				FormatReputation(result.NewBid),
				service.FormatChance(result.Chance),
			),
			Inline: false,
		},
		{
			Name:   "Pool",
			Value:  fmt.Sprintf("**%s rep**", FormatReputation(result.PoolTotal)),
			Inline: true,
		},
		{
			Name:   "Closes",
			Value:  FormatDiscordTimestamp(giveaway.CloseTime, "R"),
			Inline: true,
		},
	}

	return &discordgo.MessageEmbed{
		Title:       "🎟️ Bid Placed",
		Description: fmt.Sprintf("**%s** now has **%s rep** left", displayName, FormatReputation(result.NewReputation)),
		Color:       ColorPrimary,
		Fields:      fields,
	}
}

// buildGiveawayInfoEmbed creates the embed for /giveaway info
func buildGiveawayInfoEmbed(giveaway *models.Giveaway, entry *models.BidResult) *discordgo.MessageEmbed {
	entryValue := "You haven't bid yet."
	if entry.NewBid > 0 {
		entryValue = fmt.Sprintf("• Total entry: **%s rep**\n• Win chance: **%s**",
			FormatReputation(entry.NewBid), service.FormatChance(entry.Chance))
	}

	return &discordgo.MessageEmbed{
		Title: "🎁 Current Giveaway",
		Description: fmt.Sprintf("Pool: **%s rep** • Closes %s",
			FormatReputation(giveaway.PoolTotal),
			FormatDiscordTimestamp(giveaway.CloseTime, "R")),
		Color: ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Your Entry",
				Value:  entryValue,
				Inline: false,
			},
			{
				Name:   "Wins This Month",
				Value:  fmt.Sprintf("%d", entry.Wins),
				Inline: true,
			},
		},
	}
}

// buildDrawResultEmbed creates the draw announcement embed
func buildDrawResultEmbed(result *models.DrawResult) *discordgo.MessageEmbed {
	if result.NoWinner {
		return &discordgo.MessageEmbed{
			Title:       "🎁 Giveaway Closed",
			Description: "No winner this time. The pool was empty.",
			Color:       ColorWarning,
		}
	}

	var lines []string
	for _, w := range result.Winners {
		name := w.Username
		if name == "" {
			name = fmt.Sprintf("<@%d>", w.DiscordID)
		}
		lines = append(lines, fmt.Sprintf("🏆 **%s** — bid **%s rep** (%s chance, win %d this month)",
			name, FormatReputation(w.Bid), service.FormatChance(w.Chance), w.Wins))
	}

	return &discordgo.MessageEmbed{
		Title:       "🎉 Giveaway Results",
		Description: strings.Join(lines, "\n"),
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Pool",
				Value:  fmt.Sprintf("**%s rep**", FormatReputation(result.PoolTotal)),
				Inline: true,
			},
			{
				Name:   "Entrants",
				Value:  fmt.Sprintf("%d", result.Entrants),
				Inline: true,
			},
		},
	}
}

// buildNewGiveawayEmbed creates the announcement for a freshly opened giveaway
func buildNewGiveawayEmbed(giveaway *models.Giveaway) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎁 New Giveaway Open",
		Description: fmt.Sprintf("Bid your rep with `/giveaway bid`. Draw happens %s.",
			FormatDiscordTimestamp(giveaway.CloseTime, "R")),
		Color: ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "More rep, better odds",
		},
	}
}
