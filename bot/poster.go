package bot

import (
	"context"
	"fmt"
	"strings"

	"raffler/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// PostDrawResult announces the outcome of a closed giveaway in the giveaway channel
func (b *Bot) PostDrawResult(ctx context.Context, giveaway *models.Giveaway, result *models.DrawResult) error {
	if b.config.GiveawayChannelID == "" {
		log.Warn("No giveaway channel configured, skipping draw announcement")
		return nil
	}

	var mentions []string
	for _, w := range result.Winners {
		if w.Username == "" {
			w.Username = GetDisplayNameInt64(b.session, b.config.GuildID, w.DiscordID)
		}
		mentions = append(mentions, fmt.Sprintf("<@%d>", w.DiscordID))
	}

	_, err := b.session.ChannelMessageSendComplex(b.config.GiveawayChannelID, &discordgo.MessageSend{
		Content: strings.Join(mentions, " "),
		Embeds:  []*discordgo.MessageEmbed{buildDrawResultEmbed(result)},
	})
	if err != nil {
		return fmt.Errorf("failed to post draw result: %w", err)
	}
	return nil
}

// PostNewGiveaway announces a freshly opened giveaway, pinging alert subscribers
func (b *Bot) PostNewGiveaway(ctx context.Context, giveaway *models.Giveaway) error {
	if b.config.GiveawayChannelID == "" {
		log.Warn("No giveaway channel configured, skipping giveaway announcement")
		return nil
	}

	var content string
	subscribers, err := b.userService.GetAlertSubscribers(ctx)
	if err != nil {
		log.Errorf("Failed to load alert subscribers: %v", err)
	} else {
		var mentions []string
		for _, u := range subscribers {
			mentions = append(mentions, fmt.Sprintf("<@%d>", u.DiscordID))
		}
		content = strings.Join(mentions, " ")
	}

	_, err = b.session.ChannelMessageSendComplex(b.config.GiveawayChannelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{buildNewGiveawayEmbed(giveaway)},
	})
	if err != nil {
		return fmt.Errorf("failed to post giveaway announcement: %w", err)
	}
	return nil
}
