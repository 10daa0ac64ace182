package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"raffler/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleRepCommand dispatches /rep subcommands
func (b *Bot) handleRepCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command.")
		return
	}

	switch options[0].Name {
	case "check":
		b.handleRepCheck(s, i, options[0].Options)
	case "adjust":
		b.handleRepAdjust(s, i, options[0].Options)
	}
}

func (b *Bot) handleRepCheck(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	// Default to the invoker
	targetUser := i.Member.User
	for _, opt := range options {
		if opt.Name == "user" {
			targetUser = opt.UserValue(s)
		}
	}

	discordID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Printf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user, err := b.userService.GetOrCreateUser(ctx, discordID, targetUser.Username)
	if err != nil {
		log.Printf("Error getting user %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to retrieve reputation. Please try again.")
		return
	}

	displayName := GetDisplayName(s, i.GuildID, targetUser.ID)
	message := fmt.Sprintf("**%s** has **%s rep**", displayName, FormatReputation(user.Reputation))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Printf("Error responding to rep check command: %v", err)
	}
}

func (b *Bot) handleRepAdjust(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !b.isAdmin(i) {
		b.respondWithError(s, i, "Only admins can adjust reputation.")
		return
	}

	var amount int64
	var targetUser *discordgo.User
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			targetUser = opt.UserValue(s)
		}
	}

	if targetUser == nil {
		b.respondWithError(s, i, "Invalid target user.")
		return
	}
	if amount == 0 {
		b.respondWithError(s, i, "Amount must be non-zero.")
		return
	}

	discordID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Printf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	adminID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Printf("Error parsing admin Discord ID %s: %v", i.Member.User.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Make sure the target exists so removals against fresh users fail cleanly
	if _, err := b.userService.GetOrCreateUser(ctx, discordID, targetUser.Username); err != nil {
		log.Printf("Error getting/creating user %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	newBalance, err := b.userService.AdjustReputation(ctx, discordID, amount, adminID)
	if err != nil {
		var fundsErr *models.InsufficientFundsError
		if errors.As(err, &fundsErr) {
			b.respondWithError(s, i, fmt.Sprintf("They only have **%s rep**, can't remove **%s**.",
				FormatReputation(fundsErr.Balance), FormatReputation(fundsErr.Requested)))
			return
		}
		log.Printf("Error adjusting reputation for %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to adjust reputation. Please try again.")
		return
	}

	displayName := GetDisplayName(s, i.GuildID, targetUser.ID)
	verb := "Added"
	shown := amount
	if amount < 0 {
		verb = "Removed"
		shown = -amount
	}
	message := fmt.Sprintf("✅ %s **%s rep** for **%s**. New total: **%s rep**",
		verb, FormatReputation(shown), displayName, FormatReputation(newBalance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Printf("Error responding to rep adjust command: %v", err)
	}
}
