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

// handleGiveawayCommand dispatches /giveaway subcommands
func (b *Bot) handleGiveawayCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Invalid command.")
		return
	}

	switch options[0].Name {
	case "bid":
		b.handleGiveawayBid(s, i, options[0].Options)
	case "info":
		b.handleGiveawayInfo(s, i)
	case "alerts":
		b.handleGiveawayAlerts(s, i, options[0].Options)
	}
}

func (b *Bot) handleGiveawayBid(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var amount int64
	for _, opt := range options {
		if opt.Name == "amount" {
			amount = opt.IntValue()
		}
	}

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Printf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	giveaway, err := b.giveawayService.GetOrCreateCurrentGiveaway(ctx)
	if err != nil {
		log.Printf("Error getting current giveaway: %v", err)
		b.respondWithError(s, i, "Unable to find the current giveaway. Please try again.")
		return
	}

	// Bidding never creates the user: reputation is earned, not granted here
	result, err := b.giveawayService.PlaceBid(ctx, giveaway.ID, discordID, amount)
	if err != nil {
		b.respondWithBidError(s, i, err)
		return
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	b.respondWithEmbed(s, i, buildBidResultEmbed(displayName, giveaway, result))
}

// respondWithBidError maps domain errors to user-facing messages
func (b *Bot) respondWithBidError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var invalidErr *models.InvalidAmountError
	var noBalErr *models.NoBalanceError
	var fundsErr *models.InsufficientFundsError
	var winsErr *models.TooManyWinsError
	var closedErr *models.GiveawayClosedError

	switch {
	case errors.As(err, &invalidErr):
		b.respondWithError(s, i, fmt.Sprintf("Bid must be between **%d** and **%s** rep.",
			invalidErr.Min, FormatReputation(invalidErr.Max)))
	case errors.As(err, &noBalErr):
		b.respondWithError(s, i, "You don't have any rep yet.")
	case errors.As(err, &fundsErr):
		b.respondWithError(s, i, fmt.Sprintf("You only have **%s rep**, can't bid **%s**.",
			FormatReputation(fundsErr.Balance), FormatReputation(fundsErr.Requested)))
	case errors.As(err, &winsErr):
		nextWindow := winsErr.WindowStart.AddDate(0, 1, 0)
		b.respondWithError(s, i, fmt.Sprintf("You've already won **%d** giveaways this month. Try again %s.",
			winsErr.Wins, FormatDiscordTimestamp(nextWindow, "R")))
	case errors.As(err, &closedErr):
		b.respondWithError(s, i, "That giveaway just closed. A new one opens shortly.")
	default:
		log.Printf("Error placing bid: %v", err)
		b.respondWithError(s, i, "Unable to place bid. Please try again.")
	}
}

func (b *Bot) handleGiveawayInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Printf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	giveaway, err := b.giveawayService.GetOrCreateCurrentGiveaway(ctx)
	if err != nil {
		log.Printf("Error getting current giveaway: %v", err)
		b.respondWithError(s, i, "Unable to find the current giveaway. Please try again.")
		return
	}

	entry, err := b.giveawayService.GetEntry(ctx, giveaway.ID, discordID)
	if err != nil {
		log.Printf("Error getting entry for %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to look up your entry. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, buildGiveawayInfoEmbed(giveaway, entry))
}

func (b *Bot) handleGiveawayAlerts(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var enabled bool
	for _, opt := range options {
		if opt.Name == "enabled" {
			enabled = opt.BoolValue()
		}
	}

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Printf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Subscriptions live on the user row, so make sure it exists
	if _, err := b.userService.GetOrCreateUser(ctx, discordID, i.Member.User.Username); err != nil {
		log.Printf("Error getting/creating user %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := b.userService.SetAlertSubscription(ctx, discordID, enabled); err != nil {
		log.Printf("Error setting alert subscription for %d: %v", discordID, err)
		b.respondWithError(s, i, "Unable to update alert settings. Please try again.")
		return
	}

	message := "🔔 You'll be pinged when a new giveaway opens."
	if !enabled {
		message = "🔕 You won't be pinged about giveaways anymore."
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to alerts command: %v", err)
	}
}
