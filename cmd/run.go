package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"raffler/bot"
	"raffler/config"
	"raffler/database"
	"raffler/events"
	"raffler/repository"
	"raffler/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting raffler bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	log.Println("Event bus initialized successfully")

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	log.Println("Unit of work factory initialized successfully")

	// Initialize services
	log.Println("Initializing services...")
	userService := service.NewUserService(uowFactory, cfg)
	giveawayService := service.NewGiveawayService(uowFactory, cfg)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.DiscordGuildID,
		GiveawayChannelID: cfg.GiveawayChannelID,
		AdminRoleID:       cfg.AdminRoleID,
	}
	discordBot, err := bot.New(botConfig, userService, giveawayService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the close worker; the bot announces draws and new giveaways
	log.Println("Starting giveaway close worker...")
	closeWorker := service.NewCloseWorker(uowFactory, giveawayService, discordBot)
	stopWorker := closeWorker.Start(ctx)
	log.Println("Giveaway close worker started successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	stopWorker()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
