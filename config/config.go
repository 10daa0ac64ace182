package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken      string
	DiscordGuildID    string
	GiveawayChannelID string
	AdminRoleID       string

	// Database configuration
	DatabaseURL string

	// Giveaway configuration
	MinBidAmount  int64 // Smallest accepted bid
	MaxBidAmount  int64 // Largest accepted bid
	MonthlyWinCap int   // Wins allowed per user per calendar month
	WinnerCount   int   // Winners drawn per giveaway
	CloseHourUTC  int   // Hour in UTC when the daily giveaway closes (0-23)
	StartingRep   int64 // Reputation granted when a user record is first created

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:    os.Getenv("DISCORD_GUILD_ID"),
		GiveawayChannelID: os.Getenv("GIVEAWAY_CHANNEL_ID"),
		AdminRoleID:       os.Getenv("ADMIN_ROLE_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Giveaway settings with defaults
		MinBidAmount:  1,
		MaxBidAmount:  32767,
		MonthlyWinCap: 3,
		WinnerCount:   1,
		CloseHourUTC:  21, // 9:00 PM UTC default
		StartingRep:   0,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if maxBid := os.Getenv("MAX_BID_AMOUNT"); maxBid != "" {
		if parsed, err := strconv.ParseInt(maxBid, 10, 64); err == nil {
			config.MaxBidAmount = parsed
		}
	}
	if winCap := os.Getenv("MONTHLY_WIN_CAP"); winCap != "" {
		if parsed, err := strconv.Atoi(winCap); err == nil {
			config.MonthlyWinCap = parsed
		}
	}
	if winners := os.Getenv("WINNER_COUNT"); winners != "" {
		if parsed, err := strconv.Atoi(winners); err == nil && parsed >= 1 {
			config.WinnerCount = parsed
		}
	}
	if hour := os.Getenv("GIVEAWAY_CLOSE_HOUR"); hour != "" {
		if parsed, err := strconv.Atoi(hour); err == nil && parsed >= 0 && parsed <= 23 {
			config.CloseHourUTC = parsed
		}
	}
	if rep := os.Getenv("STARTING_REPUTATION"); rep != "" {
		if parsed, err := strconv.ParseInt(rep, 10, 64); err == nil {
			config.StartingRep = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
