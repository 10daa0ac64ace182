package models

import (
	"time"
)

// User represents a Discord user with a reputation balance
type User struct {
	DiscordID     int64     `db:"discord_id"`
	Username      string    `db:"username"`
	Reputation    int64     `db:"reputation"`
	AlertsEnabled bool      `db:"alerts_enabled"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
