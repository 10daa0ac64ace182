package models

import "time"

// WinRecord tracks a user's giveaway wins within the current calendar-month
// window. WindowStart is always the first day of a month; a record whose
// window is older than the current month counts as zero wins.
type WinRecord struct {
	DiscordID   int64     `db:"discord_id"`
	Wins        int       `db:"wins"`
	WindowStart time.Time `db:"window_start"`
	UpdatedAt   time.Time `db:"updated_at"`
}
