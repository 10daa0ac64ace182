package models

import "time"

// GiveawayState represents the lifecycle state of a giveaway
type GiveawayState string

const (
	GiveawayStateOpen  GiveawayState = "open"
	GiveawayStateDrawn GiveawayState = "drawn"
)

// Giveaway represents a recurring giveaway accepting reputation bids
type Giveaway struct {
	ID          int64         `db:"id"`
	State       GiveawayState `db:"state"`
	CloseTime   time.Time     `db:"close_time"`
	PoolTotal   int64         `db:"pool_total"`
	WinnerCount int           `db:"winner_count"`
	CreatedAt   time.Time     `db:"created_at"`
	DrawnAt     *time.Time    `db:"drawn_at"`
}

// IsOpen reports whether the giveaway still accepts bids
func (g *Giveaway) IsOpen() bool {
	return g.State == GiveawayStateOpen
}

// GiveawayBid is a user's cumulative entry in a giveaway
type GiveawayBid struct {
	GiveawayID int64     `db:"giveaway_id"`
	DiscordID  int64     `db:"discord_id"`
	Amount     int64     `db:"amount"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// BidResult represents the outcome of a successful bid (returned to the user)
type BidResult struct {
	BidAmount     int64
	NewBid        int64
	PoolTotal     int64
	Chance        float64
	Wins          int
	NewReputation int64
}

// DrawResult represents the outcome of a giveaway draw
type DrawResult struct {
	GiveawayID int64
	PoolTotal  int64
	Entrants   int
	Winners    []*DrawWinner
	NoWinner   bool
}

// DrawWinner is a single finalized winner of a draw
type DrawWinner struct {
	DiscordID int64
	Username  string
	Bid       int64
	Chance    float64
	Wins      int
}
