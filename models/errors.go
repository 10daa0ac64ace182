package models

import (
	"fmt"
	"time"
)

// InvalidAmountError indicates a bid amount outside the allowed range.
type InvalidAmountError struct {
	Amount int64
	Min    int64
	Max    int64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid bid amount %d: must be between %d and %d", e.Amount, e.Min, e.Max)
}

// NoBalanceError indicates the user has no reputation record at all.
// Distinct from having exactly zero reputation.
type NoBalanceError struct {
	DiscordID int64
}

func (e *NoBalanceError) Error() string {
	return fmt.Sprintf("user %d has no reputation record", e.DiscordID)
}

// InsufficientFundsError indicates a debit larger than the current balance.
type InsufficientFundsError struct {
	Requested int64
	Balance   int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient reputation: have %d, need %d", e.Balance, e.Requested)
}

// TooManyWinsError indicates the user hit the monthly win cap and may not bid.
type TooManyWinsError struct {
	Wins        int
	Cap         int
	WindowStart time.Time
}

func (e *TooManyWinsError) Error() string {
	return fmt.Sprintf("win limit reached: %d of %d wins since %s", e.Wins, e.Cap, e.WindowStart.Format("2006-01-02"))
}

// GiveawayClosedError indicates a bid or draw against a giveaway that is no longer open.
type GiveawayClosedError struct {
	GiveawayID int64
}

func (e *GiveawayClosedError) Error() string {
	return fmt.Sprintf("giveaway %d is closed", e.GiveawayID)
}

// WinCapViolationError indicates RecordWin was called for a user already at the
// cap. This is an internal invariant failure, not a user-facing error: draw-time
// filtering must prevent it.
type WinCapViolationError struct {
	DiscordID int64
	Wins      int
	Cap       int
}

func (e *WinCapViolationError) Error() string {
	return fmt.Sprintf("win cap violation: user %d already has %d of %d wins this window", e.DiscordID, e.Wins, e.Cap)
}
