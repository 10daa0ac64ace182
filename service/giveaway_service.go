package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffler/config"
	"raffler/events"
	"raffler/models"

	log "github.com/sirupsen/logrus"
)

type giveawayService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config

	// randPoint draws a uniform point in [0, total); overridable in tests
	randPoint func(total int64) (int64, error)
	now       func() time.Time
}

// NewGiveawayService creates a new giveaway service
func NewGiveawayService(uowFactory UnitOfWorkFactory, cfg *config.Config) GiveawayService {
	return &giveawayService{
		uowFactory: uowFactory,
		cfg:        cfg,
		randPoint:  cryptoRandPoint,
		now:        time.Now,
	}
}

// PlaceBid converts reputation into giveaway entries. The win-cap check, the
// debit and the bid record happen in one transaction: a failure at any step
// rolls everything back, so no state where reputation was taken but the bid
// not recorded (or vice versa) is ever observable.
func (s *giveawayService) PlaceBid(ctx context.Context, giveawayID, discordID int64, amount int64) (*models.BidResult, error) {
	if amount < s.cfg.MinBidAmount || amount > s.cfg.MaxBidAmount {
		return nil, &models.InvalidAmountError{Amount: amount, Min: s.cfg.MinBidAmount, Max: s.cfg.MaxBidAmount}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Win-limit check comes before anything else touches state
	wins, err := s.currentWins(ctx, uow, discordID)
	if err != nil {
		return nil, err
	}
	if wins >= s.cfg.MonthlyWinCap {
		return nil, &models.TooManyWinsError{Wins: wins, Cap: s.cfg.MonthlyWinCap, WindowStart: MonthStart(s.now())}
	}

	giveaway, err := uow.GiveawayRepository().GetByID(ctx, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}
	if giveaway == nil {
		return nil, fmt.Errorf("giveaway %d not found", giveawayID)
	}
	if !giveaway.IsOpen() {
		return nil, &models.GiveawayClosedError{GiveawayID: giveawayID}
	}

	// Debit first; the state guard on the pool update catches a close that
	// commits between the check above and here
	newBalance, err := uow.UserRepository().Debit(ctx, discordID, amount)
	if err != nil {
		return nil, err
	}

	poolTotal, err := uow.GiveawayRepository().IncrementPool(ctx, giveawayID, amount)
	if err != nil {
		return nil, err
	}

	newBid, err := uow.BidRepository().AddToBid(ctx, giveawayID, discordID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to record bid: %w", err)
	}

	history := &models.ReputationHistory{
		DiscordID:       discordID,
		BalanceBefore:   newBalance + amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeBid,
		TransactionMetadata: map[string]any{
			"giveaway_id": giveawayID,
			"bid_amount":  amount,
			"new_bid":     newBid,
		},
	}
	if err := RecordReputationChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record reputation change: %w", err)
	}

	uow.EventBus().Publish(events.BidPlacedEvent{
		UserID:     discordID,
		GiveawayID: giveawayID,
		Amount:     amount,
		NewBid:     newBid,
		PoolTotal:  poolTotal,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BidResult{
		BidAmount:     amount,
		NewBid:        newBid,
		PoolTotal:     poolTotal,
		Chance:        Chance(newBid, poolTotal),
		Wins:          wins,
		NewReputation: newBalance,
	}, nil
}

// CloseGiveaway freezes the bid map and draws the winners. The state flip is
// one-shot; a second close attempt fails with GiveawayClosedError. An empty
// pool resolves with no winner, which is a result, not an error.
func (s *giveawayService) CloseGiveaway(ctx context.Context, giveawayID int64) (*models.DrawResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().MarkDrawn(ctx, giveawayID)
	if err != nil {
		return nil, err
	}

	// The bid map is immutable from here on: in-flight bids either committed
	// before the flip (and are in this snapshot) or will fail their pool guard
	bids, err := uow.BidRepository().GetByGiveaway(ctx, giveawayID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot bids: %w", err)
	}

	result := &models.DrawResult{
		GiveawayID: giveawayID,
		PoolTotal:  giveaway.PoolTotal,
		Entrants:   len(bids),
	}

	if giveaway.PoolTotal == 0 || len(bids) == 0 {
		result.NoWinner = true
	} else if err := s.drawWinners(ctx, uow, giveaway, bids, result); err != nil {
		return nil, err
	}

	var winnerIDs []int64
	for _, w := range result.Winners {
		winnerIDs = append(winnerIDs, w.DiscordID)
	}
	uow.EventBus().Publish(events.GiveawayDrawnEvent{
		GiveawayID: giveawayID,
		PoolTotal:  giveaway.PoolTotal,
		WinnerIDs:  winnerIDs,
		NoWinner:   result.NoWinner,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// drawWinners performs the weighted selection without replacement. Each
// user's cumulative entry is an interval on [0, remaining pool); a drawn
// user's interval is removed and later draws renormalize over what is left.
// Users at the win cap at draw time are removed the same way, without
// consuming a winner slot, so the cap holds even when it changed between
// bidding and drawing.
func (s *giveawayService) drawWinners(ctx context.Context, uow UnitOfWork, giveaway *models.Giveaway, bids []*models.GiveawayBid, result *models.DrawResult) error {
	entries := make([]drawEntry, 0, len(bids))
	for _, bid := range bids {
		entries = append(entries, drawEntry{DiscordID: bid.DiscordID, Amount: bid.Amount})
	}

	windowStart := MonthStart(s.now())

	slots := giveaway.WinnerCount
	for len(result.Winners) < slots && len(entries) > 0 {
		remaining := entriesTotal(entries)
		point, err := s.randPoint(remaining)
		if err != nil {
			return fmt.Errorf("failed to draw random point: %w", err)
		}
		idx, err := pickIndex(entries, point)
		if err != nil {
			return fmt.Errorf("failed to locate draw interval: %w", err)
		}
		candidate := entries[idx]

		wins, err := s.currentWins(ctx, uow, candidate.DiscordID)
		if err != nil {
			return err
		}
		if wins >= s.cfg.MonthlyWinCap {
			// Cap reached since they bid; exclude and redraw
			log.WithFields(log.Fields{
				"giveawayID": giveaway.ID,
				"userID":     candidate.DiscordID,
				"wins":       wins,
			}).Info("Drawn user at win cap, excluding from pool and redrawing")
			entries = removeEntry(entries, idx)
			continue
		}

		newWins, err := uow.WinRecordRepository().IncrementWins(ctx, candidate.DiscordID, windowStart, s.cfg.MonthlyWinCap)
		if err != nil {
			var capErr *models.WinCapViolationError
			if errors.As(err, &capErr) {
				// Should be unreachable given the check above; abort the
				// slot rather than finalize an invalid winner
				log.WithError(err).WithFields(log.Fields{
					"giveawayID": giveaway.ID,
					"userID":     candidate.DiscordID,
				}).Error("Win cap violation during draw, aborting slot")
				entries = removeEntry(entries, idx)
				continue
			}
			return err
		}

		var username string
		user, err := uow.UserRepository().GetByDiscordID(ctx, candidate.DiscordID)
		if err != nil {
			return fmt.Errorf("failed to get winner user: %w", err)
		}
		if user != nil {
			username = user.Username
		}

		result.Winners = append(result.Winners, &models.DrawWinner{
			DiscordID: candidate.DiscordID,
			Username:  username,
			Bid:       candidate.Amount,
			Chance:    Chance(candidate.Amount, remaining),
			Wins:      newWins,
		})
		entries = removeEntry(entries, idx)
	}

	if len(result.Winners) == 0 {
		// Everyone left in the pool was capped
		result.NoWinner = true
	}

	return nil
}

// currentWins reads a user's win count for the current window, persisting the
// lazy month rollover first. Safe to call repeatedly; the reset is a no-op
// once the record is in the current window.
func (s *giveawayService) currentWins(ctx context.Context, uow UnitOfWork, discordID int64) (int, error) {
	now := s.now()
	windowStart := MonthStart(now)

	if err := uow.WinRecordRepository().ResetExpired(ctx, discordID, windowStart); err != nil {
		return 0, err
	}

	rec, err := uow.WinRecordRepository().Get(ctx, discordID)
	if err != nil {
		return 0, err
	}

	effective := EffectiveWindow(rec, now)
	return effective.Wins, nil
}

// GetOrCreateCurrentGiveaway returns the open giveaway, creating the next
// scheduled one if none exists
func (s *giveawayService) GetOrCreateCurrentGiveaway(ctx context.Context) (*models.Giveaway, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().GetCurrentOpen(ctx)
	if err != nil {
		return nil, err
	}
	if giveaway == nil {
		closeTime := NextCloseTime(s.now(), s.cfg.CloseHourUTC)
		giveaway, err = uow.GiveawayRepository().Create(ctx, closeTime, s.cfg.WinnerCount)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"giveawayID": giveaway.ID,
			"closeTime":  closeTime,
		}).Info("Opened new giveaway")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return giveaway, nil
}

// GetEntry returns a user's cumulative entry and chance for a giveaway
func (s *giveawayService) GetEntry(ctx context.Context, giveawayID, discordID int64) (*models.BidResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	giveaway, err := uow.GiveawayRepository().GetByID(ctx, giveawayID)
	if err != nil {
		return nil, err
	}
	if giveaway == nil {
		return nil, fmt.Errorf("giveaway %d not found", giveawayID)
	}

	bid, err := uow.BidRepository().GetUserBid(ctx, giveawayID, discordID)
	if err != nil {
		return nil, err
	}

	wins, err := s.currentWins(ctx, uow, discordID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BidResult{
		NewBid:    bid,
		PoolTotal: giveaway.PoolTotal,
		Chance:    Chance(bid, giveaway.PoolTotal),
		Wins:      wins,
	}, nil
}

// NextCloseTime returns the next scheduled giveaway close time
func (s *giveawayService) NextCloseTime(ctx context.Context) (*time.Time, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.GiveawayRepository().GetNextCloseTime(ctx)
}
