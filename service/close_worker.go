package service

import (
	"context"
	"fmt"
	"time"

	"raffler/models"

	log "github.com/sirupsen/logrus"
)

// GiveawayPoster defines the interface for announcing giveaway activity to Discord
type GiveawayPoster interface {
	// PostDrawResult announces the outcome of a closed giveaway
	PostDrawResult(ctx context.Context, giveaway *models.Giveaway, result *models.DrawResult) error

	// PostNewGiveaway announces a freshly opened giveaway
	PostNewGiveaway(ctx context.Context, giveaway *models.Giveaway) error
}

// CloseWorker drives the giveaway lifecycle: it sleeps until the next
// scheduled close time, draws every due giveaway, and opens the next one.
type CloseWorker struct {
	uowFactory      UnitOfWorkFactory
	giveawayService GiveawayService
	poster          GiveawayPoster
}

// NewCloseWorker creates a new giveaway close worker
func NewCloseWorker(uowFactory UnitOfWorkFactory, giveawayService GiveawayService, poster GiveawayPoster) *CloseWorker {
	return &CloseWorker{
		uowFactory:      uowFactory,
		giveawayService: giveawayService,
		poster:          poster,
	}
}

// Start begins the close worker and returns a stop function
func (w *CloseWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Giveaway close worker started")

		for {
			// First, settle anything already past due
			if err := w.processDueGiveaways(ctx); err != nil {
				log.Errorf("Error processing due giveaways: %v", err)
			}

			// Make sure there is always a giveaway accepting bids
			if _, err := w.giveawayService.GetOrCreateCurrentGiveaway(ctx); err != nil {
				log.Errorf("Error ensuring open giveaway: %v", err)
			}

			nextCloseTime := w.nextCloseTime(ctx)
			if nextCloseTime == nil {
				// Nothing scheduled, check again in an hour
				log.Info("No scheduled giveaway close, checking again in 1 hour")
				select {
				case <-ctx.Done():
					log.Info("Giveaway close worker shutting down (context cancelled)...")
					return
				case <-stopChan:
					log.Info("Giveaway close worker shutting down (stop requested)...")
					return
				case <-time.After(1 * time.Hour):
					continue
				}
			}

			waitDuration := time.Until(*nextCloseTime)
			if waitDuration <= 0 {
				// Close time already passed, loop to process immediately
				continue
			}

			log.Infof("Next giveaway close at %v (in %v)", nextCloseTime.UTC(), waitDuration)

			select {
			case <-ctx.Done():
				log.Info("Giveaway close worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Giveaway close worker shutting down (stop requested)...")
				return
			case <-time.After(waitDuration):
				// Timer fired, loop to process
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// nextCloseTime reads the soonest close time among open giveaways
func (w *CloseWorker) nextCloseTime(ctx context.Context) *time.Time {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction for next close time: %v", err)
		return nil
	}
	defer uow.Rollback()

	nextTime, err := uow.GiveawayRepository().GetNextCloseTime(ctx)
	if err != nil {
		log.Errorf("Failed to get next close time: %v", err)
		return nil
	}
	return nextTime
}

// processDueGiveaways draws every open giveaway whose close time has passed.
// Each giveaway settles in its own transaction so one failure doesn't block
// the rest.
func (w *CloseWorker) processDueGiveaways(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	due, err := uow.GiveawayRepository().GetDueGiveaways(ctx, time.Now().UTC())
	if err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to get due giveaways: %w", err)
	}
	uow.Rollback() // Close the read transaction

	if len(due) == 0 {
		return nil
	}

	log.Infof("Found %d due giveaways to close", len(due))

	var successCount, failureCount int
	for _, giveaway := range due {
		if err := w.closeOne(ctx, giveaway); err != nil {
			log.Errorf("Error closing giveaway %d: %v", giveaway.ID, err)
			failureCount++
		} else {
			successCount++
		}
	}

	log.WithFields(log.Fields{
		"total":      len(due),
		"successful": successCount,
		"failed":     failureCount,
	}).Info("Completed giveaway close processing")

	return nil
}

// closeOne settles a single giveaway and announces the outcome
func (w *CloseWorker) closeOne(ctx context.Context, giveaway *models.Giveaway) error {
	result, err := w.giveawayService.CloseGiveaway(ctx, giveaway.ID)
	if err != nil {
		// Another process already drew it; not a failure
		if _, ok := err.(*models.GiveawayClosedError); ok {
			log.Warnf("Giveaway %d already drawn, skipping", giveaway.ID)
			return nil
		}
		return fmt.Errorf("failed to close giveaway: %w", err)
	}

	// Announce outside the transaction; a Discord failure must not undo the draw
	if w.poster != nil {
		if err := w.poster.PostDrawResult(ctx, giveaway, result); err != nil {
			log.Errorf("Failed to post draw result for giveaway %d: %v", giveaway.ID, err)
		}
	}

	// Open the next one and announce it
	next, err := w.giveawayService.GetOrCreateCurrentGiveaway(ctx)
	if err != nil {
		return fmt.Errorf("failed to open next giveaway: %w", err)
	}
	if w.poster != nil && next.ID != giveaway.ID {
		if err := w.poster.PostNewGiveaway(ctx, next); err != nil {
			log.Errorf("Failed to announce giveaway %d: %v", next.ID, err)
		}
	}

	log.WithFields(log.Fields{
		"giveaway_id":  giveaway.ID,
		"pool_total":   result.PoolTotal,
		"entrants":     result.Entrants,
		"winner_count": len(result.Winners),
		"no_winner":    result.NoWinner,
	}).Info("Giveaway draw completed")

	return nil
}
