package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"raffler/models"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	// Create main event bus
	mainBus := NewBus()

	// Create transactional bus that wraps the main bus
	transactionalBus := NewTransactionalBus(mainBus)

	// Set up a channel to capture received events
	eventReceived := make(chan ReputationChangeEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	// Subscribe to reputation change events on the main bus
	mainBus.Subscribe(EventTypeReputationChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if repEvent, ok := event.(ReputationChangeEvent); ok {
			select {
			case eventReceived <- repEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected ReputationChangeEvent, got %T", event)
		}
	})

	// Create a test event
	testEvent := ReputationChangeEvent{
		UserID:          123456,
		OldBalance:      1000,
		NewBalance:      950,
		TransactionType: models.TransactionTypeBid,
		ChangeAmount:    -50,
	}

	// Publish event to transactional bus (simulating service layer)
	transactionalBus.Publish(testEvent)

	// Flush events (simulating successful transaction commit)
	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	// Wait for event to be processed
	wg.Wait()

	// Verify the event was received
	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent.UserID, receivedEvent.UserID)
		assert.Equal(t, testEvent.OldBalance, receivedEvent.OldBalance)
		assert.Equal(t, testEvent.NewBalance, receivedEvent.NewBalance)
		assert.Equal(t, testEvent.TransactionType, receivedEvent.TransactionType)
		assert.Equal(t, testEvent.ChangeAmount, receivedEvent.ChangeAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan BidPlacedEvent, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	mainBus.Subscribe(EventTypeBidPlaced, func(ctx context.Context, event Event) {
		defer wg.Done()
		if bidEvent, ok := event.(BidPlacedEvent); ok {
			eventsReceived <- bidEvent
		}
	})

	// Publish three bids before flushing, as one transaction would
	for i := int64(1); i <= 3; i++ {
		transactionalBus.Publish(BidPlacedEvent{
			UserID:     100 * i,
			GiveawayID: 1,
			Amount:     10 * i,
			NewBid:     10 * i,
			PoolTotal:  10 * i,
		})
	}

	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	wg.Wait()
	close(eventsReceived)

	var received []BidPlacedEvent
	for e := range eventsReceived {
		received = append(received, e)
	}
	assert.Len(t, received, 3)
}

// TestDiscardDropsPendingEvents tests that a rollback discards unflushed events
func TestDiscardDropsPendingEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypeGiveawayDrawn, func(ctx context.Context, event Event) {
		delivered <- event
	})

	transactionalBus.Publish(GiveawayDrawnEvent{GiveawayID: 1, PoolTotal: 400})
	transactionalBus.Discard()

	// A later flush must not resurrect discarded events
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("Discarded event was delivered")
	case <-time.After(200 * time.Millisecond):
		// Expected: nothing arrives
	}
}
