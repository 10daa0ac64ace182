package repository

import (
	"context"
	"testing"
	"time"

	"raffler/models"
	"raffler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiveawayRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	closeTime := time.Now().Add(4 * time.Hour).UTC().Truncate(time.Second)

	t.Run("create", func(t *testing.T) {
		giveaway, err := repo.Create(ctx, closeTime, 1)
		require.NoError(t, err)
		assert.NotZero(t, giveaway.ID)
		assert.Equal(t, models.GiveawayStateOpen, giveaway.State)
		assert.Equal(t, int64(0), giveaway.PoolTotal)
		assert.Equal(t, 1, giveaway.WinnerCount)
		assert.Nil(t, giveaway.DrawnAt)
		assert.True(t, giveaway.IsOpen())
	})

	t.Run("get by id", func(t *testing.T) {
		created, err := repo.Create(ctx, closeTime, 2)
		require.NoError(t, err)

		giveaway, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, giveaway)
		assert.Equal(t, 2, giveaway.WinnerCount)
	})

	t.Run("missing id returns nil", func(t *testing.T) {
		giveaway, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, giveaway)
	})
}

func TestGiveawayRepository_GetCurrentOpen(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	t.Run("none open", func(t *testing.T) {
		giveaway, err := repo.GetCurrentOpen(ctx)
		require.NoError(t, err)
		assert.Nil(t, giveaway)
	})

	t.Run("soonest close wins", func(t *testing.T) {
		later, err := repo.Create(ctx, time.Now().Add(8*time.Hour), 1)
		require.NoError(t, err)
		sooner, err := repo.Create(ctx, time.Now().Add(2*time.Hour), 1)
		require.NoError(t, err)

		current, err := repo.GetCurrentOpen(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, sooner.ID, current.ID)
		assert.NotEqual(t, later.ID, current.ID)
	})
}

func TestGiveawayRepository_IncrementPool(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	giveaway, err := repo.Create(ctx, time.Now().Add(time.Hour), 1)
	require.NoError(t, err)

	t.Run("accumulates", func(t *testing.T) {
		total, err := repo.IncrementPool(ctx, giveaway.ID, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(50), total)

		total, err = repo.IncrementPool(ctx, giveaway.ID, 150)
		require.NoError(t, err)
		assert.Equal(t, int64(200), total)
	})

	t.Run("rejected once drawn", func(t *testing.T) {
		_, err := repo.MarkDrawn(ctx, giveaway.ID)
		require.NoError(t, err)

		_, err = repo.IncrementPool(ctx, giveaway.ID, 10)
		var closedErr *models.GiveawayClosedError
		require.ErrorAs(t, err, &closedErr)
		assert.Equal(t, giveaway.ID, closedErr.GiveawayID)
	})

	t.Run("unknown giveaway", func(t *testing.T) {
		_, err := repo.IncrementPool(ctx, 999999, 10)
		var closedErr *models.GiveawayClosedError
		require.ErrorAs(t, err, &closedErr)
	})
}

func TestGiveawayRepository_MarkDrawn_OneShot(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	giveaway, err := repo.Create(ctx, time.Now().Add(time.Hour), 1)
	require.NoError(t, err)
	_, err = repo.IncrementPool(ctx, giveaway.ID, 400)
	require.NoError(t, err)

	drawn, err := repo.MarkDrawn(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStateDrawn, drawn.State)
	assert.Equal(t, int64(400), drawn.PoolTotal)
	require.NotNil(t, drawn.DrawnAt)
	assert.False(t, drawn.IsOpen())

	// Second close attempt fails
	_, err = repo.MarkDrawn(ctx, giveaway.ID)
	var closedErr *models.GiveawayClosedError
	require.ErrorAs(t, err, &closedErr)
}

func TestGiveawayRepository_Scheduling(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGiveawayRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no open giveaways", func(t *testing.T) {
		next, err := repo.GetNextCloseTime(ctx)
		require.NoError(t, err)
		assert.Nil(t, next)

		due, err := repo.GetDueGiveaways(ctx, time.Now())
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("next close and due listing", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		future := time.Now().Add(3 * time.Hour)

		overdue, err := repo.Create(ctx, past, 1)
		require.NoError(t, err)
		_, err = repo.Create(ctx, future, 1)
		require.NoError(t, err)

		next, err := repo.GetNextCloseTime(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.WithinDuration(t, past, *next, time.Second)

		due, err := repo.GetDueGiveaways(ctx, time.Now())
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, overdue.ID, due[0].ID)

		// Drawn giveaways drop out of both queries
		_, err = repo.MarkDrawn(ctx, overdue.ID)
		require.NoError(t, err)

		due, err = repo.GetDueGiveaways(ctx, time.Now())
		require.NoError(t, err)
		assert.Empty(t, due)

		next, err = repo.GetNextCloseTime(ctx)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.WithinDuration(t, future, *next, time.Second)
	})
}
