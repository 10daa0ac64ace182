package service

import (
	"testing"
	"time"

	"raffler/models"

	"github.com/stretchr/testify/assert"
)

func TestMonthStart(t *testing.T) {
	assert.Equal(t,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		MonthStart(time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)))

	// First instant of the month maps to itself
	assert.Equal(t,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		MonthStart(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	// Non-UTC input is normalized
	loc := time.FixedZone("UTC+5", 5*3600)
	assert.Equal(t,
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		MonthStart(time.Date(2025, 6, 1, 2, 0, 0, 0, loc)))
}

func TestEffectiveWindow_NilRecord(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	effective := EffectiveWindow(nil, now)

	assert.Equal(t, 0, effective.Wins)
	assert.Equal(t, MonthStart(now), effective.WindowStart)
}

func TestEffectiveWindow_StaleRecordRollsOver(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rec := &models.WinRecord{
		DiscordID:   100,
		Wins:        3,
		WindowStart: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	effective := EffectiveWindow(rec, now)

	assert.Equal(t, int64(100), effective.DiscordID)
	assert.Equal(t, 0, effective.Wins)
	assert.Equal(t, MonthStart(now), effective.WindowStart)

	// Stored record is untouched
	assert.Equal(t, 3, rec.Wins)
}

func TestEffectiveWindow_CurrentRecordUnchanged(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rec := &models.WinRecord{
		DiscordID:   100,
		Wins:        2,
		WindowStart: MonthStart(now),
	}

	effective := EffectiveWindow(rec, now)

	assert.Equal(t, 2, effective.Wins)
	assert.Equal(t, rec.WindowStart, effective.WindowStart)
}

func TestEffectiveWindow_Idempotent(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rec := &models.WinRecord{
		DiscordID:   100,
		Wins:        3,
		WindowStart: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	first := EffectiveWindow(rec, now)
	second := EffectiveWindow(&first, now)

	assert.Equal(t, first, second)
}

func TestNextCloseTime(t *testing.T) {
	// Before today's close hour: close today
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC),
		NextCloseTime(now, 21))

	// Exactly at the close hour: roll to tomorrow
	now = time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, 6, 16, 21, 0, 0, 0, time.UTC),
		NextCloseTime(now, 21))

	// Past the close hour: tomorrow
	now = time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, 6, 16, 21, 0, 0, 0, time.UTC),
		NextCloseTime(now, 21))

	// Month boundary
	now = time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, 7, 1, 21, 0, 0, 0, time.UTC),
		NextCloseTime(now, 21))
}
