package service

import (
	"time"

	"raffler/models"
)

// MonthStart returns the first instant of the calendar month containing t, in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EffectiveWindow applies the lazy month rollover to a win record without
// mutating stored state. A nil record, or one whose window predates the
// current month, counts as zero wins in the current window. Applying it
// repeatedly to the same inputs yields the same result.
func EffectiveWindow(rec *models.WinRecord, now time.Time) models.WinRecord {
	window := MonthStart(now)
	if rec == nil || rec.WindowStart.Before(window) {
		out := models.WinRecord{Wins: 0, WindowStart: window}
		if rec != nil {
			out.DiscordID = rec.DiscordID
		}
		return out
	}
	return *rec
}
