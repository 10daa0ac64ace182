package service

import (
	"time"
)

// NextCloseTime calculates the next daily giveaway close time based on the
// configured hour
func NextCloseTime(now time.Time, closeHour int) time.Time {
	now = now.UTC()
	closeTime := time.Date(now.Year(), now.Month(), now.Day(), closeHour, 0, 0, 0, time.UTC)

	// If current time is past today's close, use tomorrow's
	if now.After(closeTime) || now.Equal(closeTime) {
		closeTime = closeTime.AddDate(0, 0, 1)
	}

	return closeTime
}
