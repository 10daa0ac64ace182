package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
)

// drawEntry is one user's interval in the weighted draw: a contiguous span of
// length Amount on a number line covering the remaining pool.
type drawEntry struct {
	DiscordID int64
	Amount    int64
}

// entriesTotal sums the remaining intervals.
func entriesTotal(entries []drawEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// pickIndex returns the index of the entry whose interval contains point.
// Intervals are laid out in slice order via a cumulative-sum array.
// point must be in [0, entriesTotal(entries)).
func pickIndex(entries []drawEntry, point int64) (int, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("no entries to draw from")
	}

	cumulative := make([]int64, len(entries))
	var sum int64
	for i, e := range entries {
		sum += e.Amount
		cumulative[i] = sum
	}
	if point < 0 || point >= sum {
		return 0, fmt.Errorf("draw point %d outside pool [0, %d)", point, sum)
	}

	// First interval whose cumulative end exceeds the point
	idx := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > point
	})
	return idx, nil
}

// removeEntry drops the entry at idx, preserving order so cumulative layouts
// stay stable across redraws.
func removeEntry(entries []drawEntry, idx int) []drawEntry {
	return append(entries[:idx], entries[idx+1:]...)
}

// cryptoRandPoint draws a uniformly random point in [0, total).
func cryptoRandPoint(total int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(total))
	if err != nil {
		return 0, fmt.Errorf("random generation failed: %w", err)
	}
	return n.Int64(), nil
}
