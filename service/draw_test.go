package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickIndex_IntervalBoundaries(t *testing.T) {
	// Layout: [0,100) -> A, [100,400) -> B, [400,450) -> C
	entries := []drawEntry{
		{DiscordID: 1, Amount: 100},
		{DiscordID: 2, Amount: 300},
		{DiscordID: 3, Amount: 50},
	}

	tests := []struct {
		point    int64
		expected int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{399, 1},
		{400, 2},
		{449, 2},
	}

	for _, tt := range tests {
		idx, err := pickIndex(entries, tt.point)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, idx, "point %d", tt.point)
	}
}

func TestPickIndex_OutOfRange(t *testing.T) {
	entries := []drawEntry{{DiscordID: 1, Amount: 100}}

	_, err := pickIndex(entries, -1)
	assert.Error(t, err)

	_, err = pickIndex(entries, 100)
	assert.Error(t, err)
}

func TestPickIndex_NoEntries(t *testing.T) {
	_, err := pickIndex(nil, 0)
	assert.Error(t, err)
}

func TestEntriesTotal(t *testing.T) {
	assert.Equal(t, int64(0), entriesTotal(nil))
	assert.Equal(t, int64(450), entriesTotal([]drawEntry{
		{DiscordID: 1, Amount: 100},
		{DiscordID: 2, Amount: 300},
		{DiscordID: 3, Amount: 50},
	}))
}

func TestRemoveEntry(t *testing.T) {
	entries := []drawEntry{
		{DiscordID: 1, Amount: 100},
		{DiscordID: 2, Amount: 300},
		{DiscordID: 3, Amount: 50},
	}

	entries = removeEntry(entries, 1)

	assert.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].DiscordID)
	assert.Equal(t, int64(3), entries[1].DiscordID)
	assert.Equal(t, int64(150), entriesTotal(entries))
}

func TestCryptoRandPoint_InRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		point, err := cryptoRandPoint(450)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, point, int64(0))
		assert.Less(t, point, int64(450))
	}
}
