package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChance(t *testing.T) {
	tests := []struct {
		name      string
		bid       int64
		poolTotal int64
		expected  float64
	}{
		{"quarter of pool", 50, 200, 0.25},
		{"whole pool", 200, 200, 1.0},
		{"no entry", 0, 200, 0},
		{"empty pool", 0, 0, 0},
		{"tiny share", 1, 32767, 1.0 / 32767.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Chance(tt.bid, tt.poolTotal), 1e-9)
		})
	}
}

func TestFormatChance(t *testing.T) {
	assert.Equal(t, "25.00%", FormatChance(0.25))
	assert.Equal(t, "100.00%", FormatChance(1.0))
	assert.Equal(t, "0.00%", FormatChance(0))
	assert.Equal(t, "33.33%", FormatChance(1.0/3.0))
	assert.Equal(t, "0.01%", FormatChance(0.0001))
}
