package service

import "fmt"

// Chance returns a user's win probability: their cumulative entry divided by
// the pool total. Undefined while the pool is empty, reported as zero.
func Chance(bid, poolTotal int64) float64 {
	if poolTotal <= 0 {
		return 0
	}
	return float64(bid) / float64(poolTotal)
}

// FormatChance renders a probability as a percentage with two-decimal
// precision, e.g. 0.25 -> "25.00%".
func FormatChance(chance float64) string {
	return fmt.Sprintf("%.2f%%", chance*100)
}
