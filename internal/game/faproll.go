package game

import (
	"math/rand"

	"fapbot/internal/domain"
)

// Faproll spins the slot machine and returns the won item name, or
// domain.FaprollNothing on a losing spin.
func Faproll() string {
	return FaprollWith(rand.Float64)
}

// FaprollWith spins with explicit randomness, for tests.
func FaprollWith(roll func() float64) string {
	total := 0
	for _, o := range domain.FaprollWeights {
		total += o.Weight
	}

	target := roll() * float64(total)
	cumulative := 0.0
	for _, o := range domain.FaprollWeights {
		cumulative += float64(o.Weight)
		if target < cumulative {
			return o.Item
		}
	}
	return domain.FaprollNothing
}
