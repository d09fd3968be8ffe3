package succubus

import (
	"context"
	"math"

	"fapbot/internal/domain"
)

const (
	raviennaMultiplier    = 1.5
	raviennaFailureChance = 0.20
)

// Ravienna makes every item 50% more effective but gives any item use a
// 20% chance to silently fail (the item is consumed either way).
type Ravienna struct {
	roll func() float64
}

func NewRavienna(d Deps) *Ravienna {
	return &Ravienna{roll: d.Roll}
}

func (r *Ravienna) ID() domain.SuccubusID { return domain.Ravienna }

func (r *Ravienna) ApplyAbility(ctx context.Context, userID int64) error { return nil }
func (r *Ravienna) ApplyBurden(ctx context.Context, userID int64) error  { return nil }
func (r *Ravienna) Cleanup(userID int64)                                 {}

// ModifiedItemEffect scales an item's effect by 1.5. Point-based items
// floor to a whole number of points; durations keep the fraction.
func (r *Ravienna) ModifiedItemEffect(item string, value float64) float64 {
	modified := value * raviennaMultiplier
	if item == domain.ItemRedemption || item == domain.ItemSupremeRedemption {
		return math.Floor(modified)
	}
	return modified
}

// CheckItemFailure rolls whether the item use fails.
func (r *Ravienna) CheckItemFailure() bool {
	return r.roll() < raviennaFailureChance
}
