package succubus

import (
	"context"

	"fapbot/internal/domain"
)

// Astarielle shortens the daily cooldown to 10 hours and inflates store
// prices by 20%. Both effects are pure query modifiers, there is no
// background loop.
type Astarielle struct{}

func NewAstarielle() *Astarielle { return &Astarielle{} }

func (a *Astarielle) ID() domain.SuccubusID { return domain.Astarielle }

func (a *Astarielle) ApplyAbility(ctx context.Context, userID int64) error { return nil }
func (a *Astarielle) ApplyBurden(ctx context.Context, userID int64) error  { return nil }
func (a *Astarielle) Cleanup(userID int64)                                 {}

func (a *Astarielle) DailyCooldownHours() int { return 10 }

// ModifiedPrice inflates the base price by 20%, floored.
func (a *Astarielle) ModifiedPrice(base int64) int64 {
	return int64(float64(base) * 1.2)
}
