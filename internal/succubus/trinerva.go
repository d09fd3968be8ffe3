package succubus

import (
	"context"

	"fapbot/internal/domain"
)

const (
	trinervaDoubleChance  = 0.20
	trinervaCooldownHours = 16
)

// Trinerva gives a 20% chance of a double daily reward and raises the
// daily cooldown to 16 hours. Both effects are consulted synchronously
// by the daily command.
type Trinerva struct {
	roll func() float64
}

func NewTrinerva(d Deps) *Trinerva {
	return &Trinerva{roll: d.Roll}
}

func (t *Trinerva) ID() domain.SuccubusID { return domain.Trinerva }

func (t *Trinerva) ApplyAbility(ctx context.Context, userID int64) error { return nil }
func (t *Trinerva) ApplyBurden(ctx context.Context, userID int64) error  { return nil }
func (t *Trinerva) Cleanup(userID int64)                                 {}

func (t *Trinerva) DailyCooldownHours() int { return trinervaCooldownHours }

// CheckDoubleDaily rolls whether this daily claim pays 2 coins instead of 1.
func (t *Trinerva) CheckDoubleDaily() bool {
	return t.roll() < trinervaDoubleChance
}
