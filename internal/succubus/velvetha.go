package succubus

import (
	"context"

	"fapbot/internal/domain"
)

const (
	velvethaBonusChance    = 0.20
	velvethaBonusAmount    = 3
	velvethaTransferChance = 0.15
)

// Velvetha hooks into fap-add scoring: 20% chance of 3 bonus score
// (ability) and 15% chance the score of the fap goes to a random other
// user instead (burden). The fap-add command consults both rolls.
type Velvetha struct {
	roll func() float64
}

func NewVelvetha(d Deps) *Velvetha {
	return &Velvetha{roll: d.Roll}
}

func (v *Velvetha) ID() domain.SuccubusID { return domain.Velvetha }

func (v *Velvetha) ApplyAbility(ctx context.Context, userID int64) error { return nil }
func (v *Velvetha) ApplyBurden(ctx context.Context, userID int64) error  { return nil }
func (v *Velvetha) Cleanup(userID int64)                                 {}

func (v *Velvetha) CheckBonusScore() bool   { return v.roll() < velvethaBonusChance }
func (v *Velvetha) BonusScoreAmount() int64 { return velvethaBonusAmount }
func (v *Velvetha) CheckTransfer() bool     { return v.roll() < velvethaTransferChance }
