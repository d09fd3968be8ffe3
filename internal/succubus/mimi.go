package succubus

import (
	"context"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"
)

const (
	mimiStipendInterval = 12 * time.Hour
	mimiStipendAmount   = 1
	mimiLazyChance      = 0.20
)

// Mimi pays a small Fapcoin stipend every 12 hours, but sometimes dozes
// off: each payout has a 20% chance of being skipped entirely.
type Mimi struct {
	deps Deps
}

func NewMimi(d Deps) *Mimi {
	return &Mimi{deps: d}
}

func (m *Mimi) ID() domain.SuccubusID { return domain.Mimi }

func (m *Mimi) ApplyAbility(ctx context.Context, userID int64) error {
	m.deps.Sched.StartLoop(m.ID(), userID, EffectAbility, mimiStipendInterval,
		alive(m.deps.Store, userID, m.ID()),
		func(ctx context.Context) { m.payStipend(ctx, userID) },
	)
	return nil
}

// ApplyBurden is a no-op: the laziness roll lives inside the stipend tick.
func (m *Mimi) ApplyBurden(ctx context.Context, userID int64) error { return nil }

func (m *Mimi) Cleanup(userID int64) {
	m.deps.Sched.StopUser(m.ID(), userID)
}

func (m *Mimi) payStipend(ctx context.Context, userID int64) {
	if m.deps.Roll() < mimiLazyChance {
		logger.Debug("stipend skipped", "user_id", userID)
		return
	}
	if _, err := m.deps.Store.AddCoins(ctx, userID, mimiStipendAmount); err != nil {
		logger.Error("stipend payout failed", "user_id", userID, "error", err)
	}
}
