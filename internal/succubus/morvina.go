package succubus

import (
	"context"
	"fmt"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"

	"github.com/google/uuid"
)

const (
	morvinaLootChance   = 0.10
	morvinaLootInterval = time.Hour
	morvinaClaimWindow  = 5 * time.Second
	morvinaFapCost      = 3
)

// Morvina spawns an hourly loot box with a 10% chance; only the owning
// user may claim it, within 5 seconds. The burden charges 3 Fapcoins per
// fap; that cost is deducted synchronously by the fap-add command and
// skipped when the balance does not cover it.
type Morvina struct {
	deps Deps
}

func NewMorvina(d Deps) *Morvina {
	return &Morvina{deps: d}
}

func (m *Morvina) ID() domain.SuccubusID { return domain.Morvina }

// ApplyAbility arms the hourly loot box loop for the user.
func (m *Morvina) ApplyAbility(ctx context.Context, userID int64) error {
	m.deps.Sched.StartLoop(m.ID(), userID, EffectAbility, morvinaLootInterval,
		alive(m.deps.Store, userID, m.ID()),
		func(ctx context.Context) { m.maybeSpawnLootBox(ctx, userID) },
	)
	return nil
}

// ApplyBurden is a no-op: the per-fap cost is a synchronous query.
func (m *Morvina) ApplyBurden(ctx context.Context, userID int64) error { return nil }

func (m *Morvina) Cleanup(userID int64) {
	m.deps.Sched.StopUser(m.ID(), userID)
}

func (m *Morvina) FapCost() int64 { return morvinaFapCost }

func (m *Morvina) maybeSpawnLootBox(ctx context.Context, userID int64) {
	if m.deps.Roll() >= morvinaLootChance {
		return
	}

	boxID := uuid.NewString()
	lootBoxes.WithLabelValues("spawned").Inc()
	logger.Info("loot box spawned", "user_id", userID, "box_id", boxID)

	if m.deps.Loot == nil || !m.deps.Loot.Offer(ctx, userID, boxID, morvinaClaimWindow) {
		lootBoxes.WithLabelValues("expired").Inc()
		if err := m.deps.Notifier.Announce(ctx, "The loot box expired! 💨"); err != nil {
			logger.Warn("loot box announce failed", "error", err)
		}
		return
	}

	reward := domain.LootBoxRewards[m.deps.Pick(len(domain.LootBoxRewards))]
	if err := m.deps.Store.AddItem(ctx, userID, reward, 1); err != nil {
		logger.Error("loot box reward grant failed",
			"user_id", userID, "item", reward, "error", err)
		return
	}

	lootBoxes.WithLabelValues("claimed").Inc()
	msg := fmt.Sprintf("Loot box claimed! You received %s 🎁", reward)
	if err := m.deps.Notifier.NotifyUser(ctx, userID, msg); err != nil {
		logger.Warn("loot box notify failed", "user_id", userID, "error", err)
	}
}
