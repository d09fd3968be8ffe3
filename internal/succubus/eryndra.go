package succubus

import (
	"context"
	"sync"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"
)

const (
	eryndraPollInterval  = 5 * time.Minute
	eryndraRemindEvery   = 12 * time.Hour
	eryndraAlarmInterval = time.Hour
	eryndraAlarmChance   = 0.30
)

// Eryndra reminds her user when the daily reward comes off cooldown, but
// also cries wolf: every hour there is a 30% chance of a false daily
// alarm. Reminders for a real daily are suppressed for 12 hours after
// firing so the 5-minute poll does not spam.
type Eryndra struct {
	deps Deps

	mu       sync.Mutex
	notified map[int64]time.Time
}

func NewEryndra(d Deps) *Eryndra {
	return &Eryndra{deps: d, notified: make(map[int64]time.Time)}
}

func (e *Eryndra) ID() domain.SuccubusID { return domain.Eryndra }

func (e *Eryndra) ApplyAbility(ctx context.Context, userID int64) error {
	e.deps.Sched.StartLoop(e.ID(), userID, EffectAbility, eryndraPollInterval,
		alive(e.deps.Store, userID, e.ID()),
		func(ctx context.Context) { e.checkDaily(ctx, userID) },
	)
	return nil
}

func (e *Eryndra) ApplyBurden(ctx context.Context, userID int64) error {
	e.deps.Sched.StartLoop(e.ID(), userID, EffectBurden, eryndraAlarmInterval,
		alive(e.deps.Store, userID, e.ID()),
		func(ctx context.Context) { e.maybeFalseAlarm(ctx, userID) },
	)
	return nil
}

func (e *Eryndra) Cleanup(userID int64) {
	e.deps.Sched.StopUser(e.ID(), userID)
	e.mu.Lock()
	delete(e.notified, userID)
	e.mu.Unlock()
}

func (e *Eryndra) checkDaily(ctx context.Context, userID int64) {
	last, claimed, err := e.deps.Store.LastDaily(ctx, userID)
	if err != nil {
		logger.Warn("daily reminder check failed", "user_id", userID, "error", err)
		return
	}

	now := e.deps.Now()
	cooldown := time.Duration(DefaultDailyCooldownHours) * time.Hour
	if claimed && now.Sub(last) < cooldown {
		return
	}

	e.mu.Lock()
	lastNotified, ok := e.notified[userID]
	if ok && now.Sub(lastNotified) < eryndraRemindEvery {
		e.mu.Unlock()
		return
	}
	e.notified[userID] = now
	e.mu.Unlock()

	if err := e.deps.Notifier.NotifyUser(ctx, userID,
		"Your daily reward is ready to claim! 🌙"); err != nil {
		logger.Warn("daily reminder notify failed", "user_id", userID, "error", err)
	}
}

func (e *Eryndra) maybeFalseAlarm(ctx context.Context, userID int64) {
	if e.deps.Roll() >= eryndraAlarmChance {
		return
	}
	if err := e.deps.Notifier.NotifyUser(ctx, userID,
		"Your daily reward is ready to claim! 🌙"); err != nil {
		logger.Warn("false alarm notify failed", "user_id", userID, "error", err)
	}
}
