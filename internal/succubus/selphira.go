package succubus

import (
	"context"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"
)

const selphiraDecayInterval = 3 * 24 * time.Hour

// Selphira unlocks the fairtrade exchange (10 Fapcoins for one point of
// score reduction); the exchange itself is a synchronous command gated on
// her being active. Her burden adds one point of score every three days.
type Selphira struct {
	deps Deps
}

func NewSelphira(d Deps) *Selphira {
	return &Selphira{deps: d}
}

func (s *Selphira) ID() domain.SuccubusID { return domain.Selphira }

// ApplyAbility is a no-op: fairtrade is gated on active ownership at
// command time, nothing to arm here.
func (s *Selphira) ApplyAbility(ctx context.Context, userID int64) error { return nil }

func (s *Selphira) ApplyBurden(ctx context.Context, userID int64) error {
	s.deps.Sched.StartLoop(s.ID(), userID, EffectBurden, selphiraDecayInterval,
		alive(s.deps.Store, userID, s.ID()),
		func(ctx context.Context) { s.addScore(ctx, userID) },
	)
	return nil
}

func (s *Selphira) Cleanup(userID int64) {
	s.deps.Sched.StopUser(s.ID(), userID)
}

func (s *Selphira) addScore(ctx context.Context, userID int64) {
	if _, err := s.deps.Store.AddScore(ctx, userID, 1); err != nil {
		logger.Error("score burden failed", "user_id", userID, "error", err)
		return
	}
	if err := s.deps.Notifier.NotifyUser(ctx, userID,
		"Selphira's presence weighs on you: +1 score 😈"); err != nil {
		logger.Warn("score burden notify failed", "user_id", userID, "error", err)
	}
}
