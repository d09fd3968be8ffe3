package succubus

import (
	"context"
	"math/rand"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"
)

// DefaultDailyCooldownHours is the daily reward cooldown without any
// succubus modifier.
const DefaultDailyCooldownHours = 12

// Store is the slice of persistence the effect engine needs. Every call
// commits on its own.
type Store interface {
	Active(ctx context.Context, userID int64) (domain.SuccubusID, bool, error)
	LastDaily(ctx context.Context, userID int64) (time.Time, bool, error)
	AddCoins(ctx context.Context, userID, delta int64) (int64, error)
	AddScore(ctx context.Context, userID, delta int64) (int64, error)
	AddItem(ctx context.Context, userID int64, name string, delta int) error
}

// Notifier delivers messages to a user or to the community channel.
// A failed delivery must never take a background loop down.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, text string) error
	Announce(ctx context.Context, text string) error
}

// LootOffer posts a claimable loot box and blocks until it is claimed by
// the given user or the window expires.
type LootOffer interface {
	Offer(ctx context.Context, userID int64, boxID string, window time.Duration) bool
}

// Handler is the per-succubus effect contract. ApplyAbility and
// ApplyBurden are invoked once when the succubus becomes active for a
// user; handlers with recurring effects (re)start their loops there.
// Cleanup cancels any loops owned by the handler for the user and only
// returns once they have stopped.
type Handler interface {
	ID() domain.SuccubusID
	ApplyAbility(ctx context.Context, userID int64) error
	ApplyBurden(ctx context.Context, userID int64) error
	Cleanup(userID int64)
}

// Optional query interfaces. A handler that does not implement one of
// these leaves the base value untouched.

// DailyCooldownModifier overrides the daily reward cooldown.
type DailyCooldownModifier interface {
	DailyCooldownHours() int
}

// PriceModifier rewrites a store price.
type PriceModifier interface {
	ModifiedPrice(base int64) int64
}

// ItemEffectModifier rewrites an item's effect magnitude.
type ItemEffectModifier interface {
	ModifiedItemEffect(item string, value float64) float64
}

// ItemFailureRoller rolls whether an item use silently fails.
type ItemFailureRoller interface {
	CheckItemFailure() bool
}

// DoubleDailyRoller rolls whether a daily claim pays double.
type DoubleDailyRoller interface {
	CheckDoubleDaily() bool
}

// FapScoreHook hooks into fap-add score accounting.
type FapScoreHook interface {
	CheckBonusScore() bool
	BonusScoreAmount() int64
	CheckTransfer() bool
}

// FapCoster charges a coin cost per fap.
type FapCoster interface {
	FapCost() int64
}

// Deps carries the collaborators shared by all handlers. Roll, Pick and
// Now default to math/rand and time.Now; tests inject seeded versions.
type Deps struct {
	Store    Store
	Notifier Notifier
	Loot     LootOffer
	Sched    *Scheduler

	Roll func() float64
	Pick func(n int) int
	Now  func() time.Time
}

func (d *Deps) fill() {
	if d.Roll == nil {
		d.Roll = rand.Float64
	}
	if d.Pick == nil {
		d.Pick = rand.Intn
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// alive builds the liveness predicate for a background loop: the loop
// runs only while id is still the user's active succubus.
func alive(store Store, userID int64, id domain.SuccubusID) func(context.Context) bool {
	return func(ctx context.Context) bool {
		active, ok, err := store.Active(ctx, userID)
		if err != nil {
			logger.Warn("liveness check failed, stopping effect loop",
				"succubus", id, "user_id", userID, "error", err)
			return false
		}
		return ok && active == id
	}
}

// Registry maps succubus ids to their handlers and answers the
// type-gated modifier queries consulted by the economy commands.
type Registry struct {
	store    Store
	handlers map[domain.SuccubusID]Handler
}

// NewRegistry builds handlers for the whole catalog.
func NewRegistry(d Deps) *Registry {
	d.fill()

	r := &Registry{
		store:    d.Store,
		handlers: make(map[domain.SuccubusID]Handler),
	}
	for _, h := range []Handler{
		NewAstarielle(),
		NewTrinerva(d),
		NewRavienna(d),
		NewVelvetha(d),
		NewMorvina(d),
		NewEryndra(d),
		NewMimi(d),
		NewSelphira(d),
	} {
		r.handlers[h.ID()] = h
	}
	return r
}

// Handler returns the handler for a succubus id, or nil.
func (r *Registry) Handler(id domain.SuccubusID) Handler {
	return r.handlers[id]
}

// HandlerFor returns the handler for the user's active succubus, or nil
// when the user has none.
func (r *Registry) HandlerFor(ctx context.Context, userID int64) Handler {
	id, ok, err := r.store.Active(ctx, userID)
	if err != nil || !ok {
		return nil
	}
	return r.handlers[id]
}

// DailyCooldown returns the user's daily reward cooldown.
func (r *Registry) DailyCooldown(ctx context.Context, userID int64) time.Duration {
	hours := DefaultDailyCooldownHours
	if m, ok := r.HandlerFor(ctx, userID).(DailyCooldownModifier); ok {
		hours = m.DailyCooldownHours()
	}
	return time.Duration(hours) * time.Hour
}

// ModifiedPrice returns the store price after the active succubus burden.
func (r *Registry) ModifiedPrice(ctx context.Context, userID int64, base int64) int64 {
	if m, ok := r.HandlerFor(ctx, userID).(PriceModifier); ok {
		return m.ModifiedPrice(base)
	}
	return base
}

// ModifiedItemEffect returns an item's effect magnitude after modifiers.
func (r *Registry) ModifiedItemEffect(ctx context.Context, userID int64, item string, value float64) float64 {
	if m, ok := r.HandlerFor(ctx, userID).(ItemEffectModifier); ok {
		return m.ModifiedItemEffect(item, value)
	}
	return value
}

// CheckItemFailure rolls the active succubus's item failure burden.
func (r *Registry) CheckItemFailure(ctx context.Context, userID int64) bool {
	if m, ok := r.HandlerFor(ctx, userID).(ItemFailureRoller); ok {
		return m.CheckItemFailure()
	}
	return false
}

// Activate applies ability and burden of the user's newly active
// succubus. A hook failure is logged, it does not undo the activation.
func (r *Registry) Activate(ctx context.Context, userID int64, id domain.SuccubusID) {
	h := r.handlers[id]
	if h == nil {
		return
	}
	if err := h.ApplyAbility(ctx, userID); err != nil {
		logger.Error("apply ability failed", "succubus", id, "user_id", userID, "error", err)
	}
	if err := h.ApplyBurden(ctx, userID); err != nil {
		logger.Error("apply burden failed", "succubus", id, "user_id", userID, "error", err)
	}
}

// Deactivate tears down the loops of the user's previous succubus.
func (r *Registry) Deactivate(userID int64, id domain.SuccubusID) {
	if h := r.handlers[id]; h != nil {
		h.Cleanup(userID)
	}
}

// Rearm restores background effects for every user whose active
// succubus survived a restart. Loops are not self-resuming otherwise.
func (r *Registry) Rearm(ctx context.Context, rows []domain.ActiveSuccubusRow) {
	for _, row := range rows {
		r.Activate(ctx, row.UserID, row.Succubus)
	}
	logger.Info("succubus effects re-armed", "users", len(rows))
}
