package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/game"
	"fapbot/internal/logger"
	"fapbot/internal/repository"
	"fapbot/internal/succubus"
)

var (
	ErrUnknownItem     = errors.New("unknown item")
	ErrUnknownSuccubus = errors.New("unknown succubus")
	ErrNotOwned        = errors.New("succubus not owned")
	ErrFairTradeLocked = errors.New("fairtrade requires Selphira active")
	ErrItemNotUsable   = errors.New("item cannot be used directly")
)

// CooldownError rejects a daily claim made before the cooldown elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("daily already claimed, try again in %s", e.Remaining.Round(time.Minute))
}

// ActivationLockError rejects a succubus activation during the 7-day
// exclusivity lock.
type ActivationLockError struct {
	Remaining time.Duration
}

func (e *ActivationLockError) Error() string {
	return fmt.Sprintf("activation locked for another %s", e.Remaining.Round(time.Hour))
}

// Store is the persistence surface the economy writes through. The
// repository aggregate satisfies it; tests use an in-memory fake.
type Store interface {
	ByID(ctx context.Context, id int64) (*domain.User, error)
	CreateOrUpdate(ctx context.Context, u *domain.User) error
	AddFap(ctx context.Context, userID int64, shielded bool) (*domain.User, error)
	AddScore(ctx context.Context, userID, delta int64) (int64, error)
	Coins(ctx context.Context, userID int64) (int64, error)
	AddCoins(ctx context.Context, userID, delta int64) (int64, error)
	SpendCoins(ctx context.Context, userID, amount int64) (int64, error)
	LastDaily(ctx context.Context, userID int64) (time.Time, bool, error)
	SetLastDaily(ctx context.Context, userID int64, t time.Time) error
	Items(ctx context.Context, userID int64) (map[string]int, error)
	AddItem(ctx context.Context, userID int64, name string, delta int) error
	Owned(ctx context.Context, userID int64) ([]domain.OwnedSuccubus, error)
	Owns(ctx context.Context, userID int64, id domain.SuccubusID) (bool, error)
	AddOwned(ctx context.Context, userID int64, id domain.SuccubusID) error
	Active(ctx context.Context, userID int64) (domain.SuccubusID, bool, error)
	Activate(ctx context.Context, userID int64, id domain.SuccubusID) (bool, error)
	ActivatedAt(ctx context.Context, userID int64) (time.Time, bool, error)
	RandomOtherUser(ctx context.Context, exclude int64) (*domain.User, bool, error)
	Scoreboard(ctx context.Context) ([]domain.ScoreboardEntry, error)
}

const (
	fairTradeCost  = 10
	fairTradeScore = 1
)

// EconomyService implements the economy commands: daily claim, store
// purchase, fap add, item use, fairtrade and succubus activation. Every
// operation consults the effect registry before finalizing its write.
type EconomyService struct {
	store    Store
	fx       *succubus.Registry
	notifier succubus.Notifier
	reward   int64
	roll     func() float64
	now      func() time.Time

	// shield state is process-local and lost on restart
	mu      sync.Mutex
	shields map[int64]time.Time
}

func NewEconomyService(store Store, fx *succubus.Registry, notifier succubus.Notifier, dailyReward int64) *EconomyService {
	return &EconomyService{
		store:    store,
		fx:       fx,
		notifier: notifier,
		reward:   dailyReward,
		roll:     defaultRoll,
		now:      time.Now,
		shields:  make(map[int64]time.Time),
	}
}

// DailyResult reports a successful daily claim.
type DailyResult struct {
	Amount  int64 `json:"amount"`
	Doubled bool  `json:"doubled"`
	Balance int64 `json:"balance"`
}

// ClaimDaily grants the daily Fapcoin reward, honoring the active
// succubus's cooldown override and double-reward roll.
func (s *EconomyService) ClaimDaily(ctx context.Context, userID int64) (*DailyResult, error) {
	cooldown := s.fx.DailyCooldown(ctx, userID)

	last, claimed, err := s.store.LastDaily(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if claimed {
		if elapsed := now.Sub(last); elapsed < cooldown {
			return nil, &CooldownError{Remaining: cooldown - elapsed}
		}
	}

	amount := s.reward
	doubled := false
	if h, ok := s.fx.HandlerFor(ctx, userID).(succubus.DoubleDailyRoller); ok && h.CheckDoubleDaily() {
		amount *= 2
		doubled = true
	}

	balance, err := s.store.AddCoins(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetLastDaily(ctx, userID, now); err != nil {
		return nil, err
	}

	dailyClaims.Inc()
	return &DailyResult{Amount: amount, Doubled: doubled, Balance: balance}, nil
}

// PurchaseResult reports a successful store purchase.
type PurchaseResult struct {
	Item    string `json:"item"`
	Price   int64  `json:"price"`
	Balance int64  `json:"balance"`
}

// Buy purchases one store item at the succubus-modified price. The
// balance guard lives in the store; an insufficient balance surfaces as
// repository.ErrInsufficientFunds and changes nothing.
func (s *EconomyService) Buy(ctx context.Context, userID int64, itemName string) (*PurchaseResult, error) {
	item, ok := domain.StoreItemByName(itemName)
	if !ok {
		return nil, ErrUnknownItem
	}

	price := s.fx.ModifiedPrice(ctx, userID, item.Cost)
	balance, err := s.store.SpendCoins(ctx, userID, price)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddItem(ctx, userID, item.Name, 1); err != nil {
		return nil, err
	}

	purchases.WithLabelValues(item.Name).Inc()
	return &PurchaseResult{Item: item.Name, Price: price, Balance: balance}, nil
}

// Price returns the user's effective price for a base cost.
func (s *EconomyService) Price(ctx context.Context, userID int64, base int64) int64 {
	return s.fx.ModifiedPrice(ctx, userID, base)
}

// FapResult reports the outcome of one fap-add.
type FapResult struct {
	Faps       int64  `json:"faps"`
	Score      int64  `json:"score"`
	Shielded   bool   `json:"shielded"`
	CoinCost   int64  `json:"coin_cost,omitempty"`
	BonusScore int64  `json:"bonus_score,omitempty"`
	Redirected bool   `json:"redirected,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
	NoVictim   bool   `json:"no_victim,omitempty"`
}

// AddFap records one fap. The fap counter always increments; where the
// score point lands depends on the shield and on Velvetha's hooks, and
// Morvina's burden charges a per-fap coin cost when the balance covers it.
func (s *EconomyService) AddFap(ctx context.Context, userID int64) (*FapResult, error) {
	out := &FapResult{Shielded: s.shieldActive(userID)}
	h := s.fx.HandlerFor(ctx, userID)

	if coster, ok := h.(succubus.FapCoster); ok {
		cost := coster.FapCost()
		if _, err := s.store.SpendCoins(ctx, userID, cost); err == nil {
			out.CoinCost = cost
		} else if !errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, err
		}
		// insufficient balance skips the deduction, the fap proceeds
	}

	hook, hooked := h.(succubus.FapScoreHook)

	if !out.Shielded && hooked && hook.CheckTransfer() {
		victim, found, err := s.store.RandomOtherUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		u, err := s.store.AddFap(ctx, userID, true)
		if err != nil {
			return nil, err
		}
		out.Faps, out.Score = u.Faps, u.Score

		if !found {
			out.NoVictim = true
			fapsTotal.Inc()
			return out, nil
		}
		if _, err := s.store.AddScore(ctx, victim.ID, 1); err != nil {
			return nil, err
		}
		out.Redirected = true
		out.RedirectTo = victim.Username
		if err := s.notifier.NotifyUser(ctx, victim.ID,
			"Velvetha redirected a fap your way: +1 score 😈"); err != nil {
			logger.Warn("redirect notify failed", "user_id", victim.ID, "error", err)
		}
		fapsTotal.Inc()
		return out, nil
	}

	u, err := s.store.AddFap(ctx, userID, out.Shielded)
	if err != nil {
		return nil, err
	}
	out.Faps, out.Score = u.Faps, u.Score

	if !out.Shielded && hooked && hook.CheckBonusScore() {
		bonus := hook.BonusScoreAmount()
		score, err := s.store.AddScore(ctx, userID, bonus)
		if err != nil {
			return nil, err
		}
		out.BonusScore = bonus
		out.Score = score
	}

	fapsTotal.Inc()
	return out, nil
}

// UseResult reports the outcome of consuming an item.
type UseResult struct {
	Item        string    `json:"item"`
	Failed      bool      `json:"failed,omitempty"`
	ShieldUntil time.Time `json:"shield_until,omitzero"`
	ScoreDelta  int64     `json:"score_delta,omitempty"`
	Score       int64     `json:"score,omitempty"`
	Won         string    `json:"won,omitempty"`
}

// UseItem consumes one item and applies its effect. Ravienna's burden
// can make the use silently fail after the item is already consumed; her
// ability scales shield durations and redemption points. Ritual items go
// through the summoning flow, not here.
func (s *EconomyService) UseItem(ctx context.Context, userID int64, itemName string) (*UseResult, error) {
	item, ok := domain.StoreItemByName(itemName)
	if !ok {
		return nil, ErrUnknownItem
	}
	if item.Name == domain.ItemRitual {
		return nil, ErrItemNotUsable
	}

	if err := s.store.AddItem(ctx, userID, item.Name, -1); err != nil {
		return nil, err
	}

	out := &UseResult{Item: item.Name}
	if s.fx.CheckItemFailure(ctx, userID) {
		out.Failed = true
		itemUses.WithLabelValues(item.Name, "failed").Inc()
		return out, nil
	}

	switch item.Name {
	case domain.ItemFapShield:
		out.ShieldUntil = s.raiseShield(ctx, userID, item.Name, domain.FapShieldDuration)
	case domain.ItemUltraFapShield:
		out.ShieldUntil = s.raiseShield(ctx, userID, item.Name, domain.UltraFapShieldDuration)
	case domain.ItemRedemption:
		score, delta, err := s.redeem(ctx, userID, domain.RedemptionPoints, item.Name)
		if err != nil {
			return nil, err
		}
		out.ScoreDelta, out.Score = delta, score
	case domain.ItemSupremeRedemption:
		score, delta, err := s.redeem(ctx, userID, domain.SupremeRedemptionPoints, item.Name)
		if err != nil {
			return nil, err
		}
		out.ScoreDelta, out.Score = delta, score
	case domain.ItemFaproll:
		won := game.FaprollWith(s.roll)
		out.Won = won
		if won != domain.FaprollNothing {
			if err := s.store.AddItem(ctx, userID, won, 1); err != nil {
				return nil, err
			}
		}
	}

	itemUses.WithLabelValues(item.Name, "ok").Inc()
	return out, nil
}

func (s *EconomyService) raiseShield(ctx context.Context, userID int64, item string, base time.Duration) time.Time {
	hours := s.fx.ModifiedItemEffect(ctx, userID, item, base.Hours())
	until := s.now().Add(time.Duration(hours * float64(time.Hour)))
	s.mu.Lock()
	s.shields[userID] = until
	s.mu.Unlock()
	return until
}

func (s *EconomyService) redeem(ctx context.Context, userID int64, points int64, item string) (score, delta int64, err error) {
	delta = int64(math.Floor(s.fx.ModifiedItemEffect(ctx, userID, item, float64(points))))
	score, err = s.store.AddScore(ctx, userID, -delta)
	return score, delta, err
}

func (s *EconomyService) shieldActive(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.shields[userID]
	if !ok {
		return false
	}
	if s.now().After(until) {
		delete(s.shields, userID)
		return false
	}
	return true
}

// FairTrade trades 10 Fapcoins for one point of score reduction. Only
// available while Selphira is active.
func (s *EconomyService) FairTrade(ctx context.Context, userID int64) (score, balance int64, err error) {
	active, ok, err := s.store.Active(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if !ok || active != domain.Selphira {
		return 0, 0, ErrFairTradeLocked
	}

	balance, err = s.store.SpendCoins(ctx, userID, fairTradeCost)
	if err != nil {
		return 0, 0, err
	}
	score, err = s.store.AddScore(ctx, userID, -fairTradeScore)
	return score, balance, err
}

// ActivateSuccubus makes an owned succubus the user's active one,
// enforcing the 7-day exclusivity lock and swapping background effects.
func (s *EconomyService) ActivateSuccubus(ctx context.Context, userID int64, name string) (*domain.SuccubusDef, error) {
	def, ok := domain.SuccubusByName(name)
	if !ok {
		return nil, ErrUnknownSuccubus
	}

	owns, err := s.store.Owns(ctx, userID, def.ID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrNotOwned
	}

	if at, has, err := s.store.ActivatedAt(ctx, userID); err != nil {
		return nil, err
	} else if has {
		if held := s.now().Sub(at); held < domain.ActivationLock {
			return nil, &ActivationLockError{Remaining: domain.ActivationLock - held}
		}
	}

	previous, hadPrevious, err := s.store.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	activated, err := s.store.Activate(ctx, userID, def.ID)
	if err != nil {
		return nil, err
	}
	if !activated {
		return nil, ErrNotOwned
	}

	if hadPrevious {
		s.fx.Deactivate(userID, previous)
	}
	s.fx.Activate(ctx, userID, def.ID)

	logger.Info("succubus activated", "user_id", userID, "succubus", def.ID)
	return &def, nil
}

// Scoreboard returns the community standings, best score first.
func (s *EconomyService) Scoreboard(ctx context.Context) ([]domain.ScoreboardEntry, error) {
	return s.store.Scoreboard(ctx)
}

// Profile returns the user row with inventory and collection attached.
func (s *EconomyService) Profile(ctx context.Context, userID int64) (*domain.User, map[string]int, []domain.OwnedSuccubus, error) {
	u, err := s.store.ByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := s.store.Items(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	owned, err := s.store.Owned(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return u, items, owned, nil
}

// GrantSuccubus records ownership without a ritual. Admin only.
func (s *EconomyService) GrantSuccubus(ctx context.Context, userID int64, name string) (*domain.SuccubusDef, error) {
	def, ok := domain.SuccubusByName(name)
	if !ok {
		return nil, ErrUnknownSuccubus
	}
	if err := s.store.AddOwned(ctx, userID, def.ID); err != nil {
		return nil, err
	}
	return &def, nil
}

// AdjustCoins shifts a balance by delta without a guard. Admin only.
func (s *EconomyService) AdjustCoins(ctx context.Context, userID, delta int64) (int64, error) {
	return s.store.AddCoins(ctx, userID, delta)
}

// AdjustScore shifts a score by delta, clamped at zero. Admin only.
func (s *EconomyService) AdjustScore(ctx context.Context, userID, delta int64) (int64, error) {
	return s.store.AddScore(ctx, userID, delta)
}
