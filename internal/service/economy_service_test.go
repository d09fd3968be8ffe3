package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/repository"
	"fapbot/internal/succubus"
)

// memStore is an in-memory Store with the same guard semantics as the
// pgx repositories.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	items  map[int64]map[string]int
	owned  map[int64]map[domain.SuccubusID]time.Time
}

func newMemStore() *memStore {
	return &memStore{
		nextID: 1,
		users:  make(map[int64]*domain.User),
		items:  make(map[int64]map[string]int),
		owned:  make(map[int64]map[domain.SuccubusID]time.Time),
	}
}

func (m *memStore) addUser(username string, coins int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.users[id] = &domain.User{ID: id, TgID: id, Username: username, Coins: coins}
	return id
}

func (m *memStore) user(id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) ByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateOrUpdate(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.TgID == u.TgID {
			existing.Username = u.Username
			*u = *existing
			return nil
		}
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) AddFap(ctx context.Context, userID int64, shielded bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return nil, err
	}
	u.Faps++
	if !shielded {
		u.Score++
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) AddScore(ctx context.Context, userID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return 0, err
	}
	u.Score += delta
	if u.Score < 0 {
		u.Score = 0
	}
	return u.Score, nil
}

func (m *memStore) Coins(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return 0, err
	}
	return u.Coins, nil
}

func (m *memStore) AddCoins(ctx context.Context, userID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return 0, err
	}
	u.Coins += delta
	return u.Coins, nil
}

func (m *memStore) SpendCoins(ctx context.Context, userID, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return 0, err
	}
	if u.Coins-amount < 0 {
		return 0, repository.ErrInsufficientFunds
	}
	u.Coins -= amount
	return u.Coins, nil
}

func (m *memStore) LastDaily(ctx context.Context, userID int64) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return time.Time{}, false, err
	}
	if u.LastDaily == nil {
		return time.Time{}, false, nil
	}
	return *u.LastDaily, true, nil
}

func (m *memStore) SetLastDaily(ctx context.Context, userID int64, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	u.LastDaily = &t
	return nil
}

func (m *memStore) Items(ctx context.Context, userID int64) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for name, qty := range m.items[userID] {
		if qty > 0 {
			out[name] = qty
		}
	}
	return out, nil
}

func (m *memStore) AddItem(ctx context.Context, userID int64, name string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[userID] == nil {
		m.items[userID] = make(map[string]int)
	}
	if m.items[userID][name]+delta < 0 {
		return repository.ErrNoSuchItem
	}
	m.items[userID][name] += delta
	return nil
}

func (m *memStore) Owned(ctx context.Context, userID int64) ([]domain.OwnedSuccubus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.OwnedSuccubus
	for id, at := range m.owned[userID] {
		out = append(out, domain.OwnedSuccubus{UserID: userID, SuccubusID: id, AcquiredAt: at})
	}
	return out, nil
}

func (m *memStore) Owns(ctx context.Context, userID int64, id domain.SuccubusID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.owned[userID][id]
	return ok, nil
}

func (m *memStore) AddOwned(ctx context.Context, userID int64, id domain.SuccubusID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned[userID] == nil {
		m.owned[userID] = make(map[domain.SuccubusID]time.Time)
	}
	if _, ok := m.owned[userID][id]; !ok {
		m.owned[userID][id] = time.Now()
	}
	return nil
}

func (m *memStore) Active(ctx context.Context, userID int64) (domain.SuccubusID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return "", false, err
	}
	if u.ActiveSuccubus == nil {
		return "", false, nil
	}
	return *u.ActiveSuccubus, true, nil
}

func (m *memStore) Activate(ctx context.Context, userID int64, id domain.SuccubusID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owned[userID][id]; !ok {
		return false, nil
	}
	u, err := m.user(userID)
	if err != nil {
		return false, err
	}
	now := time.Now()
	u.ActiveSuccubus = &id
	u.ActivatedAt = &now
	return true, nil
}

func (m *memStore) ActivatedAt(ctx context.Context, userID int64) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return time.Time{}, false, err
	}
	if u.ActivatedAt == nil {
		return time.Time{}, false, nil
	}
	return *u.ActivatedAt, true, nil
}

func (m *memStore) setActive(userID int64, id domain.SuccubusID, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned[userID] == nil {
		m.owned[userID] = make(map[domain.SuccubusID]time.Time)
	}
	m.owned[userID][id] = at
	u := m.users[userID]
	u.ActiveSuccubus = &id
	u.ActivatedAt = &at
}

func (m *memStore) RandomOtherUser(ctx context.Context, exclude int64) (*domain.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// deterministic: lowest other id
	var best *domain.User
	for id, u := range m.users {
		if id == exclude {
			continue
		}
		if best == nil || id < best.ID {
			best = u
		}
	}
	if best == nil {
		return nil, false, nil
	}
	cp := *best
	return &cp, true, nil
}

func (m *memStore) Scoreboard(ctx context.Context) ([]domain.ScoreboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScoreboardEntry
	for _, u := range m.users {
		if u.Faps > 0 {
			out = append(out, domain.ScoreboardEntry{
				UserID: u.ID, Username: u.Username, Faps: u.Faps, Score: u.Score,
			})
		}
	}
	return out, nil
}

type silentNotifier struct{}

func (silentNotifier) NotifyUser(ctx context.Context, userID int64, text string) error { return nil }
func (silentNotifier) Announce(ctx context.Context, text string) error                 { return nil }

func newEconomy(store *memStore, roll float64) *EconomyService {
	fx := succubus.NewRegistry(succubus.Deps{
		Store:    store,
		Notifier: silentNotifier{},
		Sched:    succubus.NewScheduler(),
		Roll:     func() float64 { return roll },
		Pick:     func(n int) int { return 0 },
	})
	svc := NewEconomyService(store, fx, silentNotifier{}, 1)
	svc.roll = func() float64 { return roll }
	return svc
}

func TestClaimDailyCooldownScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	svc := newEconomy(store, 0.9)

	t0 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	res, err := svc.ClaimDaily(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != 1 || res.Doubled {
		t.Fatalf("first claim = %+v; want amount 1, not doubled", res)
	}

	// 11 hours in: rejected with 1 hour remaining
	svc.now = func() time.Time { return t0.Add(11 * time.Hour) }
	_, err = svc.ClaimDaily(ctx, userID)
	var cd *CooldownError
	if !errors.As(err, &cd) {
		t.Fatalf("err = %v; want CooldownError", err)
	}
	if cd.Remaining != time.Hour {
		t.Fatalf("remaining = %v; want 1h", cd.Remaining)
	}

	// at the 12 hour mark the claim succeeds
	svc.now = func() time.Time { return t0.Add(12 * time.Hour) }
	if _, err := svc.ClaimDaily(ctx, userID); err != nil {
		t.Fatalf("claim at cooldown boundary: %v", err)
	}
}

func TestClaimDailyTrinervaDouble(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	store.setActive(userID, domain.Trinerva, time.Now())

	svc := newEconomy(store, 0.1) // under the 20% double threshold
	res, err := svc.ClaimDaily(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Doubled || res.Amount != 2 {
		t.Fatalf("claim = %+v; want doubled amount 2", res)
	}

	// Trinerva's burden: 16h cooldown
	svc.now = func() time.Time { return time.Now().Add(15 * time.Hour) }
	if _, err := svc.ClaimDaily(ctx, userID); err == nil {
		t.Fatal("claim at 15h accepted under a 16h cooldown")
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	svc := newEconomy(store, 0.9)

	_, err := svc.Buy(ctx, userID, domain.ItemFapShield)
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("err = %v; want ErrInsufficientFunds", err)
	}
	if coins, _ := store.Coins(ctx, userID); coins != 0 {
		t.Fatalf("coins = %d; want 0", coins)
	}
	if items, _ := store.Items(ctx, userID); len(items) != 0 {
		t.Fatalf("items = %v; want none", items)
	}
}

func TestBuyAstariellePriceInflation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 6)
	store.setActive(userID, domain.Astarielle, time.Now())
	svc := newEconomy(store, 0.9)

	// Fap Shield costs 5, inflated to 6 under Astarielle
	res, err := svc.Buy(ctx, userID, domain.ItemFapShield)
	if err != nil {
		t.Fatal(err)
	}
	if res.Price != 6 || res.Balance != 0 {
		t.Fatalf("purchase = %+v; want price 6, balance 0", res)
	}
}

func TestAddFapVelvethaTransfer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	actor := store.addUser("actor", 0)
	victim := store.addUser("victim", 0)
	store.setActive(actor, domain.Velvetha, time.Now())

	svc := newEconomy(store, 0.1) // forces the 15% transfer branch
	res, err := svc.AddFap(ctx, actor)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Redirected || res.RedirectTo != "victim" {
		t.Fatalf("result = %+v; want redirect to victim", res)
	}

	a, _ := store.ByID(ctx, actor)
	v, _ := store.ByID(ctx, victim)
	if a.Score != 0 || a.Faps != 1 {
		t.Fatalf("actor faps=%d score=%d; want 1/0", a.Faps, a.Score)
	}
	if v.Score != 1 {
		t.Fatalf("victim score = %d; want 1", v.Score)
	}
}

func TestAddFapVelvethaNoVictim(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	actor := store.addUser("actor", 0)
	store.setActive(actor, domain.Velvetha, time.Now())

	svc := newEconomy(store, 0.1)
	res, err := svc.AddFap(ctx, actor)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NoVictim {
		t.Fatalf("result = %+v; want NoVictim", res)
	}

	a, _ := store.ByID(ctx, actor)
	if a.Faps != 1 || a.Score != 0 {
		t.Fatalf("actor faps=%d score=%d; want 1/0", a.Faps, a.Score)
	}
}

func TestAddFapVelvethaBonus(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	actor := store.addUser("actor", 0)
	store.addUser("other", 0)
	store.setActive(actor, domain.Velvetha, time.Now())

	// 0.16 misses the 15% transfer roll but hits the 20% bonus roll
	svc := newEconomy(store, 0.16)
	res, err := svc.AddFap(ctx, actor)
	if err != nil {
		t.Fatal(err)
	}
	if res.BonusScore != 3 {
		t.Fatalf("bonus = %d; want 3", res.BonusScore)
	}
	if res.Score != 4 {
		t.Fatalf("score = %d; want 4 (1 base + 3 bonus)", res.Score)
	}
}

func TestAddFapMorvinaCost(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	rich := store.addUser("rich", 5)
	broke := store.addUser("broke", 1)
	store.setActive(rich, domain.Morvina, time.Now())
	store.setActive(broke, domain.Morvina, time.Now())

	svc := newEconomy(store, 0.9)

	res, err := svc.AddFap(ctx, rich)
	if err != nil {
		t.Fatal(err)
	}
	if res.CoinCost != 3 {
		t.Fatalf("cost = %d; want 3", res.CoinCost)
	}
	if coins, _ := store.Coins(ctx, rich); coins != 2 {
		t.Fatalf("coins = %d; want 2", coins)
	}

	// insufficient balance: deduction skipped, fap proceeds
	res, err = svc.AddFap(ctx, broke)
	if err != nil {
		t.Fatal(err)
	}
	if res.CoinCost != 0 {
		t.Fatalf("cost = %d; want 0 (skipped)", res.CoinCost)
	}
	if coins, _ := store.Coins(ctx, broke); coins != 1 {
		t.Fatalf("coins = %d; want 1", coins)
	}
	if res.Faps != 1 {
		t.Fatalf("faps = %d; want 1", res.Faps)
	}
}

func TestUseItemShieldBlocksScore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	_ = store.AddItem(ctx, userID, domain.ItemFapShield, 1)

	svc := newEconomy(store, 0.9)
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	res, err := svc.UseItem(ctx, userID, domain.ItemFapShield)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ShieldUntil.Equal(now.Add(time.Hour)) {
		t.Fatalf("shield until %v; want %v", res.ShieldUntil, now.Add(time.Hour))
	}

	fap, err := svc.AddFap(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !fap.Shielded || fap.Score != 0 || fap.Faps != 1 {
		t.Fatalf("shielded fap = %+v; want faps 1, score 0", fap)
	}

	// expired shield no longer blocks
	now = now.Add(2 * time.Hour)
	fap, err = svc.AddFap(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if fap.Shielded || fap.Score != 1 {
		t.Fatalf("post-expiry fap = %+v; want score 1", fap)
	}
}

func TestUseItemRedemptionClampsScore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	store.users[userID].Score = 2
	_ = store.AddItem(ctx, userID, domain.ItemSupremeRedemption, 1)

	svc := newEconomy(store, 0.9)
	res, err := svc.UseItem(ctx, userID, domain.ItemSupremeRedemption)
	if err != nil {
		t.Fatal(err)
	}
	if res.ScoreDelta != 5 {
		t.Fatalf("delta = %d; want 5", res.ScoreDelta)
	}
	if res.Score != 0 {
		t.Fatalf("score = %d; want 0 (clamped)", res.Score)
	}
}

func TestUseItemNotOwned(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	svc := newEconomy(store, 0.9)

	_, err := svc.UseItem(ctx, userID, domain.ItemRedemption)
	if !errors.Is(err, repository.ErrNoSuchItem) {
		t.Fatalf("err = %v; want ErrNoSuchItem", err)
	}
}

func TestUseItemRaviennaFailureConsumesItem(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	store.users[userID].Score = 5
	store.setActive(userID, domain.Ravienna, time.Now())
	_ = store.AddItem(ctx, userID, domain.ItemRedemption, 1)

	svc := newEconomy(store, 0.1) // forces the 20% failure roll
	res, err := svc.UseItem(ctx, userID, domain.ItemRedemption)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Failed {
		t.Fatalf("result = %+v; want failed", res)
	}
	if items, _ := store.Items(ctx, userID); items[domain.ItemRedemption] != 0 {
		t.Fatal("failed use did not consume the item")
	}
	if u, _ := store.ByID(ctx, userID); u.Score != 5 {
		t.Fatalf("score = %d; want unchanged 5", u.Score)
	}
}

func TestUseItemFaprollGrantsWin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	_ = store.AddItem(ctx, userID, domain.ItemFaproll, 1)

	svc := newEconomy(store, 0.5) // lands on Fap Shield in the outcome table
	res, err := svc.UseItem(ctx, userID, domain.ItemFaproll)
	if err != nil {
		t.Fatal(err)
	}
	if res.Won != domain.ItemFapShield {
		t.Fatalf("won = %q; want %q", res.Won, domain.ItemFapShield)
	}
	if items, _ := store.Items(ctx, userID); items[domain.ItemFapShield] != 1 {
		t.Fatalf("inventory = %v; want one Fap Shield", items)
	}
}

func TestFairTradeRequiresSelphira(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 20)
	store.users[userID].Score = 3
	svc := newEconomy(store, 0.9)

	if _, _, err := svc.FairTrade(ctx, userID); !errors.Is(err, ErrFairTradeLocked) {
		t.Fatalf("err = %v; want ErrFairTradeLocked", err)
	}

	store.setActive(userID, domain.Selphira, time.Now())
	score, balance, err := svc.FairTrade(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if score != 2 || balance != 10 {
		t.Fatalf("score=%d balance=%d; want 2/10", score, balance)
	}
}

func TestActivateSuccubusLock(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	store.setActive(userID, domain.Mimi, time.Now().Add(-24*time.Hour))
	_ = store.AddOwned(ctx, userID, domain.Selphira)

	svc := newEconomy(store, 0.9)

	_, err := svc.ActivateSuccubus(ctx, userID, "Selphira")
	var lock *ActivationLockError
	if !errors.As(err, &lock) {
		t.Fatalf("err = %v; want ActivationLockError", err)
	}

	// once the 7-day lock has elapsed the swap goes through
	store.setActive(userID, domain.Mimi, time.Now().Add(-8*24*time.Hour))
	def, err := svc.ActivateSuccubus(ctx, userID, "Selphira")
	if err != nil {
		t.Fatal(err)
	}
	if def.ID != domain.Selphira {
		t.Fatalf("activated %s; want selphira", def.ID)
	}
	active, _, _ := store.Active(ctx, userID)
	if active != domain.Selphira {
		t.Fatalf("active = %s; want selphira", active)
	}
}

func TestActivateSuccubusNotOwned(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	svc := newEconomy(store, 0.9)

	if _, err := svc.ActivateSuccubus(ctx, userID, "Mimi"); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("err = %v; want ErrNotOwned", err)
	}
	if _, err := svc.ActivateSuccubus(ctx, userID, "nobody"); !errors.Is(err, ErrUnknownSuccubus) {
		t.Fatalf("err = %v; want ErrUnknownSuccubus", err)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	svc := newEconomy(store, 0.9)

	for i := 0; i < 5; i++ {
		if score, err := svc.AdjustScore(ctx, userID, -10); err != nil || score != 0 {
			t.Fatalf("score = %d, err = %v; want 0, nil", score, err)
		}
	}
}
