package service

import (
	"context"
	"errors"
	"testing"

	"fapbot/internal/domain"
	"fapbot/internal/game"
)

func ritualService(store *memStore, roll float64) *GachaService {
	resolver := game.NewGachaResolverWith(domain.RitualWeights, domain.Catalog(),
		func() float64 { return roll }, func(n int) int { return 0 })
	return NewGachaServiceWith(store, resolver)
}

func TestPerformRitualNewSuccubus(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	_ = store.AddItem(ctx, userID, domain.ItemRitual, 1)

	svc := ritualService(store, 0.0) // first common in the tier
	res, err := svc.PerformRitual(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Duplicate {
		t.Fatalf("first draw marked duplicate: %+v", res)
	}

	owns, _ := store.Owns(ctx, userID, res.Succubus.ID)
	if !owns {
		t.Fatal("drawn succubus not recorded as owned")
	}
	if items, _ := store.Items(ctx, userID); items[domain.ItemRitual] != 0 {
		t.Fatal("ritual item not consumed")
	}
}

func TestPerformRitualDuplicateCompensation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	_ = store.AddItem(ctx, userID, domain.ItemRitual, 2)

	svc := ritualService(store, 0.99) // legendary tier
	first, err := svc.PerformRitual(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}

	second, err := svc.PerformRitual(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Duplicate {
		t.Fatalf("repeat draw not marked duplicate: %+v", second)
	}
	if second.Compensation != 150 {
		t.Fatalf("legendary compensation = %d; want 150", second.Compensation)
	}
	if second.Succubus.ID != first.Succubus.ID {
		t.Fatalf("seeded draws differ: %s vs %s", first.Succubus.ID, second.Succubus.ID)
	}

	// still exactly one ownership row
	owned, _ := store.Owned(ctx, userID)
	if len(owned) != 1 {
		t.Fatalf("owned rows = %d; want 1", len(owned))
	}
	if coins, _ := store.Coins(ctx, userID); coins != 150 {
		t.Fatalf("coins = %d; want 150", coins)
	}
}

func TestPerformRitualWithoutItem(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)

	svc := ritualService(store, 0.0)
	if _, err := svc.PerformRitual(ctx, userID); !errors.Is(err, ErrNoRitualItem) {
		t.Fatalf("err = %v; want ErrNoRitualItem", err)
	}
}

func TestPerformRitualEmptyTierRefunds(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	userID := store.addUser("a", 0)
	_ = store.AddItem(ctx, userID, domain.ItemRitual, 1)

	var thin []domain.SuccubusDef
	for _, def := range domain.Catalog() {
		if def.Rarity != domain.RarityLegendary {
			thin = append(thin, def)
		}
	}
	resolver := game.NewGachaResolverWith(domain.RitualWeights, thin,
		func() float64 { return 0.99 }, func(n int) int { return 0 })
	svc := NewGachaServiceWith(store, resolver)

	_, err := svc.PerformRitual(ctx, userID)
	if !errors.Is(err, game.ErrEmptyRarityTier) {
		t.Fatalf("err = %v; want ErrEmptyRarityTier", err)
	}
	if items, _ := store.Items(ctx, userID); items[domain.ItemRitual] != 1 {
		t.Fatal("failed draw did not refund the ritual item")
	}
}
