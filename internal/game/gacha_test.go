package game

import (
	"errors"
	"testing"

	"fapbot/internal/domain"
)

func TestDrawRarityBands(t *testing.T) {
	// with weights 55/27/13/5 the cumulative bands over 100 are
	// [0,55), [55,82), [82,95), [95,100)
	cases := []struct {
		roll float64
		want domain.Rarity
	}{
		{0.0, domain.RarityCommon},
		{0.549, domain.RarityCommon},
		{0.55, domain.RarityRare},
		{0.819, domain.RarityRare},
		{0.82, domain.RarityEpic},
		{0.949, domain.RarityEpic},
		{0.95, domain.RarityLegendary},
		{0.999, domain.RarityLegendary},
	}

	for _, tc := range cases {
		g := NewGachaResolverWith(domain.RitualWeights, domain.Catalog(),
			func() float64 { return tc.roll }, func(n int) int { return 0 })
		def, err := g.Draw()
		if err != nil {
			t.Fatalf("roll %v: %v", tc.roll, err)
		}
		if def.Rarity != tc.want {
			t.Fatalf("roll %v drew %s (%s); want rarity %s", tc.roll, def.ID, def.Rarity, tc.want)
		}
	}
}

func TestDrawPicksWithinTier(t *testing.T) {
	tier := domain.SuccubusByRarity(domain.RarityEpic)
	if len(tier) != 2 {
		t.Fatalf("epic tier has %d entries; want 2", len(tier))
	}

	for i := range tier {
		g := NewGachaResolverWith(domain.RitualWeights, domain.Catalog(),
			func() float64 { return 0.90 }, func(n int) int { return i })
		def, err := g.Draw()
		if err != nil {
			t.Fatal(err)
		}
		if def.ID != tier[i].ID {
			t.Fatalf("pick %d drew %s; want %s", i, def.ID, tier[i].ID)
		}
	}
}

func TestDrawEmptyTier(t *testing.T) {
	// a catalog with no legendaries must surface a clean error
	var thin []domain.SuccubusDef
	for _, def := range domain.Catalog() {
		if def.Rarity != domain.RarityLegendary {
			thin = append(thin, def)
		}
	}

	g := NewGachaResolverWith(domain.RitualWeights, thin,
		func() float64 { return 0.99 }, func(n int) int { return 0 })
	_, err := g.Draw()
	if !errors.Is(err, ErrEmptyRarityTier) {
		t.Fatalf("err = %v; want ErrEmptyRarityTier", err)
	}
}

func TestFaprollBands(t *testing.T) {
	// weights 40/20/15/10/5/5/5 over 100
	cases := []struct {
		roll float64
		want string
	}{
		{0.0, domain.FaprollNothing},
		{0.399, domain.FaprollNothing},
		{0.40, domain.ItemFapShield},
		{0.60, domain.ItemRedemption},
		{0.75, domain.ItemUltraFapShield},
		{0.85, domain.ItemSupremeRedemption},
		{0.90, domain.ItemFaproll},
		{0.95, domain.ItemRitual},
		{0.999, domain.ItemRitual},
	}

	for _, tc := range cases {
		if got := FaprollWith(func() float64 { return tc.roll }); got != tc.want {
			t.Fatalf("roll %v = %q; want %q", tc.roll, got, tc.want)
		}
	}
}
