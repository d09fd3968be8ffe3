package game

import (
	"errors"
	"fmt"
	"math/rand"

	"fapbot/internal/domain"
)

var ErrEmptyRarityTier = errors.New("no succubus available for rarity")

// GachaResolver performs the two-stage ritual draw: a weighted pick over
// rarity tiers, then a uniform pick within the tier.
type GachaResolver struct {
	weights map[domain.Rarity]int
	pool    map[domain.Rarity][]domain.SuccubusDef
	order   []domain.Rarity
	roll    func() float64
	pick    func(n int) int
}

// NewGachaResolver builds a resolver over the static catalog with the
// default ritual weights.
func NewGachaResolver() *GachaResolver {
	return NewGachaResolverWith(domain.RitualWeights, domain.Catalog(), rand.Float64, rand.Intn)
}

// NewGachaResolverWith builds a resolver with explicit weights, catalog
// and randomness, for tests.
func NewGachaResolverWith(
	weights map[domain.Rarity]int,
	catalog []domain.SuccubusDef,
	roll func() float64,
	pick func(n int) int,
) *GachaResolver {
	pool := make(map[domain.Rarity][]domain.SuccubusDef)
	for _, def := range catalog {
		pool[def.Rarity] = append(pool[def.Rarity], def)
	}
	// fixed tier order keeps the cumulative walk deterministic
	order := []domain.Rarity{
		domain.RarityCommon,
		domain.RarityRare,
		domain.RarityEpic,
		domain.RarityLegendary,
	}
	return &GachaResolver{weights: weights, pool: pool, order: order, roll: roll, pick: pick}
}

// Draw resolves one ritual. It returns ErrEmptyRarityTier when the drawn
// tier has no catalog entries.
func (g *GachaResolver) Draw() (domain.SuccubusDef, error) {
	rarity := g.drawRarity()
	tier := g.pool[rarity]
	if len(tier) == 0 {
		return domain.SuccubusDef{}, fmt.Errorf("%w %q", ErrEmptyRarityTier, rarity)
	}
	return tier[g.pick(len(tier))], nil
}

func (g *GachaResolver) drawRarity() domain.Rarity {
	total := 0
	for _, r := range g.order {
		total += g.weights[r]
	}

	target := g.roll() * float64(total)
	cumulative := 0.0
	for _, r := range g.order {
		cumulative += float64(g.weights[r])
		if target < cumulative {
			return r
		}
	}
	return g.order[len(g.order)-1]
}
