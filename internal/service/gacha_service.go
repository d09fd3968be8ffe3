package service

import (
	"context"
	"errors"
	"math/rand"

	"fapbot/internal/domain"
	"fapbot/internal/game"
	"fapbot/internal/logger"
	"fapbot/internal/repository"
)

var ErrNoRitualItem = errors.New("no Ritual item to perform the summoning")

func defaultRoll() float64 { return rand.Float64() }

// RitualResult reports one summoning.
type RitualResult struct {
	Succubus     domain.SuccubusDef `json:"succubus"`
	Duplicate    bool               `json:"duplicate"`
	Compensation int64              `json:"compensation,omitempty"`
	Balance      int64              `json:"balance,omitempty"`
}

// GachaService performs the summoning ritual: consume a Ritual item,
// draw a succubus, and resolve the duplicate-vs-new outcome.
type GachaService struct {
	store    Store
	resolver *game.GachaResolver
}

func NewGachaService(store Store) *GachaService {
	return &GachaService{store: store, resolver: game.NewGachaResolver()}
}

// NewGachaServiceWith injects an explicit resolver, for tests.
func NewGachaServiceWith(store Store, resolver *game.GachaResolver) *GachaService {
	return &GachaService{store: store, resolver: resolver}
}

// PerformRitual consumes one Ritual item and draws. A duplicate draw
// never creates a second ownership row; it pays the rarity-keyed
// compensation instead. A failed draw refunds the consumed item.
func (s *GachaService) PerformRitual(ctx context.Context, userID int64) (*RitualResult, error) {
	if err := s.store.AddItem(ctx, userID, domain.ItemRitual, -1); err != nil {
		if errors.Is(err, repository.ErrNoSuchItem) {
			return nil, ErrNoRitualItem
		}
		return nil, err
	}

	def, err := s.resolver.Draw()
	if err != nil {
		if refundErr := s.store.AddItem(ctx, userID, domain.ItemRitual, 1); refundErr != nil {
			logger.Error("ritual refund failed", "user_id", userID, "error", refundErr)
		}
		return nil, err
	}

	owns, err := s.store.Owns(ctx, userID, def.ID)
	if err != nil {
		return nil, err
	}

	out := &RitualResult{Succubus: def}
	if owns {
		out.Duplicate = true
		out.Compensation = domain.DuplicateCompensation[def.Rarity]
		balance, err := s.store.AddCoins(ctx, userID, out.Compensation)
		if err != nil {
			return nil, err
		}
		out.Balance = balance
	} else if err := s.store.AddOwned(ctx, userID, def.ID); err != nil {
		return nil, err
	}

	gachaDraws.WithLabelValues(string(def.Rarity)).Inc()
	logger.Info("ritual resolved",
		"user_id", userID, "succubus", def.ID, "rarity", def.Rarity, "duplicate", out.Duplicate)
	return out, nil
}
