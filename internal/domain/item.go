package domain

import "time"

// Store item names. Item rows are keyed by these exact strings.
const (
	ItemFapShield         = "Fap Shield"
	ItemUltraFapShield    = "Ultra Fap Shield"
	ItemRedemption        = "Redemption"
	ItemSupremeRedemption = "Supreme Redemption"
	ItemFaproll           = "Faproll"
	ItemRitual            = "Ritual"
)

// StoreItem is a purchasable catalog entry. Cost is the base price in
// Fapcoins before any succubus price modifier.
type StoreItem struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
}

var storeCatalog = []StoreItem{
	{Name: ItemFapShield, Emoji: "🛡️", Description: "Blocks score gain from your faps for 1 hour", Cost: 5},
	{Name: ItemUltraFapShield, Emoji: "⚔️", Description: "Blocks score gain from your faps for 2 hours", Cost: 9},
	{Name: ItemRedemption, Emoji: "🙏", Description: "Removes 1 point from your score", Cost: 10},
	{Name: ItemSupremeRedemption, Emoji: "✨", Description: "Removes 5 points from your score", Cost: 40},
	{Name: ItemFaproll, Emoji: "🎰", Description: "Spin the slot machine for a random item", Cost: 3},
	{Name: ItemRitual, Emoji: "🕯️", Description: "Perform a ritual to summon a succubus", Cost: 15},
}

// StoreCatalog returns every purchasable item.
func StoreCatalog() []StoreItem {
	out := make([]StoreItem, len(storeCatalog))
	copy(out, storeCatalog)
	return out
}

// StoreItemByName looks up a store item by name.
func StoreItemByName(name string) (StoreItem, bool) {
	for _, it := range storeCatalog {
		if it.Name == name {
			return it, true
		}
	}
	return StoreItem{}, false
}

// Base item effects before succubus modifiers.
const (
	FapShieldDuration      = 1 * time.Hour
	UltraFapShieldDuration = 2 * time.Hour
	RedemptionPoints       = 1
	SupremeRedemptionPoints = 5
)

// FaprollNothing marks the losing outcome of a faproll spin.
const FaprollNothing = "Nothing"

// FaprollWeights is the proportional outcome table for the faproll slot.
var FaprollWeights = []struct {
	Item   string
	Weight int
}{
	{FaprollNothing, 40},
	{ItemFapShield, 20},
	{ItemRedemption, 15},
	{ItemUltraFapShield, 10},
	{ItemSupremeRedemption, 5},
	{ItemFaproll, 5},
	{ItemRitual, 5},
}

// LootBoxRewards is the uniform reward pool for Morvina's loot boxes.
var LootBoxRewards = []string{
	ItemFapShield,
	ItemUltraFapShield,
	ItemRedemption,
	ItemSupremeRedemption,
	ItemFaproll,
	ItemRitual,
}
