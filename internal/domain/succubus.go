package domain

import (
	"strings"
	"time"
)

// SuccubusID is the stable identifier of a succubus in the catalog.
type SuccubusID string

const (
	Astarielle SuccubusID = "astarielle"
	Trinerva   SuccubusID = "trinerva"
	Ravienna   SuccubusID = "ravienna"
	Velvetha   SuccubusID = "velvetha"
	Morvina    SuccubusID = "morvina"
	Eryndra    SuccubusID = "eryndra"
	Mimi       SuccubusID = "mimi"
	Selphira   SuccubusID = "selphira"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// SuccubusDef is a catalog entry. The catalog is static and immutable at runtime.
type SuccubusDef struct {
	ID          SuccubusID `json:"id"`
	Name        string     `json:"name"`
	Rarity      Rarity     `json:"rarity"`
	Ability     string     `json:"ability"`
	Burden      string     `json:"burden"`
	ImageURL    string     `json:"image_url"`
}

// OwnedSuccubus is a (user, succubus) ownership row.
type OwnedSuccubus struct {
	UserID     int64      `db:"user_id" json:"user_id"`
	SuccubusID SuccubusID `db:"succubus_id" json:"succubus_id"`
	AcquiredAt time.Time  `db:"acquired_at" json:"acquired_at"`
}

// ActivationLock is how long an activated succubus stays exclusive.
const ActivationLock = 7 * 24 * time.Hour

var catalog = []SuccubusDef{
	{
		ID:     Trinerva,
		Name:   "Trinerva",
		Rarity: RarityCommon,
		Ability: "20% chance the daily reward pays 2 Fapcoins instead of 1",
		Burden:  "Daily reward cooldown is raised to 16 hours",
		ImageURL: "https://static.fapbot.dev/succubus/trinerva.png",
	},
	{
		ID:     Velvetha,
		Name:   "Velvetha",
		Rarity: RarityCommon,
		Ability: "20% chance to gain 3 bonus score when adding a fap",
		Burden:  "15% chance the score of a fap goes to a random other user",
		ImageURL: "https://static.fapbot.dev/succubus/velvetha.png",
	},
	{
		ID:     Astarielle,
		Name:   "Astarielle",
		Rarity: RarityRare,
		Ability: "Daily reward cooldown reduced from 12 to 10 hours",
		Burden:  "Store prices increased by 20%",
		ImageURL: "https://static.fapbot.dev/succubus/astarielle.png",
	},
	{
		ID:     Eryndra,
		Name:   "Eryndra",
		Rarity: RarityRare,
		Ability: "You are notified when your daily reward becomes available",
		Burden:  "Every hour, 30% chance of a false daily alarm",
		ImageURL: "https://static.fapbot.dev/succubus/eryndra.png",
	},
	{
		ID:     Ravienna,
		Name:   "Ravienna",
		Rarity: RarityEpic,
		Ability: "All item effects are 50% stronger",
		Burden:  "Any item use has a 20% chance to silently fail",
		ImageURL: "https://static.fapbot.dev/succubus/ravienna.png",
	},
	{
		ID:     Morvina,
		Name:   "Morvina",
		Rarity: RarityEpic,
		Ability: "Every hour, 10% chance a loot box appears; claim it within 5 seconds",
		Burden:  "Every fap costs 3 Fapcoins",
		ImageURL: "https://static.fapbot.dev/succubus/morvina.png",
	},
	{
		ID:     Mimi,
		Name:   "Mimi",
		Rarity: RarityLegendary,
		Ability: "Your daily reward is claimed automatically every 12 hours",
		Burden:  "Each automatic claim has a 20% chance to be skipped",
		ImageURL: "https://static.fapbot.dev/succubus/mimi.png",
	},
	{
		ID:     Selphira,
		Name:   "Selphira",
		Rarity: RarityLegendary,
		Ability: "Unlocks the fairtrade command: 10 Fapcoins for -1 score",
		Burden:  "Every 3 days you gain 1 score",
		ImageURL: "https://static.fapbot.dev/succubus/selphira.png",
	},
}

// Catalog returns every succubus definition.
func Catalog() []SuccubusDef {
	out := make([]SuccubusDef, len(catalog))
	copy(out, catalog)
	return out
}

// SuccubusByID looks up a catalog entry by id.
func SuccubusByID(id SuccubusID) (SuccubusDef, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return SuccubusDef{}, false
}

// SuccubusByName looks up a catalog entry by display name, case-insensitive.
func SuccubusByName(name string) (SuccubusDef, bool) {
	for _, def := range catalog {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
	}
	return SuccubusDef{}, false
}

// SuccubusByRarity returns all catalog entries of the given rarity.
func SuccubusByRarity(r Rarity) []SuccubusDef {
	var out []SuccubusDef
	for _, def := range catalog {
		if def.Rarity == r {
			out = append(out, def)
		}
	}
	return out
}

// RitualWeights is the rarity weight table for the gacha ritual.
// Weights are proportional, they do not have to sum to 100.
var RitualWeights = map[Rarity]int{
	RarityCommon:    55,
	RarityRare:      27,
	RarityEpic:      13,
	RarityLegendary: 5,
}

// DuplicateCompensation is the Fapcoin payout when a ritual draws
// a succubus the user already owns.
var DuplicateCompensation = map[Rarity]int64{
	RarityCommon:    20,
	RarityRare:      40,
	RarityEpic:      80,
	RarityLegendary: 150,
}
