package draw

import (
	"strings"

	"plantgarden/internal/common"
)

// RarityTable maps each rarity bucket to its draw probability in percent.
// Every pack's table sums to 100.
type RarityTable map[common.Rarity]int

// PackRarityTables are the fixed odds per pack type.
var PackRarityTables = map[common.TicketType]RarityTable{
	common.TicketBasic: {
		common.RarityCommon:    70,
		common.RarityUncommon:  25,
		common.RarityRare:      5,
		common.RarityEpic:      0,
		common.RarityLegendary: 0,
	},
	common.TicketPremium: {
		common.RarityCommon:    40,
		common.RarityUncommon:  30,
		common.RarityRare:      20,
		common.RarityEpic:      8,
		common.RarityLegendary: 2,
	},
	common.TicketSpecial: {
		common.RarityCommon:    25,
		common.RarityUncommon:  30,
		common.RarityRare:      25,
		common.RarityEpic:      15,
		common.RarityLegendary: 5,
	},
}

// DuplicateExperience is granted when a draw yields an already-owned type.
var DuplicateExperience = map[common.Rarity]int{
	common.RarityCommon:    10,
	common.RarityUncommon:  20,
	common.RarityRare:      30,
	common.RarityEpic:      50,
	common.RarityLegendary: 100,
}

// PickRarity walks the cumulative distribution in the fixed rarity order for
// a uniform roll in [0,100). Falls back to COMMON - unreachable while the
// table sums to 100, but a bad table must not panic a draw.
func PickRarity(table RarityTable, roll float64) common.Rarity {
	cumulative := 0.0
	for _, rarity := range common.RarityOrder {
		cumulative += float64(table[rarity])
		if roll < cumulative {
			return rarity
		}
	}
	return common.RarityCommon
}

// NormalizePackType parses a case-insensitive pack name.
func NormalizePackType(packType string) (common.TicketType, error) {
	switch strings.ToUpper(strings.TrimSpace(packType)) {
	case string(common.TicketBasic):
		return common.TicketBasic, nil
	case string(common.TicketPremium):
		return common.TicketPremium, nil
	case string(common.TicketSpecial):
		return common.TicketSpecial, nil
	default:
		return "", common.NewError(common.ErrInvalidArgument, "unknown pack type: %s", packType)
	}
}
