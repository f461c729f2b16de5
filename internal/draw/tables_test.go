package draw

import (
	"math/rand"
	"testing"

	"plantgarden/internal/common"
)

func TestPackRarityTablesSumTo100(t *testing.T) {
	for packType, table := range PackRarityTables {
		sum := 0
		for _, pct := range table {
			sum += pct
		}
		if sum != 100 {
			t.Errorf("pack %s probabilities sum to %d, want 100", packType, sum)
		}
	}
}

func TestPickRarity(t *testing.T) {
	basic := PackRarityTables[common.TicketBasic]
	premium := PackRarityTables[common.TicketPremium]

	tests := []struct {
		name  string
		table RarityTable
		roll  float64
		want  common.Rarity
	}{
		{"basic roll 0", basic, 0, common.RarityCommon},
		{"basic just under common bound", basic, 69.999, common.RarityCommon},
		{"basic exact common bound", basic, 70, common.RarityUncommon},
		{"basic just under uncommon bound", basic, 94.999, common.RarityUncommon},
		{"basic top of range", basic, 99.999, common.RarityRare},
		{"premium roll 0", premium, 0, common.RarityCommon},
		{"premium epic band", premium, 92, common.RarityEpic},
		{"premium legendary band", premium, 98, common.RarityLegendary},
		{"premium top of range", premium, 99.999, common.RarityLegendary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickRarity(tt.table, tt.roll)
			if got != tt.want {
				t.Errorf("PickRarity(roll=%v) = %s, want %s", tt.roll, got, tt.want)
			}
		})
	}
}

func TestPickRarityBasicNeverExceedsRare(t *testing.T) {
	// BASIC packs have zero weight on EPIC and LEGENDARY, so no roll may
	// ever produce them.
	table := PackRarityTables[common.TicketBasic]
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		rarity := PickRarity(table, rng.Float64()*100)
		if rarity == common.RarityEpic || rarity == common.RarityLegendary {
			t.Fatalf("BASIC pack produced %s", rarity)
		}
	}
}

func TestPickRarityDistribution(t *testing.T) {
	table := PackRarityTables[common.TicketBasic]
	rng := rand.New(rand.NewSource(42))

	const draws = 100000
	counts := map[common.Rarity]int{}
	for i := 0; i < draws; i++ {
		counts[PickRarity(table, rng.Float64()*100)]++
	}

	// Generous tolerance, the point is the shape of the distribution rather
	// than exact frequencies.
	checks := []struct {
		rarity common.Rarity
		pct    float64
	}{
		{common.RarityCommon, 70},
		{common.RarityUncommon, 25},
		{common.RarityRare, 5},
	}
	for _, check := range checks {
		got := float64(counts[check.rarity]) / draws * 100
		if got < check.pct-2 || got > check.pct+2 {
			t.Errorf("rarity %s drawn %.2f%% of the time, want about %.0f%%", check.rarity, got, check.pct)
		}
	}
}

func TestPickRarityBadTableFallsBack(t *testing.T) {
	// A table summing below 100 must still return something.
	broken := RarityTable{common.RarityCommon: 10}
	if got := PickRarity(broken, 99); got != common.RarityCommon {
		t.Errorf("PickRarity on underfilled table = %s, want COMMON fallback", got)
	}
}

func TestDuplicateExperienceCoversAllRarities(t *testing.T) {
	for _, rarity := range common.RarityOrder {
		if _, ok := DuplicateExperience[rarity]; !ok {
			t.Errorf("no duplicate experience value for rarity %s", rarity)
		}
	}
	if DuplicateExperience[common.RarityLegendary] != 100 {
		t.Errorf("legendary duplicate experience = %d, want 100", DuplicateExperience[common.RarityLegendary])
	}
}

func TestNormalizePackType(t *testing.T) {
	tests := []struct {
		input   string
		want    common.TicketType
		wantErr bool
	}{
		{"BASIC", common.TicketBasic, false},
		{"basic", common.TicketBasic, false},
		{" premium ", common.TicketPremium, false},
		{"Special", common.TicketSpecial, false},
		{"GOLD", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizePackType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizePackType(%q) expected error, got %s", tt.input, got)
			} else if common.KindOf(err) != common.ErrInvalidArgument {
				t.Errorf("NormalizePackType(%q) error kind = %s, want invalid_argument", tt.input, common.KindOf(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePackType(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePackType(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
