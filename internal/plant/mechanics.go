package plant

import (
	"math"
	"time"

	"plantgarden/internal/common"
)

// Growth and watering mechanics. Pure functions so the numbers can be tested
// without a database.

const (
	baseExperienceRequirement = 10

	wateringBaseExperience = 5
	wateringStreakBonusCap = 5
	wateringMaxHealthGain  = 10

	maxHealth = 100

	// Decay starts on the third day without water and ramps up by 5 health
	// per additional day.
	decayGraceDays      = 3
	decayHealthPerDay   = 5
	lowHealthAlertLevel = 30
)

// DifficultyMultiplier scales experience requirements per plant difficulty.
func DifficultyMultiplier(d common.Difficulty) float64 {
	switch d {
	case common.DifficultyMedium:
		return 1.5
	case common.DifficultyHard:
		return 2.0
	default:
		return 1.0
	}
}

// InitialExperienceToGrow is the stage-1 requirement: round(10 x multiplier).
func InitialExperienceToGrow(d common.Difficulty) int {
	return int(math.Round(baseExperienceRequirement * DifficultyMultiplier(d)))
}

// ExperienceToGrowAtStage is the requirement for the stage just entered:
// round(10 x multiplier x (1 + stage x 0.5)).
func ExperienceToGrowAtStage(d common.Difficulty, stage int) int {
	return int(math.Round(baseExperienceRequirement * DifficultyMultiplier(d) * (1 + float64(stage)*0.5)))
}

// WateringHealthGain tops health up by at most 10, never past 100.
func WateringHealthGain(health int) int {
	gain := maxHealth - health
	if gain > wateringMaxHealthGain {
		gain = wateringMaxHealthGain
	}
	if gain < 0 {
		gain = 0
	}
	return gain
}

// WateringExperienceGain is 5 plus a streak bonus capped at +5.
func WateringExperienceGain(streak int) int {
	bonus := streak
	if bonus > wateringStreakBonusCap {
		bonus = wateringStreakBonusCap
	}
	return wateringBaseExperience + bonus
}

// NextWateringStreak applies the streak rule: +1 when the previous watering
// was exactly one calendar day ago, otherwise reset to 1.
func NextWateringStreak(currentStreak int, lastWatered *time.Time, now time.Time) int {
	if lastWatered != nil && CalendarDaysBetween(*lastWatered, now) == 1 {
		return currentStreak + 1
	}
	return 1
}

// SameCalendarDay compares by local date, not elapsed hours.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// StartOfCalendarDay returns local midnight of t's date. The watering guard
// persists this boundary into its conditional UPDATE: a plant is waterable iff
// last_watered is before it.
func StartOfCalendarDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// CalendarDaysBetween counts whole local calendar days from `from` to `to`.
// Watering at 23:59 and again at 00:01 is one day apart.
func CalendarDaysBetween(from, to time.Time) int {
	return int(StartOfCalendarDay(to).Sub(StartOfCalendarDay(from)).Hours() / 24)
}

// HealthDecayAmount returns how much health an unattended plant loses after
// the given number of dry days, floored at losing all remaining health.
func HealthDecayAmount(health, daysWithoutWater int) int {
	if daysWithoutWater < decayGraceDays {
		return 0
	}
	loss := decayHealthPerDay * (daysWithoutWater - (decayGraceDays - 1))
	if loss > health {
		loss = health
	}
	return loss
}

// HealthAfterDecay returns a plant's health before and after one decay step.
// The sweep records both values in its per-plant delta.
func HealthAfterDecay(health, daysWithoutWater int) (before, after int) {
	return health, health - HealthDecayAmount(health, daysWithoutWater)
}
