package reward

import (
	"fmt"

	"github.com/google/uuid"

	"plantgarden/internal/common"
)

// streakMilestones is the fixed set of streak lengths that trigger a
// milestone check at all.
var streakMilestones = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 10: true, 13: true, 21: true,
	28: true, 35: true, 42: true, 50: true, 70: true, 100: true,
}

// IsStreakMilestone reports whether the streak length is a milestone.
func IsStreakMilestone(streak int) bool {
	return streakMilestones[streak]
}

// StreakTicketGrant returns the ticket batch for a milestone streak.
// Milestones below 50 match but pay nothing - they exist for the mission
// path and future tuning.
func StreakTicketGrant(streak int) (common.TicketType, int) {
	ticketType := common.TicketBasic
	if streak >= 100 {
		ticketType = common.TicketPremium
	}

	var count int
	switch {
	case streak >= 100:
		count = 3
	case streak >= 70:
		count = 2
	case streak >= 50:
		count = 1
	default:
		count = 0
	}
	return ticketType, count
}

// MilestoneKey is the earnedFrom provenance key for a counter milestone.
func MilestoneKey(rewardType string, requiredCount int) string {
	return fmt.Sprintf("%s_%d", rewardType, requiredCount)
}

// MissionKey is the earnedFrom provenance key for a completed mission.
func MissionKey(missionID uuid.UUID) string {
	return fmt.Sprintf("MISSION_%s", missionID)
}

// PendingMilestones filters reached rules down to the ones whose provenance
// key has not been granted yet. Re-evaluating the same counter value against
// the keys it already produced yields nothing.
func PendingMilestones(rules []TicketRewardRule, granted map[string]bool) []TicketRewardRule {
	pending := make([]TicketRewardRule, 0, len(rules))
	for _, rule := range rules {
		if !granted[MilestoneKey(rule.RewardType, rule.RequiredCount)] {
			pending = append(pending, rule)
		}
	}
	return pending
}
