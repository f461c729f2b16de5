package reward

import (
	"testing"

	"github.com/google/uuid"

	"plantgarden/internal/common"
)

func TestIsStreakMilestone(t *testing.T) {
	milestones := []int{1, 3, 5, 7, 10, 13, 21, 28, 35, 42, 50, 70, 100}
	for _, streak := range milestones {
		if !IsStreakMilestone(streak) {
			t.Errorf("expected streak %d to be a milestone", streak)
		}
	}

	for _, streak := range []int{0, 2, 4, 49, 51, 69, 71, 99, 101, 200} {
		if IsStreakMilestone(streak) {
			t.Errorf("expected streak %d not to be a milestone", streak)
		}
	}
}

func TestStreakTicketGrant(t *testing.T) {
	tests := []struct {
		name      string
		streak    int
		wantType  common.TicketType
		wantCount int
	}{
		{"below payout threshold", 42, common.TicketBasic, 0},
		{"just under fifty", 49, common.TicketBasic, 0},
		{"fifty pays one basic", 50, common.TicketBasic, 1},
		{"between fifty and seventy", 51, common.TicketBasic, 1},
		{"seventy pays two basic", 70, common.TicketBasic, 2},
		{"just under a hundred", 99, common.TicketBasic, 2},
		{"a hundred upgrades to premium", 100, common.TicketPremium, 3},
		{"beyond a hundred stays premium", 150, common.TicketPremium, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticketType, count := StreakTicketGrant(tt.streak)
			if ticketType != tt.wantType {
				t.Errorf("StreakTicketGrant(%d) type = %s, want %s", tt.streak, ticketType, tt.wantType)
			}
			if count != tt.wantCount {
				t.Errorf("StreakTicketGrant(%d) count = %d, want %d", tt.streak, count, tt.wantCount)
			}
		})
	}
}

func TestMilestoneKey(t *testing.T) {
	if got := MilestoneKey(RewardVerification, 10); got != "VERIFICATION_10" {
		t.Errorf("MilestoneKey = %q, want VERIFICATION_10", got)
	}
	if got := MilestoneKey(RewardPlantCompletion, 3); got != "PLANT_COMPLETION_3" {
		t.Errorf("MilestoneKey = %q, want PLANT_COMPLETION_3", got)
	}
}

func TestPendingMilestones(t *testing.T) {
	rules := []TicketRewardRule{
		{RewardType: RewardVerification, RequiredCount: 1, TicketType: common.TicketBasic, TicketCount: 1},
		{RewardType: RewardVerification, RequiredCount: 5, TicketType: common.TicketBasic, TicketCount: 1},
		{RewardType: RewardVerification, RequiredCount: 10, TicketType: common.TicketBasic, TicketCount: 2},
	}

	t.Run("nothing granted yet", func(t *testing.T) {
		pending := PendingMilestones(rules, map[string]bool{})
		if len(pending) != 3 {
			t.Fatalf("expected all 3 rules pending, got %d", len(pending))
		}
	})

	t.Run("partially granted", func(t *testing.T) {
		granted := map[string]bool{
			"VERIFICATION_1": true,
			"VERIFICATION_5": true,
		}
		pending := PendingMilestones(rules, granted)
		if len(pending) != 1 {
			t.Fatalf("expected 1 rule pending, got %d", len(pending))
		}
		if pending[0].RequiredCount != 10 {
			t.Errorf("expected the count-10 rule, got count %d", pending[0].RequiredCount)
		}
	})

	t.Run("re-evaluating the same counter grants nothing twice", func(t *testing.T) {
		granted := map[string]bool{}

		first := PendingMilestones(rules, granted)
		if len(first) != 3 {
			t.Fatalf("first evaluation: expected 3 grants, got %d", len(first))
		}
		for _, rule := range first {
			granted[MilestoneKey(rule.RewardType, rule.RequiredCount)] = true
		}

		second := PendingMilestones(rules, granted)
		if len(second) != 0 {
			t.Fatalf("second evaluation at the same counter: expected 0 grants, got %d", len(second))
		}
	})
}

func TestMissionKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	want := "MISSION_6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if got := MissionKey(id); got != want {
		t.Errorf("MissionKey = %q, want %q", got, want)
	}
}
