package reward

import (
	"fmt"
	"log"

	"plantgarden/internal/common"
)

type seedRule struct {
	RewardType    string
	RequiredCount int
	TicketType    common.TicketType
	TicketCount   int
}

var defaultMilestoneRules = []seedRule{
	{RewardVerification, 1, common.TicketBasic, 1},
	{RewardVerification, 5, common.TicketBasic, 1},
	{RewardVerification, 10, common.TicketBasic, 2},
	{RewardVerification, 25, common.TicketPremium, 1},
	{RewardVerification, 50, common.TicketPremium, 2},
	{RewardVerification, 100, common.TicketSpecial, 1},
	{RewardPlantCompletion, 1, common.TicketBasic, 1},
	{RewardPlantCompletion, 3, common.TicketPremium, 1},
	{RewardPlantCompletion, 5, common.TicketPremium, 2},
	{RewardPlantCompletion, 10, common.TicketSpecial, 1},
}

type seedMission struct {
	MissionType  string
	Title        string
	TargetCount  int
	TicketReward common.TicketType
	TicketCount  int
}

var defaultMissions = []seedMission{
	{MissionDailyVerification, "Finish 3 promises today", 3, common.TicketBasic, 1},
	{MissionWeeklyVerification, "Finish 15 promises this week", 15, common.TicketPremium, 1},
	{MissionMonthlyVerification, "Finish 50 promises this month", 50, common.TicketSpecial, 1},
	{MissionPlantCompletion, "Grow 3 plants to the end", 3, common.TicketPremium, 2},
	{MissionStreakMaintenance, "Water 7 days in a row", 7, common.TicketPremium, 1},
}

// CreateDefaultMilestoneRewards seeds the global milestone rules. Idempotent -
// a (rewardType, requiredCount) pair is only created when no global rule for
// it exists.
func (s *Service) CreateDefaultMilestoneRewards() error {
	created := 0
	for _, seed := range defaultMilestoneRules {
		var count int64
		if err := s.db.Model(&TicketRewardRule{}).
			Where("reward_type = ? AND required_count = ? AND child_id IS NULL", seed.RewardType, seed.RequiredCount).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check milestone rule: %w", err)
		}
		if count > 0 {
			continue
		}

		rule := TicketRewardRule{
			RewardType:    seed.RewardType,
			RequiredCount: seed.RequiredCount,
			TicketType:    seed.TicketType,
			TicketCount:   seed.TicketCount,
		}
		if err := s.db.Create(&rule).Error; err != nil {
			return fmt.Errorf("failed to seed milestone rule: %w", err)
		}
		created++
	}

	if created > 0 {
		log.Printf("🎯 Seeded %d default milestone reward rules", created)
	}
	return nil
}

// CreateDefaultMissions seeds the global mission templates. Idempotent -
// keyed by (missionType, targetCount) among global missions.
func (s *Service) CreateDefaultMissions() error {
	created := 0
	for _, seed := range defaultMissions {
		var count int64
		if err := s.db.Model(&Mission{}).
			Where("mission_type = ? AND target_count = ? AND child_id IS NULL", seed.MissionType, seed.TargetCount).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check mission: %w", err)
		}
		if count > 0 {
			continue
		}

		mission := Mission{
			MissionType:  seed.MissionType,
			Title:        seed.Title,
			TargetCount:  seed.TargetCount,
			TicketReward: seed.TicketReward,
			TicketCount:  seed.TicketCount,
			IsActive:     true,
		}
		if err := s.db.Create(&mission).Error; err != nil {
			return fmt.Errorf("failed to seed mission: %w", err)
		}
		created++
	}

	if created > 0 {
		log.Printf("🏅 Seeded %d default missions", created)
	}
	return nil
}
