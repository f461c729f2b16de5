package reward

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantgarden/internal/common"
	"plantgarden/internal/draw"
	"plantgarden/internal/notification"
	"plantgarden/internal/profile"
)

// DrawEngine is the slice of the inventory/draw engine the ticket system
// needs for ticket-funded draws.
type DrawEngine interface {
	DrawRandomPlant(childID uuid.UUID, packType string) (*draw.DrawResult, error)
	MarkLatestDrawTicketUsed(childID, plantTypeID uuid.UUID, ticketType common.TicketType) error
}

// ExperienceSink feeds verification experience into the child's current
// plant inside the verification transaction. Implemented by the plant
// lifecycle manager.
type ExperienceSink interface {
	AddExperienceToCurrentPlant(tx *gorm.DB, childID uuid.UUID, amount int) (bool, error)
}

// Experience a verified promise is worth to the in-progress plant.
const verificationPlantExperience = 10

// TicketGrant describes one batch of tickets handed out under a single
// provenance key.
type TicketGrant struct {
	EarnedFrom string            `json:"earned_from"`
	TicketType common.TicketType `json:"ticket_type"`
	Count      int               `json:"count"`
}

type Service struct {
	db         *gorm.DB
	drawEngine DrawEngine
	plants     ExperienceSink
	notifier   notification.Notifier
}

func NewService(db *gorm.DB, drawEngine DrawEngine, plants ExperienceSink, notifier notification.Notifier) *Service {
	return &Service{db: db, drawEngine: drawEngine, plants: plants, notifier: notifier}
}

var verificationMissionTypes = []string{
	MissionDailyVerification,
	MissionWeeklyVerification,
	MissionMonthlyVerification,
}

// HandleVerificationComplete bumps the verification counter and runs the
// milestone/mission checks, all in one transaction.
func (s *Service) HandleVerificationComplete(childID uuid.UUID) error {
	var grants []TicketGrant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var child profile.Child
		if err := tx.First(&child, "id = ?", childID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "child %s not found", childID)
			}
			return fmt.Errorf("failed to get child: %w", err)
		}

		newCount := child.VerificationCount + 1
		now := time.Now()
		updates := map[string]interface{}{
			"verification_count": newCount,
			"last_verified_at":   now,
		}
		if err := tx.Model(&child).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update verification count: %w", err)
		}

		// A verified promise also feeds the in-progress plant; skipped
		// silently when the child has none.
		if s.plants != nil {
			if _, err := s.plants.AddExperienceToCurrentPlant(tx, childID, verificationPlantExperience); err != nil {
				return fmt.Errorf("failed to apply verification experience: %w", err)
			}
		}

		milestone, err := s.evaluateMilestones(tx, childID, RewardVerification, newCount)
		if err != nil {
			return err
		}
		mission, err := s.advanceMissions(tx, childID, verificationMissionTypes)
		if err != nil {
			return err
		}
		grants = append(milestone, mission...)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyGrants(childID, grants)
	return nil
}

// HandlePlantComplete bumps the plant-completion counter and runs the
// milestone/mission checks.
func (s *Service) HandlePlantComplete(childID uuid.UUID) error {
	var grants []TicketGrant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var child profile.Child
		if err := tx.First(&child, "id = ?", childID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "child %s not found", childID)
			}
			return fmt.Errorf("failed to get child: %w", err)
		}

		newCount := child.PlantCompletionCount + 1
		if err := tx.Model(&child).Update("plant_completion_count", newCount).Error; err != nil {
			return fmt.Errorf("failed to update plant completion count: %w", err)
		}

		milestone, err := s.evaluateMilestones(tx, childID, RewardPlantCompletion, newCount)
		if err != nil {
			return err
		}
		mission, err := s.advanceMissions(tx, childID, []string{MissionPlantCompletion})
		if err != nil {
			return err
		}
		grants = append(milestone, mission...)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyGrants(childID, grants)
	return nil
}

// HandleWateringStreak grants streak-milestone tickets and advances streak
// missions. Non-milestone streak values still move missions forward.
func (s *Service) HandleWateringStreak(childID uuid.UUID, streakCount int) error {
	var grants []TicketGrant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if IsStreakMilestone(streakCount) {
			ticketType, count := StreakTicketGrant(streakCount)
			if count > 0 {
				key := MilestoneKey(RewardWateringStreak, streakCount)
				grant, err := s.grantTickets(tx, childID, key, ticketType, count)
				if err != nil {
					return err
				}
				if grant != nil {
					grants = append(grants, *grant)
				}
			}
		}

		mission, err := s.advanceMissions(tx, childID, []string{MissionStreakMaintenance})
		if err != nil {
			return err
		}
		grants = append(grants, mission...)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyGrants(childID, grants)
	return nil
}

// evaluateMilestones grants every configured rule the counter has reached.
// Re-running with the same counter value is safe: each rule's provenance key
// is granted at most once.
func (s *Service) evaluateMilestones(tx *gorm.DB, childID uuid.UUID, rewardType string, count int) ([]TicketGrant, error) {
	var rules []TicketRewardRule
	if err := tx.Where("reward_type = ? AND required_count <= ? AND (child_id IS NULL OR child_id = ?)",
		rewardType, count, childID).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load milestone rules: %w", err)
	}

	var keys []string
	if err := tx.Model(&DrawTicket{}).Where("child_id = ?", childID).
		Distinct("earned_from").Pluck("earned_from", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to load granted keys: %w", err)
	}
	granted := make(map[string]bool, len(keys))
	for _, key := range keys {
		granted[key] = true
	}

	var grants []TicketGrant
	for _, rule := range PendingMilestones(rules, granted) {
		key := MilestoneKey(rule.RewardType, rule.RequiredCount)
		grant, err := s.grantTickets(tx, childID, key, rule.TicketType, rule.TicketCount)
		if err != nil {
			return nil, err
		}
		if grant != nil {
			grants = append(grants, *grant)
		}
	}
	return grants, nil
}

// grantTickets creates one batch of tickets under a provenance key, skipping
// silently when the key was already granted.
func (s *Service) grantTickets(tx *gorm.DB, childID uuid.UUID, earnedFrom string, ticketType common.TicketType, count int) (*TicketGrant, error) {
	if count <= 0 {
		return nil, nil
	}

	var existing int64
	if err := tx.Model(&DrawTicket{}).Where("child_id = ? AND earned_from = ?", childID, earnedFrom).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing grant: %w", err)
	}
	if existing > 0 {
		return nil, nil
	}

	for i := 0; i < count; i++ {
		ticket := DrawTicket{
			ChildID:    childID,
			TicketType: ticketType,
			EarnedFrom: earnedFrom,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}
	}

	log.Printf("🎟️ Granted %dx %s ticket to child %s (%s)", count, ticketType, childID, earnedFrom)
	return &TicketGrant{EarnedFrom: earnedFrom, TicketType: ticketType, Count: count}, nil
}

// advanceMissions moves every applicable active mission forward by one and
// completes the ones that reach their target.
func (s *Service) advanceMissions(tx *gorm.DB, childID uuid.UUID, missionTypes []string) ([]TicketGrant, error) {
	now := time.Now()
	var missions []Mission
	if err := tx.Where("mission_type IN ? AND is_active = true AND is_completed = false AND (child_id IS NULL OR child_id = ?) AND (end_date IS NULL OR end_date > ?)",
		missionTypes, childID, now).Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("failed to load missions: %w", err)
	}

	var grants []TicketGrant
	for i := range missions {
		m := &missions[i]
		m.CurrentCount++

		if m.CurrentCount >= m.TargetCount {
			m.IsCompleted = true
			m.CompletedAt = &now

			// Completion flips exactly once, so the grant key is inherently
			// idempotent; the earnedFrom check covers retried transactions.
			grant, err := s.grantTickets(tx, childID, MissionKey(m.ID), m.TicketReward, m.TicketCount)
			if err != nil {
				return nil, err
			}
			if grant != nil {
				grants = append(grants, *grant)
			}
			log.Printf("🏅 Mission completed: %s (%s) by child %s", m.Title, m.MissionType, childID)
		}

		if err := tx.Save(m).Error; err != nil {
			return nil, fmt.Errorf("failed to update mission: %w", err)
		}
	}
	return grants, nil
}

// notifyGrants sends best-effort notifications after the transaction commits.
func (s *Service) notifyGrants(childID uuid.UUID, grants []TicketGrant) {
	if s.notifier == nil {
		return
	}
	for _, grant := range grants {
		content := fmt.Sprintf("You earned %dx %s draw ticket!", grant.Count, grant.TicketType)
		if err := s.notifier.Notify(childID, "New draw ticket 🎟️", content, notification.TypeTicketEarned, nil); err != nil {
			log.Printf("⚠️ Ticket notification failed for child %s: %v", childID, err)
		}
	}
}

// UseTicketForDraw spends an unused ticket on a pack draw of the ticket's
// type. The draw-history back-fill is a best-effort correlation with the most
// recent row for the drawn type.
func (s *Service) UseTicketForDraw(childID, ticketID uuid.UUID) (*draw.DrawResult, error) {
	var ticket DrawTicket
	if err := s.db.First(&ticket, "id = ? AND child_id = ? AND is_used = false", ticketID, childID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NewError(common.ErrNotFound, "no unused ticket %s for this child", ticketID)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	// Conditional update so two concurrent uses of the same ticket cannot
	// both draw.
	now := time.Now()
	claim := s.db.Model(&DrawTicket{}).
		Where("id = ? AND is_used = false", ticket.ID).
		Updates(map[string]interface{}{"is_used": true, "used_at": now})
	if claim.Error != nil {
		return nil, fmt.Errorf("failed to mark ticket used: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		return nil, common.NewError(common.ErrNotFound, "no unused ticket %s for this child", ticketID)
	}

	result, err := s.drawEngine.DrawRandomPlant(childID, string(ticket.TicketType))
	if err != nil {
		// Give the ticket back - the draw never happened.
		if revertErr := s.db.Model(&DrawTicket{}).Where("id = ?", ticket.ID).
			Updates(map[string]interface{}{"is_used": false, "used_at": nil}).Error; revertErr != nil {
			log.Printf("❌ Failed to revert ticket %s after draw error: %v", ticket.ID, revertErr)
		}
		return nil, err
	}

	if result.PlantType != nil {
		if err := s.drawEngine.MarkLatestDrawTicketUsed(childID, result.PlantType.ID, ticket.TicketType); err != nil {
			log.Printf("⚠️ Failed to back-fill ticket usage for child %s: %v", childID, err)
		}
	}

	return result, nil
}

// ListTickets returns a child's tickets, unused first, newest first.
func (s *Service) ListTickets(childID uuid.UUID, includeUsed bool) ([]DrawTicket, error) {
	query := s.db.Where("child_id = ?", childID)
	if !includeUsed {
		query = query.Where("is_used = false")
	}
	var tickets []DrawTicket
	if err := query.Order("is_used ASC, earned_at DESC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// ListMissions returns the missions applicable to a child.
func (s *Service) ListMissions(childID uuid.UUID) ([]Mission, error) {
	var missions []Mission
	if err := s.db.Where("child_id IS NULL OR child_id = ?", childID).
		Order("is_completed ASC, created_at ASC").Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, nil
}

// CleanupExpiredMissions deactivates expired incomplete missions. Invoked by
// the background sweep.
func (s *Service) CleanupExpiredMissions() (int64, error) {
	result := s.db.Model(&Mission{}).
		Where("end_date IS NOT NULL AND end_date < ? AND is_active = true AND is_completed = false", time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired missions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
