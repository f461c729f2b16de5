package plant

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plantgarden/internal/catalog"
	"plantgarden/internal/common"
	"plantgarden/internal/draw"
	"plantgarden/internal/notification"
	"plantgarden/internal/profile"
)

// RewardHooks is the slice of the ticket/mission engine the lifecycle manager
// fires into. Hook failures never roll back the primary operation - callers
// invoke them after commit and only log errors.
type RewardHooks interface {
	HandleWateringStreak(childID uuid.UUID, streakCount int) error
	HandlePlantComplete(childID uuid.UUID) error
}

type Service struct {
	db       *gorm.DB
	catalog  *catalog.Service
	notifier notification.Notifier
	rewards  RewardHooks
}

func NewService(db *gorm.DB, catalogSvc *catalog.Service, notifier notification.Notifier) *Service {
	return &Service{db: db, catalog: catalogSvc, notifier: notifier}
}

// SetRewardHooks wires the reward engine in after construction. The reward
// engine itself is built on top of the draw engine, which needs this service,
// so the hook direction is attached last.
func (s *Service) SetRewardHooks(hooks RewardHooks) {
	s.rewards = hooks
}

// WateringResult is returned by WaterPlant.
type WateringResult struct {
	Log            *WateringLog `json:"watering_log"`
	Plant          *Plant       `json:"plant"`
	WateringStreak int          `json:"watering_streak"`
}

// AdvanceResult is returned by AdvancePlantStage.
type AdvanceResult struct {
	Plant       *Plant `json:"plant"`
	IsMaxStage  bool   `json:"is_max_stage"`
	IsCompleted bool   `json:"is_completed"`
}

// HealthDelta describes one plant touched by the decay sweep.
type HealthDelta struct {
	PlantID      uuid.UUID `json:"plant_id"`
	ChildID      uuid.UUID `json:"child_id"`
	HealthBefore int       `json:"health_before"`
	HealthAfter  int       `json:"health_after"`
	DaysDry      int       `json:"days_dry"`
}

// StartNewPlant creates the child's new current plant. Non-basic types are
// consumed from the draw inventory inside the same transaction.
func (s *Service) StartNewPlant(childID, plantTypeID uuid.UUID, name *string) (*Plant, error) {
	var created *Plant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var child profile.Child
		if err := tx.First(&child, "id = ?", childID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "child %s not found", childID)
			}
			return fmt.Errorf("failed to get child: %w", err)
		}

		// Re-validated under the transaction so two concurrent starts cannot
		// both pass the check.
		var activeCount int64
		if err := tx.Model(&Plant{}).Where("child_id = ? AND is_completed = false", childID).Count(&activeCount).Error; err != nil {
			return fmt.Errorf("failed to check active plant: %w", err)
		}
		if activeCount > 0 {
			return common.NewError(common.ErrConflict, "child already has an active plant")
		}

		pt, err := s.catalog.GetByID(tx, plantTypeID)
		if err != nil {
			return err
		}
		if pt.IsLockedFor(child.TotalCompletedPlants) {
			return common.NewError(common.ErrForbidden,
				"plant type %s requires %d completed plants (has %d)",
				pt.Name, *pt.UnlockRequirement, child.TotalCompletedPlants)
		}

		// Non-basic types come out of the pack inventory - starting one
		// consumes an owned copy.
		if !pt.IsBasic {
			var entry draw.PlantInventory
			if err := tx.Where("child_id = ? AND plant_type_id = ?", childID, plantTypeID).First(&entry).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return common.NewError(common.ErrNotFound, "plant type %s is not in the inventory", pt.Name)
				}
				return fmt.Errorf("failed to get inventory entry: %w", err)
			}
			if entry.Quantity < 1 {
				return common.NewError(common.ErrInvalidState, "inventory for plant type %s is exhausted", pt.Name)
			}
			if entry.Quantity == 1 {
				if err := tx.Delete(&entry).Error; err != nil {
					return fmt.Errorf("failed to remove inventory entry: %w", err)
				}
			} else {
				if err := tx.Model(&entry).Update("quantity", entry.Quantity-1).Error; err != nil {
					return fmt.Errorf("failed to decrement inventory: %w", err)
				}
			}
		}

		newPlant := Plant{
			ChildID:          childID,
			PlantTypeID:      plantTypeID,
			Name:             name,
			CurrentStage:     1,
			Health:           maxHealth,
			Experience:       0,
			ExperienceToGrow: InitialExperienceToGrow(pt.Difficulty),
			CanGrow:          false,
			StartedAt:        time.Now(),
		}
		if err := tx.Create(&newPlant).Error; err != nil {
			// The partial unique index on (child_id) WHERE is_completed=false
			// catches starts that raced past the count check above.
			if isUniqueViolation(err) {
				return common.NewError(common.ErrConflict, "child already has an active plant")
			}
			return fmt.Errorf("failed to create plant: %w", err)
		}

		if err := tx.Model(&child).Update("current_plant_id", newPlant.ID).Error; err != nil {
			return fmt.Errorf("failed to set current plant: %w", err)
		}

		newPlant.PlantType = pt
		created = &newPlant
		return nil
	})

	if err != nil {
		return nil, err
	}
	return created, nil
}

// WaterPlant applies the daily watering: health top-up, streak update and
// experience gain, with one watering log row. The once-per-calendar-day rule
// is checked inside the transaction.
func (s *Service) WaterPlant(plantID uuid.UUID) (*WateringResult, error) {
	var result *WateringResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE so a concurrent watering of the same plant waits here and
		// then sees the committed last_watered.
		var p Plant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", plantID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "plant %s not found", plantID)
			}
			return fmt.Errorf("failed to get plant: %w", err)
		}
		if p.IsCompleted {
			return common.NewError(common.ErrInvalidState, "plant is already completed")
		}

		now := time.Now()
		if p.LastWatered != nil && SameCalendarDay(*p.LastWatered, now) {
			return common.NewError(common.ErrAlreadyDone, "plant was already watered today")
		}

		var child profile.Child
		if err := tx.First(&child, "id = ?", p.ChildID).Error; err != nil {
			return fmt.Errorf("failed to get child: %w", err)
		}

		newStreak := NextWateringStreak(child.WateringStreak, p.LastWatered, now)
		healthGain := WateringHealthGain(p.Health)
		expGain := WateringExperienceGain(newStreak)

		p.Health += healthGain
		p.Experience += expGain
		p.CanGrow = p.Experience >= p.ExperienceToGrow
		p.LastWatered = &now

		// Conditional write re-checks the calendar-day rule against the
		// current row version: a watering that lost the race matches zero
		// rows instead of stacking a second gain onto the same day.
		update := tx.Model(&Plant{}).
			Where("id = ? AND (last_watered IS NULL OR last_watered < ?)", p.ID, StartOfCalendarDay(now)).
			Updates(map[string]interface{}{
				"health":       p.Health,
				"experience":   p.Experience,
				"can_grow":     p.CanGrow,
				"last_watered": now,
			})
		if update.Error != nil {
			return fmt.Errorf("failed to update plant: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return common.NewError(common.ErrAlreadyDone, "plant was already watered today")
		}

		logEntry := WateringLog{
			PlantID:    p.ID,
			WateredAt:  now,
			HealthGain: healthGain,
		}
		if err := tx.Create(&logEntry).Error; err != nil {
			return fmt.Errorf("failed to create watering log: %w", err)
		}

		if err := tx.Model(&child).Update("watering_streak", newStreak).Error; err != nil {
			return fmt.Errorf("failed to update watering streak: %w", err)
		}

		result = &WateringResult{
			Log:            &logEntry,
			Plant:          &p,
			WateringStreak: newStreak,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Streak milestones are best-effort: the watering already committed and a
	// rewards hiccup must not surface to the child.
	if s.rewards != nil {
		if err := s.rewards.HandleWateringStreak(result.Plant.ChildID, result.WateringStreak); err != nil {
			log.Printf("⚠️ Streak milestone check failed for child %s (streak %d): %v",
				result.Plant.ChildID, result.WateringStreak, err)
		}
	}

	return result, nil
}

// AddExperience adds experience to a plant and recomputes its growth flag.
func (s *Service) AddExperience(plantID uuid.UUID, amount int) (*Plant, error) {
	var updated *Plant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p Plant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", plantID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "plant %s not found", plantID)
			}
			return fmt.Errorf("failed to get plant: %w", err)
		}
		if p.IsCompleted {
			return common.NewError(common.ErrInvalidState, "plant is already completed")
		}

		p.Experience += amount
		p.CanGrow = p.Experience >= p.ExperienceToGrow
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to update plant: %w", err)
		}

		updated = &p
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddExperienceToCurrentPlant feeds duplicate-draw experience into the child's
// in-progress plant inside the draw engine's transaction. Returns false when
// the child has no active plant - the experience is silently skipped then.
func (s *Service) AddExperienceToCurrentPlant(tx *gorm.DB, childID uuid.UUID, amount int) (bool, error) {
	var p Plant
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("child_id = ? AND is_completed = false", childID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to get current plant: %w", err)
	}

	p.Experience += amount
	p.CanGrow = p.Experience >= p.ExperienceToGrow
	if err := tx.Save(&p).Error; err != nil {
		return false, fmt.Errorf("failed to add experience: %w", err)
	}
	return true, nil
}

// AdvancePlantStage moves a grow-ready plant to its next stage, or finalizes
// it when the last stage is reached.
func (s *Service) AdvancePlantStage(plantID uuid.UUID) (*AdvanceResult, error) {
	var result *AdvanceResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE so two concurrent advances cannot both pass the CanGrow
		// check and double-apply a stage transition.
		var p Plant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", plantID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "plant %s not found", plantID)
			}
			return fmt.Errorf("failed to get plant: %w", err)
		}
		if p.IsCompleted {
			return common.NewError(common.ErrInvalidState, "plant is already completed")
		}
		if !p.CanGrow {
			return common.NewError(common.ErrNotReady,
				"plant needs more experience to grow (%d/%d)", p.Experience, p.ExperienceToGrow)
		}

		pt, err := s.catalog.GetByID(tx, p.PlantTypeID)
		if err != nil {
			return err
		}

		if p.CurrentStage >= pt.GrowthStages {
			// Final stage - the plant is done.
			now := time.Now()
			p.IsCompleted = true
			p.CompletedAt = &now
			p.CanGrow = false
			if err := tx.Save(&p).Error; err != nil {
				return fmt.Errorf("failed to complete plant: %w", err)
			}

			var child profile.Child
			if err := tx.First(&child, "id = ?", p.ChildID).Error; err != nil {
				return fmt.Errorf("failed to get child: %w", err)
			}
			updates := map[string]interface{}{
				"total_completed_plants": child.TotalCompletedPlants + 1,
				"current_plant_id":       nil,
			}
			if err := tx.Model(&child).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update child counters: %w", err)
			}

			p.PlantType = pt
			result = &AdvanceResult{Plant: &p, IsMaxStage: true, IsCompleted: true}
			return nil
		}

		p.CurrentStage++
		p.Experience = 0
		p.ExperienceToGrow = ExperienceToGrowAtStage(pt.Difficulty, p.CurrentStage)
		p.CanGrow = false
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to advance plant stage: %w", err)
		}

		p.PlantType = pt
		result = &AdvanceResult{Plant: &p, IsMaxStage: false, IsCompleted: false}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if result.IsCompleted {
		if s.rewards != nil {
			if err := s.rewards.HandlePlantComplete(result.Plant.ChildID); err != nil {
				log.Printf("⚠️ Plant completion rewards failed for child %s: %v", result.Plant.ChildID, err)
			}
		}
		if s.notifier != nil {
			name := "your plant"
			if result.Plant.PlantType != nil {
				name = result.Plant.PlantType.Name
			}
			if err := s.notifier.Notify(result.Plant.ChildID, "Plant completed! 🌼",
				fmt.Sprintf("%s is fully grown. Time to plant something new!", name),
				notification.TypePlantCompleted, &result.Plant.ID); err != nil {
				log.Printf("⚠️ Completion notification failed for child %s: %v", result.Plant.ChildID, err)
			}
		}
	}

	return result, nil
}

// GetCurrentPlant returns the child's active plant with its catalog data.
func (s *Service) GetCurrentPlant(childID uuid.UUID) (*Plant, error) {
	var p Plant
	if err := s.db.Preload("PlantType").Where("child_id = ? AND is_completed = false", childID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NewError(common.ErrNotFound, "child has no active plant")
		}
		return nil, fmt.Errorf("failed to get current plant: %w", err)
	}
	return &p, nil
}

// GetWateringLogs returns a plant's watering history, newest first.
func (s *Service) GetWateringLogs(plantID uuid.UUID, limit int) ([]WateringLog, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}
	var logs []WateringLog
	if err := s.db.Where("plant_id = ?", plantID).Order("watered_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get watering logs: %w", err)
	}
	return logs, nil
}

// DecreasePlantHealth is the periodic decay sweep over every non-completed
// plant. Alerts are best-effort - one failed notification never fails the
// sweep.
func (s *Service) DecreasePlantHealth() ([]HealthDelta, error) {
	var plants []Plant
	if err := s.db.Where("is_completed = false").Find(&plants).Error; err != nil {
		return nil, fmt.Errorf("failed to list active plants: %w", err)
	}

	now := time.Now()
	deltas := make([]HealthDelta, 0)

	for i := range plants {
		p := &plants[i]

		lastCare := p.StartedAt
		if p.LastWatered != nil {
			lastCare = *p.LastWatered
		}
		days := CalendarDaysBetween(lastCare, now)

		// Captured before the update: gorm writes newHealth back into p.
		before, newHealth := HealthAfterDecay(p.Health, days)
		if newHealth == before {
			continue
		}

		if err := s.db.Model(p).Update("health", newHealth).Error; err != nil {
			log.Printf("❌ Failed to decay health for plant %s: %v", p.ID, err)
			continue
		}

		deltas = append(deltas, HealthDelta{
			PlantID:      p.ID,
			ChildID:      p.ChildID,
			HealthBefore: before,
			HealthAfter:  newHealth,
			DaysDry:      days,
		})

		if newHealth <= lowHealthAlertLevel && s.notifier != nil {
			if err := s.notifier.Notify(p.ChildID, "Your plant is thirsty! 💧",
				fmt.Sprintf("Its health dropped to %d. Water it today to keep it alive.", newHealth),
				notification.TypePlantLowHealth, &p.ID); err != nil {
				log.Printf("⚠️ Low-health alert failed for plant %s: %v", p.ID, err)
			}
		}
	}

	return deltas, nil
}

// isUniqueViolation reports whether err carries the Postgres duplicate-key
// code, raised when an index-level invariant rejects a write.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
