package draw

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantgarden/internal/catalog"
	"plantgarden/internal/common"
	"plantgarden/internal/profile"
)

// ExperienceSink consumes the duplicate-draw event inside the draw's
// transaction. Implemented by the plant lifecycle manager; the draw engine
// never reaches into plant internals directly.
type ExperienceSink interface {
	AddExperienceToCurrentPlant(tx *gorm.DB, childID uuid.UUID, amount int) (bool, error)
}

// DuplicateDraw is the domain event recorded when a draw lands on an
// already-owned plant type.
type DuplicateDraw struct {
	ChildID     uuid.UUID `json:"child_id"`
	PlantTypeID uuid.UUID `json:"plant_type_id"`
	Experience  int       `json:"experience"`
}

// DrawResult is returned by DrawRandomPlant.
type DrawResult struct {
	PlantType         *catalog.PlantType `json:"plant_type"`
	PackType          common.TicketType  `json:"pack_type"`
	IsDuplicate       bool               `json:"is_duplicate"`
	ExperienceGained  int                `json:"experience_gained,omitempty"`
	ExperienceApplied bool               `json:"experience_applied"`
	NewQuantity       int                `json:"new_quantity,omitempty"`
}

type Service struct {
	db      *gorm.DB
	catalog *catalog.Service
	plants  ExperienceSink
	tables  map[common.TicketType]RarityTable

	// rand.Rand is not safe for concurrent use; draws from parallel requests
	// serialize on rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(db *gorm.DB, catalogSvc *catalog.Service, plants ExperienceSink) *Service {
	return &Service{
		db:      db,
		catalog: catalogSvc,
		plants:  plants,
		tables:  PackRarityTables,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRandSource replaces the draw randomness, used by deterministic tests.
func (s *Service) SetRandSource(src rand.Source) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rand.New(src)
}

func (s *Service) rollFloat() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

func (s *Service) rollIntn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// DrawRandomPlant opens one pack: pick a rarity from the pack's table, pick a
// type uniformly inside the bucket, then either grant the type to the
// inventory or convert the duplicate into plant experience. Everything,
// including the history row, commits in one transaction.
func (s *Service) DrawRandomPlant(childID uuid.UUID, packType string) (*DrawResult, error) {
	pack, err := NormalizePackType(packType)
	if err != nil {
		return nil, err
	}

	var result *DrawResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var child profile.Child
		if err := tx.First(&child, "id = ?", childID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NewError(common.ErrNotFound, "child %s not found", childID)
			}
			return fmt.Errorf("failed to get child: %w", err)
		}

		rarity := PickRarity(s.tables[pack], s.rollFloat()*100)

		candidates, err := s.catalog.ListDrawableByRarity(tx, rarity)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return common.NewError(common.ErrNotFound, "no drawable plant types of rarity %s", rarity)
		}
		chosen := candidates[s.rollIntn(len(candidates))]

		var entry PlantInventory
		findErr := tx.Where("child_id = ? AND plant_type_id = ?", childID, chosen.ID).First(&entry).Error

		history := PlantDrawHistory{
			ChildID:     childID,
			PlantTypeID: chosen.ID,
			PackType:    pack,
		}

		switch {
		case findErr == nil:
			// Duplicate - the type stays at its quantity and the draw turns
			// into experience for the current plant instead.
			event := DuplicateDraw{
				ChildID:     childID,
				PlantTypeID: chosen.ID,
				Experience:  DuplicateExperience[chosen.Rarity],
			}
			applied, err := s.plants.AddExperienceToCurrentPlant(tx, event.ChildID, event.Experience)
			if err != nil {
				return err
			}

			history.IsDuplicate = true
			history.ExperienceGained = event.Experience
			result = &DrawResult{
				PlantType:         &chosen,
				PackType:          pack,
				IsDuplicate:       true,
				ExperienceGained:  event.Experience,
				ExperienceApplied: applied,
				NewQuantity:       entry.Quantity,
			}

		case findErr == gorm.ErrRecordNotFound:
			newEntry := PlantInventory{
				ChildID:     childID,
				PlantTypeID: chosen.ID,
				Quantity:    1,
			}
			if err := tx.Create(&newEntry).Error; err != nil {
				return fmt.Errorf("failed to create inventory entry: %w", err)
			}
			result = &DrawResult{
				PlantType:   &chosen,
				PackType:    pack,
				IsDuplicate: false,
				NewQuantity: newEntry.Quantity,
			}

		default:
			return fmt.Errorf("failed to check inventory: %w", findErr)
		}

		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record draw history: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveFromInventory deletes an inventory entry outright, whatever its
// quantity.
func (s *Service) RemoveFromInventory(childID, plantTypeID uuid.UUID) error {
	result := s.db.Where("child_id = ? AND plant_type_id = ?", childID, plantTypeID).Delete(&PlantInventory{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove inventory entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.NewError(common.ErrNotFound, "plant type %s is not in the inventory", plantTypeID)
	}
	return nil
}

// GetPlantInventory returns the child's owned types with catalog data,
// newest acquisition first.
func (s *Service) GetPlantInventory(childID uuid.UUID) ([]PlantInventory, error) {
	var entries []PlantInventory
	if err := s.db.Preload("PlantType").Where("child_id = ?", childID).Order("acquired_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return entries, nil
}

// GetDrawHistory returns the child's draws, newest first.
func (s *Service) GetDrawHistory(childID uuid.UUID, limit int) ([]PlantDrawHistory, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var history []PlantDrawHistory
	if err := s.db.Preload("PlantType").Where("child_id = ?", childID).Order("created_at DESC").Limit(limit).Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to get draw history: %w", err)
	}
	return history, nil
}

// MarkLatestDrawTicketUsed back-fills the most recent history row for the
// given plant type with the spent ticket. Heuristic correlation - concurrent
// draws for the same child can attribute the ticket to a neighbouring row.
func (s *Service) MarkLatestDrawTicketUsed(childID, plantTypeID uuid.UUID, ticketType common.TicketType) error {
	var latest PlantDrawHistory
	if err := s.db.Where("child_id = ? AND plant_type_id = ?", childID, plantTypeID).
		Order("created_at DESC").First(&latest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to find draw history row: %w", err)
	}

	updates := map[string]interface{}{
		"ticket_used": true,
		"ticket_type": ticketType,
	}
	if err := s.db.Model(&latest).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to back-fill ticket usage: %w", err)
	}
	return nil
}
