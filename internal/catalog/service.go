package catalog

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantgarden/internal/common"
)

// Service is the read-only catalog repository. Mutation is limited to the
// idempotent seed operation; everything else only reads.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetByID loads a plant type inside the caller's transaction.
func (s *Service) GetByID(tx *gorm.DB, plantTypeID uuid.UUID) (*PlantType, error) {
	var pt PlantType
	if err := tx.First(&pt, "id = ?", plantTypeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NewError(common.ErrNotFound, "plant type %s not found", plantTypeID)
		}
		return nil, fmt.Errorf("failed to get plant type: %w", err)
	}
	return &pt, nil
}

// ListAll returns the whole catalog ordered by rarity bucket then name.
func (s *Service) ListAll() ([]PlantType, error) {
	var types []PlantType
	if err := s.db.Order("rarity, name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list plant types: %w", err)
	}
	return types, nil
}

// ListDrawableByRarity returns the non-basic types of one rarity bucket.
// Basic types are starter plants and never come out of packs.
func (s *Service) ListDrawableByRarity(tx *gorm.DB, rarity common.Rarity) ([]PlantType, error) {
	var types []PlantType
	if err := tx.Where("rarity = ? AND is_basic = false", rarity).Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list plant types by rarity: %w", err)
	}
	return types, nil
}

// ListUnlockedFor returns the types a child with the given lifetime
// completed-plant count may start: every basic type plus the non-basic ones
// whose unlock requirement is met or absent.
func (s *Service) ListUnlockedFor(totalCompletedPlants int) ([]PlantType, error) {
	var types []PlantType
	if err := s.db.Where("is_basic = true OR unlock_requirement IS NULL OR unlock_requirement <= ?", totalCompletedPlants).
		Order("rarity, name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list unlocked plant types: %w", err)
	}
	return types, nil
}

// seedPlantType describes one default catalog row.
type seedPlantType struct {
	Name         string
	GrowthStages int
	Difficulty   common.Difficulty
	Category     string
	Rarity       common.Rarity
	IsBasic      bool
	Unlock       *int
	ImagePrefix  string
}

func intPtr(v int) *int { return &v }

var defaultPlantTypes = []seedPlantType{
	{Name: "Sunflower", GrowthStages: 3, Difficulty: common.DifficultyEasy, Category: "flower", Rarity: common.RarityCommon, IsBasic: true, ImagePrefix: "sunflower"},
	{Name: "Tomato", GrowthStages: 3, Difficulty: common.DifficultyEasy, Category: "vegetable", Rarity: common.RarityCommon, IsBasic: true, ImagePrefix: "tomato"},
	{Name: "Tulip", GrowthStages: 4, Difficulty: common.DifficultyMedium, Category: "flower", Rarity: common.RarityCommon, IsBasic: true, ImagePrefix: "tulip"},
	{Name: "Strawberry", GrowthStages: 4, Difficulty: common.DifficultyMedium, Category: "fruit", Rarity: common.RarityCommon, ImagePrefix: "strawberry"},
	{Name: "Mint", GrowthStages: 3, Difficulty: common.DifficultyEasy, Category: "herb", Rarity: common.RarityCommon, ImagePrefix: "mint"},
	{Name: "Lavender", GrowthStages: 4, Difficulty: common.DifficultyMedium, Category: "herb", Rarity: common.RarityUncommon, ImagePrefix: "lavender"},
	{Name: "Blueberry", GrowthStages: 4, Difficulty: common.DifficultyMedium, Category: "fruit", Rarity: common.RarityUncommon, ImagePrefix: "blueberry"},
	{Name: "Bonsai Pine", GrowthStages: 5, Difficulty: common.DifficultyHard, Category: "tree", Rarity: common.RarityRare, Unlock: intPtr(3), ImagePrefix: "bonsai_pine"},
	{Name: "Orchid", GrowthStages: 5, Difficulty: common.DifficultyHard, Category: "flower", Rarity: common.RarityRare, ImagePrefix: "orchid"},
	{Name: "Venus Flytrap", GrowthStages: 5, Difficulty: common.DifficultyHard, Category: "exotic", Rarity: common.RarityEpic, Unlock: intPtr(5), ImagePrefix: "venus_flytrap"},
	{Name: "Cherry Blossom", GrowthStages: 6, Difficulty: common.DifficultyHard, Category: "tree", Rarity: common.RarityEpic, Unlock: intPtr(8), ImagePrefix: "cherry_blossom"},
	{Name: "Golden Mango", GrowthStages: 6, Difficulty: common.DifficultyHard, Category: "fruit", Rarity: common.RarityLegendary, Unlock: intPtr(12), ImagePrefix: "golden_mango"},
}

// CreateDefaultPlantTypes seeds the catalog. Idempotent - a row keyed by name
// is only created when missing.
func (s *Service) CreateDefaultPlantTypes() error {
	created := 0
	for _, seed := range defaultPlantTypes {
		var count int64
		if err := s.db.Model(&PlantType{}).Where("name = ?", seed.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check plant type %s: %w", seed.Name, err)
		}
		if count > 0 {
			continue
		}

		pt := PlantType{
			Name:              seed.Name,
			GrowthStages:      seed.GrowthStages,
			Difficulty:        seed.Difficulty,
			Category:          seed.Category,
			Rarity:            seed.Rarity,
			IsBasic:           seed.IsBasic,
			UnlockRequirement: seed.Unlock,
			ImagePrefix:       seed.ImagePrefix,
		}
		if err := s.db.Create(&pt).Error; err != nil {
			return fmt.Errorf("failed to seed plant type %s: %w", seed.Name, err)
		}
		created++
	}

	if created > 0 {
		log.Printf("🌱 Seeded %d default plant types", created)
	}
	return nil
}
