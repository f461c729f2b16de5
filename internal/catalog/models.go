package catalog

import (
	"plantgarden/internal/common"
)

// PlantType - catalog reference data, immutable after creation.
type PlantType struct {
	common.BaseModel
	Name         string            `json:"name" gorm:"not null;size:100;uniqueIndex"`
	GrowthStages int               `json:"growth_stages" gorm:"not null"` // >= 1
	Difficulty   common.Difficulty `json:"difficulty" gorm:"not null;size:20"`
	Category     string            `json:"category" gorm:"size:50"`
	Rarity       common.Rarity     `json:"rarity" gorm:"not null;size:20;default:'COMMON'"`

	// Basic types can always be started; non-basic ones come from draws and
	// may additionally require a lifetime completed-plant count.
	IsBasic           bool `json:"is_basic" gorm:"not null;default:false"`
	UnlockRequirement *int `json:"unlock_requirement,omitempty"`

	Description string `json:"description,omitempty" gorm:"type:text"`
	ImagePrefix string `json:"image_prefix" gorm:"size:100"`
}

func (PlantType) TableName() string {
	return "garden.plant_types"
}

// IsLockedFor reports whether a child with the given lifetime completed-plant
// count may not yet start this type.
func (pt *PlantType) IsLockedFor(totalCompletedPlants int) bool {
	if pt.IsBasic {
		return false
	}
	if pt.UnlockRequirement == nil {
		return false
	}
	return totalCompletedPlants < *pt.UnlockRequirement
}
