package profile

import (
	"time"

	"github.com/google/uuid"

	"plantgarden/internal/common"
)

// Child profile - carries the reward-state counters the engines mutate.
// Account/auth fields live in the out-of-scope auth subsystem; this model
// only maps the columns this engine owns.
type Child struct {
	common.BaseModel
	ParentID uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;index"`
	Nickname string    `json:"nickname" gorm:"not null;size:100"`

	// Reward state. All counters are monotonically non-decreasing except
	// WateringStreak, which resets to 1 on a gap.
	CurrentPlantID       *uuid.UUID `json:"current_plant_id,omitempty" gorm:"type:uuid"`
	VerificationCount    int        `json:"verification_count" gorm:"not null;default:0"`
	PlantCompletionCount int        `json:"plant_completion_count" gorm:"not null;default:0"`
	WateringStreak       int        `json:"watering_streak" gorm:"not null;default:0"`
	TotalCompletedPlants int        `json:"total_completed_plants" gorm:"not null;default:0"`

	LastVerifiedAt *time.Time `json:"last_verified_at,omitempty"`
}

func (Child) TableName() string {
	return "family.children"
}
