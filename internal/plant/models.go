package plant

import (
	"time"

	"github.com/google/uuid"

	"plantgarden/internal/catalog"
	"plantgarden/internal/common"
)

// Plant - a child's in-progress (or completed) plant. A child has at most one
// plant with IsCompleted=false at any time; StartNewPlant enforces this inside
// its transaction.
type Plant struct {
	common.BaseModel
	ChildID     uuid.UUID `json:"child_id" gorm:"type:uuid;not null;index"`
	PlantTypeID uuid.UUID `json:"plant_type_id" gorm:"type:uuid;not null"`
	Name        *string   `json:"name,omitempty" gorm:"size:100"`

	CurrentStage     int  `json:"current_stage" gorm:"not null;default:1"`
	Health           int  `json:"health" gorm:"not null;default:100"` // 0-100
	Experience       int  `json:"experience" gorm:"not null;default:0"`
	ExperienceToGrow int  `json:"experience_to_grow" gorm:"not null"`
	CanGrow          bool `json:"can_grow" gorm:"not null;default:false"`

	LastWatered *time.Time `json:"last_watered,omitempty"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;default:false;index"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relationships
	PlantType *catalog.PlantType `json:"plant_type,omitempty" gorm:"foreignKey:PlantTypeID"`
}

func (Plant) TableName() string {
	return "garden.plants"
}

// WateringLog - append-only audit trail, one row per successful watering.
type WateringLog struct {
	common.BaseModel
	PlantID    uuid.UUID `json:"plant_id" gorm:"type:uuid;not null;index"`
	WateredAt  time.Time `json:"watered_at" gorm:"not null"`
	HealthGain int       `json:"health_gain" gorm:"not null"`
}

func (WateringLog) TableName() string {
	return "garden.watering_logs"
}
