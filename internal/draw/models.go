package draw

import (
	"time"

	"github.com/google/uuid"

	"plantgarden/internal/catalog"
	"plantgarden/internal/common"
)

// PlantInventory - owned-but-not-started plant types obtained via draws.
// One row per (child, plant type); a quantity reaching zero deletes the row
// rather than leaving a zero entry.
type PlantInventory struct {
	common.BaseModel
	ChildID     uuid.UUID `json:"child_id" gorm:"type:uuid;not null;uniqueIndex:idx_plant_inventory_child_type"`
	PlantTypeID uuid.UUID `json:"plant_type_id" gorm:"type:uuid;not null;uniqueIndex:idx_plant_inventory_child_type"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	AcquiredAt  time.Time `json:"acquired_at" gorm:"autoCreateTime"`

	// Relationships
	PlantType *catalog.PlantType `json:"plant_type,omitempty" gorm:"foreignKey:PlantTypeID"`
}

func (PlantInventory) TableName() string {
	return "garden.plant_inventory"
}

// PlantDrawHistory - append-only log of every pack draw.
type PlantDrawHistory struct {
	common.BaseModel
	ChildID          uuid.UUID         `json:"child_id" gorm:"type:uuid;not null;index"`
	PlantTypeID      uuid.UUID         `json:"plant_type_id" gorm:"type:uuid;not null"`
	PackType         common.TicketType `json:"pack_type" gorm:"not null;size:20"`
	IsDuplicate      bool              `json:"is_duplicate" gorm:"not null;default:false"`
	ExperienceGained int               `json:"experience_gained" gorm:"not null;default:0"`

	// Back-filled when the draw was paid for with a ticket.
	TicketUsed bool               `json:"ticket_used" gorm:"not null;default:false"`
	TicketType *common.TicketType `json:"ticket_type,omitempty" gorm:"size:20"`

	// Relationships
	PlantType *catalog.PlantType `json:"plant_type,omitempty" gorm:"foreignKey:PlantTypeID"`
}

func (PlantDrawHistory) TableName() string {
	return "garden.plant_draw_history"
}
