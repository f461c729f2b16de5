package database

import (
	"plantgarden/internal/catalog"
	"plantgarden/internal/draw"
	"plantgarden/internal/notification"
	"plantgarden/internal/plant"
	"plantgarden/internal/profile"
	"plantgarden/internal/reward"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	// Schemas used by the TableName qualifiers
	for _, schema := range []string{"family", "garden", "reward"} {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + schema).Error; err != nil {
			return err
		}
	}

	// Auto-migrate all models
	err := db.AutoMigrate(
		&profile.Child{},
		&notification.Notification{},
		// Catalog models
		&catalog.PlantType{},
		// Garden models
		&plant.Plant{},
		&plant.WateringLog{},
		&draw.PlantInventory{},
		&draw.PlantDrawHistory{},
		// Reward models
		&reward.DrawTicket{},
		&reward.TicketRewardRule{},
		&reward.Mission{},
	)

	if err != nil {
		return err
	}

	if err := createGardenIndexes(db); err != nil {
		return err
	}

	if err := createRewardIndexes(db); err != nil {
		return err
	}

	return nil
}

func createGardenIndexes(db *gorm.DB) error {
	// The store-level guard for the "one active plant per child" invariant.
	// Concurrent StartNewPlant transactions race on this index and the loser
	// fails instead of corrupting state.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_plants_one_active_per_child
		ON garden.plants (child_id)
		WHERE is_completed = false AND deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	// Index for the decay sweep over active plants
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_plants_active_last_watered
		ON garden.plants (is_completed, last_watered)
	`).Error; err != nil {
		return err
	}

	// Index for watering history per plant
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_watering_logs_plant
		ON garden.watering_logs (plant_id, watered_at DESC)
	`).Error; err != nil {
		return err
	}

	// Index for draw history per child
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_plant_draw_history_child
		ON garden.plant_draw_history (child_id, created_at DESC)
	`).Error; err != nil {
		return err
	}

	return nil
}

func createRewardIndexes(db *gorm.DB) error {
	// Index for unused-ticket lookups
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_draw_tickets_child_unused
		ON reward.draw_tickets (child_id, is_used)
	`).Error; err != nil {
		return err
	}

	// Index for milestone rule lookups
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_ticket_reward_rules_type_count
		ON reward.ticket_reward_rules (reward_type, required_count)
	`).Error; err != nil {
		return err
	}

	// Index for mission progress queries
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_missions_type_active
		ON reward.missions (mission_type, is_active, is_completed)
	`).Error; err != nil {
		return err
	}

	// Index for the mission expiry sweep
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_missions_end_date
		ON reward.missions (end_date)
		WHERE end_date IS NOT NULL
	`).Error; err != nil {
		return err
	}

	return nil
}
