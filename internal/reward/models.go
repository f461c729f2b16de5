package reward

import (
	"time"

	"github.com/google/uuid"

	"plantgarden/internal/common"
)

// Reward types used by milestone rules and the earnedFrom provenance key.
const (
	RewardVerification    = "VERIFICATION"
	RewardPlantCompletion = "PLANT_COMPLETION"
	RewardWateringStreak  = "WATERING_STREAK"
)

// Mission types advanced by engine events.
const (
	MissionDailyVerification   = "DAILY_VERIFICATION"
	MissionWeeklyVerification  = "WEEKLY_VERIFICATION"
	MissionMonthlyVerification = "MONTHLY_VERIFICATION"
	MissionPlantCompletion     = "PLANT_COMPLETION"
	MissionStreakMaintenance   = "STREAK_MAINTENANCE"
)

// DrawTicket - a pack-opening voucher. EarnedFrom is the provenance key that
// makes milestone grants idempotent: a (child, earnedFrom) pair is granted at
// most once.
type DrawTicket struct {
	common.BaseModel
	ChildID    uuid.UUID         `json:"child_id" gorm:"type:uuid;not null;index:idx_draw_tickets_child_source"`
	TicketType common.TicketType `json:"ticket_type" gorm:"not null;size:20"`
	EarnedFrom string            `json:"earned_from" gorm:"not null;size:100;index:idx_draw_tickets_child_source"`
	IsUsed     bool              `json:"is_used" gorm:"not null;default:false"`
	EarnedAt   time.Time         `json:"earned_at" gorm:"autoCreateTime"`
	UsedAt     *time.Time        `json:"used_at,omitempty"`
}

func (DrawTicket) TableName() string {
	return "reward.draw_tickets"
}

// TicketRewardRule - read-only milestone configuration. A nil ChildID means
// the rule applies to every child.
type TicketRewardRule struct {
	common.BaseModel
	ChildID       *uuid.UUID        `json:"child_id,omitempty" gorm:"type:uuid;index"`
	RewardType    string            `json:"reward_type" gorm:"not null;size:50"`
	RequiredCount int               `json:"required_count" gorm:"not null"`
	TicketType    common.TicketType `json:"ticket_type" gorm:"not null;size:20"`
	TicketCount   int               `json:"ticket_count" gorm:"not null;default:1"`
}

func (TicketRewardRule) TableName() string {
	return "reward.ticket_reward_rules"
}

// Mission - a counted goal that pays out a ticket batch once. A nil ChildID
// is a shared template applying to all children. State machine:
// ACTIVE(incomplete) -> COMPLETED when the target is reached (terminal), or
// ACTIVE -> INACTIVE when expired by the sweep.
type Mission struct {
	common.BaseModel
	ChildID     *uuid.UUID `json:"child_id,omitempty" gorm:"type:uuid;index"`
	MissionType string     `json:"mission_type" gorm:"not null;size:50;index"`
	Title       string     `json:"title" gorm:"not null;size:200"`

	TargetCount  int `json:"target_count" gorm:"not null"`
	CurrentCount int `json:"current_count" gorm:"not null;default:0"`

	TicketReward common.TicketType `json:"ticket_reward" gorm:"not null;size:20"`
	TicketCount  int               `json:"ticket_count" gorm:"not null;default:1"`

	IsActive    bool       `json:"is_active" gorm:"not null;default:true"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;default:false"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (Mission) TableName() string {
	return "reward.missions"
}
