package notification

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantgarden/internal/common"
)

// Notification types emitted by the reward economy engine.
const (
	TypePlantCompleted   = "PLANT_COMPLETED"
	TypePlantLowHealth   = "PLANT_LOW_HEALTH"
	TypeTicketEarned     = "TICKET_EARNED"
	TypeMissionCompleted = "MISSION_COMPLETED"
)

// Notifier is the collaborator contract towards the notification subsystem.
// Actual delivery (push/email) lives outside this engine; the default
// implementation persists the request for the delivery workers to pick up.
type Notifier interface {
	Notify(userID uuid.UUID, title, content, notifType string, relatedID *uuid.UUID) error
}

// Notification - a stored notification request.
type Notification struct {
	common.BaseModel
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string     `json:"title" gorm:"not null;size:200"`
	Content   string     `json:"content" gorm:"type:text"`
	Type      string     `json:"type" gorm:"not null;size:50"`
	RelatedID *uuid.UUID `json:"related_id,omitempty" gorm:"type:uuid"`
	IsRead    bool       `json:"is_read" gorm:"not null;default:false"`
}

func (Notification) TableName() string {
	return "family.notifications"
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Notify(userID uuid.UUID, title, content, notifType string, relatedID *uuid.UUID) error {
	n := Notification{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Type:      notifType,
		RelatedID: relatedID,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	log.Printf("🔔 Notification queued for %s: %s", userID, title)
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(userID uuid.UUID, limit int) ([]Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var notifications []Notification
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
