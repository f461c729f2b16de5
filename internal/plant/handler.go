package plant

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantgarden/internal/common"
)

type Handler struct {
	db      *gorm.DB
	service *Service
}

func NewHandler(db *gorm.DB, service *Service) *Handler {
	return &Handler{db: db, service: service}
}

type startPlantRequest struct {
	PlantTypeID string  `json:"plant_type_id" binding:"required"`
	Name        *string `json:"name,omitempty"`
}

// POST /api/v1/plants
func (h *Handler) StartPlant(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var req startPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plant_type_id is required"})
		return
	}

	plantTypeID, err := uuid.Parse(req.PlantTypeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant type UUID"})
		return
	}

	p, err := h.service.StartNewPlant(userID.(uuid.UUID), plantTypeID, req.Name)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"plant":     p,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/plants/current
func (h *Handler) GetCurrentPlant(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	p, err := h.service.GetCurrentPlant(userID.(uuid.UUID))
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	progress := 0
	if p.ExperienceToGrow > 0 {
		progress = p.Experience * 100 / p.ExperienceToGrow
		if progress > 100 {
			progress = 100
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"plant":           p,
		"growth_progress": progress,
		"watered_today":   p.LastWatered != nil && SameCalendarDay(*p.LastWatered, time.Now()),
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

// POST /api/v1/plants/:id/water
func (h *Handler) WaterPlant(c *gin.Context) {
	plantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant UUID"})
		return
	}

	result, err := h.service.WaterPlant(plantID)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"plant":           result.Plant,
		"watering_log":    result.Log,
		"watering_streak": result.WateringStreak,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

type addExperienceRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// POST /api/v1/plants/:id/experience
// Entry point for the promise/verification subsystem to reward a specific
// plant directly.
func (h *Handler) AddExperience(c *gin.Context) {
	plantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant UUID"})
		return
	}

	var req addExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive integer"})
		return
	}

	p, err := h.service.AddExperience(plantID, req.Amount)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"plant":     p,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// POST /api/v1/plants/:id/grow
func (h *Handler) AdvancePlantStage(c *gin.Context) {
	plantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant UUID"})
		return
	}

	result, err := h.service.AdvancePlantStage(plantID)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"plant":        result.Plant,
		"is_max_stage": result.IsMaxStage,
		"is_completed": result.IsCompleted,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/plants/:id/watering-logs
func (h *Handler) GetWateringLogs(c *gin.Context) {
	plantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant UUID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	logs, err := h.service.GetWateringLogs(plantID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch watering logs",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"logs":      logs,
		"total":     len(logs),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
