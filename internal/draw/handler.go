package draw

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

type drawRequest struct {
	PackType string `json:"pack_type" binding:"required"`
}

// POST /api/v1/draws
func (h *Handler) DrawPlant(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pack_type is required"})
		return
	}

	result, err := h.service.DrawRandomPlant(userID.(uuid.UUID), req.PackType)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"draw":      result,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/inventory
func (h *Handler) GetInventory(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	entries, err := h.service.GetPlantInventory(userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch inventory",
			"details": err.Error(),
		})
		return
	}

	items := make([]gin.H, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		item := gin.H{
			"plant_type_id": entry.PlantTypeID,
			"quantity":      entry.Quantity,
			"acquired_at":   entry.AcquiredAt.Format(time.RFC3339),
		}
		if entry.PlantType != nil {
			item["plant_type"] = entry.PlantType
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"inventory": items,
		"total":     len(items),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// DELETE /api/v1/inventory/:plantTypeId
func (h *Handler) RemoveInventoryEntry(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	plantTypeID, err := uuid.Parse(c.Param("plantTypeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant type UUID"})
		return
	}

	if err := h.service.RemoveFromInventory(userID.(uuid.UUID), plantTypeID); err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Inventory entry removed",
	})
}

// GET /api/v1/draws/history
func (h *Handler) GetDrawHistory(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	history, err := h.service.GetDrawHistory(userID.(uuid.UUID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch draw history",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"history":   history,
		"total":     len(history),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
