package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantgarden/internal/common"
	"plantgarden/internal/profile"
)

type Handler struct {
	db      *gorm.DB
	service *Service
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, service: NewService(db)}
}

// GET /api/v1/plant-types
func (h *Handler) ListPlantTypes(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// Lock state is per child, so it is computed at read time rather than
	// stored on the catalog row.
	var child profile.Child
	totalCompleted := 0
	if err := h.db.First(&child, "id = ?", userID).Error; err == nil {
		totalCompleted = child.TotalCompletedPlants
	}

	var types []PlantType
	var err error
	if c.DefaultQuery("unlocked_only", "false") == "true" {
		types, err = h.service.ListUnlockedFor(totalCompleted)
	} else {
		types, err = h.service.ListAll()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch plant types",
			"details": err.Error(),
		})
		return
	}

	items := make([]gin.H, 0, len(types))
	for i := range types {
		pt := &types[i]
		items = append(items, gin.H{
			"id":                 pt.ID,
			"name":               pt.Name,
			"growth_stages":      pt.GrowthStages,
			"difficulty":         pt.Difficulty,
			"category":           pt.Category,
			"rarity":             pt.Rarity,
			"is_basic":           pt.IsBasic,
			"unlock_requirement": pt.UnlockRequirement,
			"image_prefix":       pt.ImagePrefix,
			"is_locked":          pt.IsLockedFor(totalCompleted),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"plant_types": items,
		"total":       len(items),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/plant-types/:id
func (h *Handler) GetPlantType(c *gin.Context) {
	typeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant type UUID"})
		return
	}

	pt, err := h.service.GetByID(h.db, typeID)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"plant_type": pt,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
