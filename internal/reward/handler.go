package reward

import (
	"net/http"
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

// GET /api/v1/tickets
func (h *Handler) ListTickets(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	includeUsed := c.DefaultQuery("include_used", "false") == "true"

	tickets, err := h.service.ListTickets(userID.(uuid.UUID), includeUsed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch tickets",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"tickets":   tickets,
		"total":     len(tickets),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// POST /api/v1/tickets/:id/draw
func (h *Handler) UseTicket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket UUID"})
		return
	}

	result, err := h.service.UseTicketForDraw(userID.(uuid.UUID), ticketID)
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

// GET /api/v1/missions
func (h *Handler) ListMissions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	missions, err := h.service.ListMissions(userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch missions",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"missions":  missions,
		"total":     len(missions),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type hookRequest struct {
	ChildID string `json:"child_id" binding:"required"`
}

// POST /api/v1/hooks/verification-complete
// Invoked by the promise/verification subsystem once per approved
// verification.
func (h *Handler) VerificationCompleteHook(c *gin.Context) {
	var req hookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "child_id is required"})
		return
	}

	childID, err := uuid.Parse(req.ChildID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child UUID"})
		return
	}

	if err := h.service.HandleVerificationComplete(childID); err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/v1/hooks/plant-complete
func (h *Handler) PlantCompleteHook(c *gin.Context) {
	var req hookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "child_id is required"})
		return
	}

	childID, err := uuid.Parse(req.ChildID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child UUID"})
		return
	}

	if err := h.service.HandlePlantComplete(childID); err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
