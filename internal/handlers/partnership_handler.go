package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pairup/internal/auth"
	"pairup/internal/services"
)

type PartnershipHandler struct {
	partnershipService *services.PartnershipService
}

func NewPartnershipHandler(partnershipService *services.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{
		partnershipService: partnershipService,
	}
}

// GetActive returns the current user's active partnership, or null
// GET /api/partnership
func (h *PartnershipHandler) GetActive(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	partnership, err := h.partnershipService.GetActiveForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partnership": partnership,
	})
}

// GetHistory returns every partnership the current user was part of
// GET /api/partnership/history
func (h *PartnershipHandler) GetHistory(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset := parsePagination(c)

	partnerships, total, err := h.partnershipService.GetHistoryForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partnerships": partnerships,
		"total":        total,
	})
}

// EndEarly terminates the user's own active partnership before its end date
// POST /api/partnership/:id/end-early
func (h *PartnershipHandler) EndEarly(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partnership id"})
		return
	}

	partnership, err := h.partnershipService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Non-participants get the same answer as a missing partnership
	if !partnership.HasUser(userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "partnership not found"})
		return
	}

	updated, err := h.partnershipService.EndEarly(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partnership": updated,
	})
}
