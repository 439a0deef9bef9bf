package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pairup/internal/auth"
	"pairup/internal/models"
	"pairup/internal/services"
)

type ExclusionHandler struct {
	exclusionService *services.ExclusionService
}

func NewExclusionHandler(exclusionService *services.ExclusionService) *ExclusionHandler {
	return &ExclusionHandler{
		exclusionService: exclusionService,
	}
}

// List returns the current user's exclusions
// GET /api/exclusions
func (h *ExclusionHandler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	exclusions, err := h.exclusionService.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exclusions": exclusions,
	})
}

// Add records a user the current user never wants to be matched with
// POST /api/exclusions
func (h *ExclusionHandler) Add(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.AddExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exclusion, err := h.exclusionService.AddExclusion(c.Request.Context(), userID, req.ExcludedID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"exclusion": exclusion,
	})
}

// Remove deletes one of the current user's exclusions
// DELETE /api/exclusions/:id
func (h *ExclusionHandler) Remove(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclusion id"})
		return
	}

	if err := h.exclusionService.RemoveExclusion(c.Request.Context(), uint(id), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Exclusion removed",
	})
}
