package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pairup/internal/services"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// Verify reports whether an invite code can currently be used, with the
// exact reason when it cannot. Public: registration forms call this before
// submitting.
// GET /api/invites/verify?code=...
func (h *InviteHandler) Verify(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	invite, err := h.inviteService.Verify(c.Request.Context(), code, time.Now())
	if err != nil {
		reason := verifyReason(err)
		if reason == "" {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"valid":  false,
			"reason": reason,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"remaining_uses": invite.Remaining(),
	})
}

// verifyReason names the verification failure, or "" for errors that are not
// verification outcomes.
func verifyReason(err error) string {
	switch {
	case errors.Is(err, services.ErrInviteNotFound):
		return "not_found"
	case errors.Is(err, services.ErrInviteDeactivated):
		return "deactivated"
	case errors.Is(err, services.ErrInviteExpired):
		return "expired"
	case errors.Is(err, services.ErrInviteExhausted):
		return "exhausted"
	}
	return ""
}
