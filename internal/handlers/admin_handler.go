package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pairup/internal/auth"
	"pairup/internal/models"
	"pairup/internal/services"
)

type AdminHandler struct {
	adminService       *services.AdminService
	matchingService    *services.MatchingService
	partnershipService *services.PartnershipService
	inviteService      *services.InviteService
	reportService      *services.ReportService
	userService        *services.UserService
}

func NewAdminHandler(
	adminService *services.AdminService,
	matchingService *services.MatchingService,
	partnershipService *services.PartnershipService,
	inviteService *services.InviteService,
	reportService *services.ReportService,
	userService *services.UserService,
) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		matchingService:    matchingService,
		partnershipService: partnershipService,
		inviteService:      inviteService,
		reportService:      reportService,
		userService:        userService,
	}
}

func resourceRef(s string) *string {
	return &s
}

// RunMatching triggers one matching cycle over the eligible population
// POST /api/admin/matching/run
func (h *AdminHandler) RunMatching(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentDate := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		currentDate = parsed
	}

	partnerships, err := h.matchingService.RunMatchingCycle(c.Request.Context(), currentDate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "RUN_MATCHING", "MATCHING", nil, map[string]interface{}{
		"date":    currentDate.Format("2006-01-02"),
		"created": len(partnerships),
	})

	c.JSON(http.StatusOK, gin.H{
		"created":      len(partnerships),
		"partnerships": partnerships,
	})
}

// SweepPartnerships completes every active partnership past its end date
// POST /api/admin/partnerships/sweep
func (h *AdminHandler) SweepPartnerships(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	completed, err := h.partnershipService.CompleteExpired(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "SWEEP_PARTNERSHIPS", "PARTNERSHIP", nil, map[string]interface{}{
		"completed": completed,
	})

	c.JSON(http.StatusOK, gin.H{
		"completed": completed,
	})
}

// GetActivePartnerships lists currently active partnerships
// GET /api/admin/partnerships/active
func (h *AdminHandler) GetActivePartnerships(c *gin.Context) {
	limit, offset := parsePagination(c)

	partnerships, total, err := h.partnershipService.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partnerships": partnerships,
		"total":        total,
	})
}

// CancelPartnership voids a partnership
// POST /api/admin/partnerships/:id/cancel
func (h *AdminHandler) CancelPartnership(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partnership id"})
		return
	}

	partnership, err := h.partnershipService.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "CANCEL_PARTNERSHIP", "PARTNERSHIP", resourceRef(id.String()), nil)

	c.JSON(http.StatusOK, gin.H{
		"partnership": partnership,
	})
}

// CompletePartnership marks a partnership as having run its term
// POST /api/admin/partnerships/:id/complete
func (h *AdminHandler) CompletePartnership(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partnership id"})
		return
	}

	partnership, err := h.partnershipService.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "COMPLETE_PARTNERSHIP", "PARTNERSHIP", resourceRef(id.String()), nil)

	c.JSON(http.StatusOK, gin.H{
		"partnership": partnership,
	})
}

// IssueInvite mints a new registration code
// POST /api/admin/invites
func (h *AdminHandler) IssueInvite(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	var req models.IssueInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.inviteService.Issue(c.Request.Context(), adminID, req.MaxUses, req.ExpiresAt)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "ISSUE_INVITE", "INVITE_CODE", resourceRef(invite.Code), map[string]interface{}{
		"max_uses": invite.MaxUses,
	})

	c.JSON(http.StatusCreated, gin.H{
		"invite": invite,
	})
}

// ListInvites lists issued invite codes
// GET /api/admin/invites
func (h *AdminHandler) ListInvites(c *gin.Context) {
	limit, offset := parsePagination(c)

	invites, total, err := h.inviteService.ListCodes(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": invites,
		"total":   total,
	})
}

// DeactivateInvite turns an invite code off for good
// POST /api/admin/invites/:code/deactivate
func (h *AdminHandler) DeactivateInvite(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	code := c.Param("code")

	invite, err := h.inviteService.Deactivate(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "DEACTIVATE_INVITE", "INVITE_CODE", resourceRef(code), nil)

	c.JSON(http.StatusOK, gin.H{
		"invite": invite,
	})
}

// ListReports lists filed reports, optionally filtered by status
// GET /api/admin/reports?status=pending
func (h *AdminHandler) ListReports(c *gin.Context) {
	limit, offset := parsePagination(c)
	status := models.ReportStatus(c.Query("status"))

	reports, total, err := h.reportService.ListAll(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
	})
}

// TransitionReport moves a report along the review state machine
// POST /api/admin/reports/:id/transition
func (h *AdminHandler) TransitionReport(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req models.TransitionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.Transition(c.Request.Context(), id, models.ReportStatus(req.Status), req.ResolutionNote)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "TRANSITION_REPORT", "REPORT", resourceRef(id.String()), map[string]interface{}{
		"status": req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"report": report,
	})
}

// GetDashboard returns the live aggregates plus recent admin activity
// GET /api/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	recentLogs, err := h.adminService.GetAdminLogs(c.Request.Context(), 10, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"recent_logs": recentLogs,
	})
}

// GetPlatformStats returns the daily statistics snapshot
// GET /api/admin/stats?date=2025-08-25
func (h *AdminHandler) GetPlatformStats(c *gin.Context) {
	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	stats, err := h.adminService.GetPlatformStats(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// GetUsers lists users
// GET /api/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, offset := parsePagination(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// DeactivateUser removes a user from future matching cycles
// POST /api/admin/users/:id/deactivate
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userService.SetActive(c.Request.Context(), uint(id), false)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adminService.LogAdminAction(c.Request.Context(), adminID, "DEACTIVATE_USER", "USER", resourceRef(c.Param("id")), nil)

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// GetLogs returns the admin audit trail
// GET /api/admin/logs
func (h *AdminHandler) GetLogs(c *gin.Context) {
	limit, offset := parsePagination(c)

	logs, err := h.adminService.GetAdminLogs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
	})
}
