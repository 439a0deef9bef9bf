package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pairup/internal/models"
)

type AdminService struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{
		db: db,
	}
}

// LogAdminAction records an administrative mutation in the audit trail.
// Audit failures are logged rather than propagated: the audited action
// itself has already happened.
func (s *AdminService) LogAdminAction(ctx context.Context, adminID uint, action string, resourceType string,
	resourceID *string, details map[string]interface{}) {

	adminLog := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONB(details),
	}

	if err := s.db.WithContext(ctx).Create(&adminLog).Error; err != nil {
		log.Printf("Warning: failed to record admin action %s: %v", action, err)
	}
}

// GetAdminLogs returns admin activity logs, newest first
func (s *AdminService) GetAdminLogs(ctx context.Context, limit, offset int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// GetDashboard computes the live aggregate view for the admin dashboard
func (s *AdminService) GetDashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		ReportsByStatus: make(map[models.ReportStatus]int64),
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Partnership{}).Count(&stats.TotalPartnerships).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("status = ?", models.PartnershipStatusActive).Count(&stats.ActivePartnerships).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.InviteCode{}).
		Where("is_active = ?", true).Count(&stats.ActiveInviteCodes).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status models.ReportStatus
		Count  int64
	}
	var rows []statusCount
	if err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ReportsByStatus[row.Status] = row.Count
	}

	rate, err := s.completionRate(ctx)
	if err != nil {
		return nil, err
	}
	stats.CompletionRate = rate

	return stats, nil
}

// completionRate is the share of finished partnerships that ran their full
// term, as a percentage with two decimal places
func (s *AdminService) completionRate(ctx context.Context) (decimal.Decimal, error) {
	var completed, terminal int64

	if err := s.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("status = ?", models.PartnershipStatusCompleted).
		Count(&completed).Error; err != nil {
		return decimal.Zero, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("status IN ?", []models.PartnershipStatus{
			models.PartnershipStatusCompleted,
			models.PartnershipStatusEndedEarly,
			models.PartnershipStatusCancelled,
		}).
		Count(&terminal).Error; err != nil {
		return decimal.Zero, err
	}

	if terminal == 0 {
		return decimal.Zero, nil
	}

	return decimal.NewFromInt(completed).
		Div(decimal.NewFromInt(terminal)).
		Mul(decimal.NewFromInt(100)).
		Round(2), nil
}

// GetPlatformStats returns the platform statistics snapshot for a date,
// computing and storing it on first request
func (s *AdminService) GetPlatformStats(ctx context.Context, date time.Time) (*models.PlatformStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var stats models.PlatformStats
	result := s.db.WithContext(ctx).
		Where("DATE(date) = ?", dateOnly.Format("2006-01-02")).
		First(&stats)

	if result.Error == gorm.ErrRecordNotFound {
		calculated, err := s.calculatePlatformStats(ctx, dateOnly)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Create(calculated).Error; err != nil {
			return nil, err
		}
		return calculated, nil
	}

	return &stats, result.Error
}

// calculatePlatformStats computes the snapshot aggregates for a date
func (s *AdminService) calculatePlatformStats(ctx context.Context, date time.Time) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{Date: date}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Partnership{}).Count(&stats.TotalPartnerships).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("status = ?", models.PartnershipStatusActive).Count(&stats.ActivePartnerships).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("status = ?", models.ReportStatusPending).Count(&stats.PendingReports).Error; err != nil {
		return nil, err
	}

	rate, err := s.completionRate(ctx)
	if err != nil {
		return nil, err
	}
	stats.CompletionRate = rate

	return stats, nil
}
