package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pairup/internal/apperrors"
	"pairup/internal/models"
)

// ReportService owns the safety-report review state machine. Reports are
// filed by users and moved only by administrators.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// File opens a report against another user with initial status pending
func (s *ReportService) File(ctx context.Context, reporterID uint, req models.FileReportRequest) (*models.Report, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.Validationf("reason is required")
	}
	if reporterID == req.ReportedID {
		return nil, apperrors.Validationf("cannot report yourself")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", req.ReportedID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up reported user: %w", err)
	}
	if count == 0 {
		return nil, apperrors.NotFoundf("user %d not found", req.ReportedID)
	}

	var partnershipID *uuid.UUID
	if req.PartnershipID != "" {
		id, err := uuid.Parse(req.PartnershipID)
		if err != nil {
			return nil, apperrors.Validationf("invalid partnership id %q", req.PartnershipID)
		}

		var pcount int64
		if err := s.db.WithContext(ctx).Model(&models.Partnership{}).
			Where("id = ?", id).
			Count(&pcount).Error; err != nil {
			return nil, fmt.Errorf("failed to look up partnership: %w", err)
		}
		if pcount == 0 {
			return nil, apperrors.NotFoundf("partnership %s not found", id)
		}
		partnershipID = &id
	}

	report := &models.Report{
		ID:            uuid.New(),
		ReporterID:    reporterID,
		ReportedID:    req.ReportedID,
		PartnershipID: partnershipID,
		Reason:        req.Reason,
		Description:   req.Description,
		Status:        models.ReportStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	log.Printf("Report %s filed by user %d against user %d", report.ID, reporterID, req.ReportedID)
	return report, nil
}

// Transition moves a report along the review state machine. Legal moves are
// pending to investigating or dismissed, and investigating to resolved or
// dismissed; resolved and dismissed are final.
func (s *ReportService) Transition(ctx context.Context, id uuid.UUID, next models.ReportStatus, resolutionNote string) (*models.Report, error) {
	if !next.Valid() {
		return nil, apperrors.Validationf("unknown report status %q", next)
	}

	var report models.Report
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NotFoundf("report %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	if !report.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidStatef("report %s cannot move from %s to %s", id, report.Status, next)
	}

	updates := map[string]interface{}{"status": next}
	if resolutionNote != "" {
		updates["resolution_note"] = resolutionNote
	}

	// Guard the update on the observed status so two reviewers racing the
	// same report cannot both win
	result := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, report.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidStatef("report %s changed state concurrently", id)
	}

	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to reload report: %w", err)
	}

	log.Printf("Report %s transitioned to %s", id, next)
	return &report, nil
}

// ListAll retrieves reports with total count, optionally filtered by status,
// newest first
func (s *ReportService) ListAll(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperrors.Validationf("unknown report status %q", status)
	}

	countQuery := s.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := s.db.WithContext(ctx)
	if status != "" {
		listQuery = listQuery.Where("status = ?", status)
	}

	var reports []*models.Report
	err := listQuery.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// ListForReporter retrieves the reports a user has filed, newest first
func (s *ReportService) ListForReporter(ctx context.Context, reporterID uint) ([]*models.Report, error) {
	var reports []*models.Report
	err := s.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// CountByStatus returns report counts grouped by status
func (s *ReportService) CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error) {
	type statusCount struct {
		Status models.ReportStatus
		Count  int64
	}

	var rows []statusCount
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ReportStatus]int64)
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
