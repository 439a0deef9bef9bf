package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"pairup/internal/apperrors"
	"pairup/internal/models"
	"pairup/internal/repository"
)

func TestFileReport(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db)
	ctx := context.Background()

	reporter := createTestUser(t, db, "reporter@test.dev", models.CategoryMale)
	reported := createTestUser(t, db, "reported@test.dev", models.CategoryMale)

	report, err := service.File(ctx, reporter.ID, models.FileReportRequest{
		ReportedID:  reported.ID,
		Reason:      "no-show",
		Description: "missed three check-ins in a row",
	})
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if report.Status != models.ReportStatusPending {
		t.Errorf("expected pending status, got %s", report.Status)
	}
	if report.PartnershipID != nil {
		t.Errorf("expected no partnership reference, got %v", report.PartnershipID)
	}

	// 1. Reason is mandatory
	_, err = service.File(ctx, reporter.ID, models.FileReportRequest{ReportedID: reported.ID, Reason: "  "})
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for blank reason, got %v", err)
	}

	// 2. Self-reports are rejected
	_, err = service.File(ctx, reporter.ID, models.FileReportRequest{ReportedID: reporter.ID, Reason: "x"})
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for self-report, got %v", err)
	}

	// 3. The reported user must exist
	_, err = service.File(ctx, reporter.ID, models.FileReportRequest{ReportedID: 99999, Reason: "x"})
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}
}

func TestFileReportWithPartnership(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db)
	partnerships := NewPartnershipService(repository.NewRepository(db))
	ctx := context.Background()

	reporter := createTestUser(t, db, "wp-reporter@test.dev", models.CategoryMale)
	reported := createTestUser(t, db, "wp-reported@test.dev", models.CategoryMale)
	start, end := termDates()

	p, err := partnerships.Create(ctx, reporter.ID, reported.ID, start, end)
	if err != nil {
		t.Fatalf("Create partnership failed: %v", err)
	}

	report, err := service.File(ctx, reporter.ID, models.FileReportRequest{
		ReportedID:    reported.ID,
		PartnershipID: p.ID.String(),
		Reason:        "harassment",
	})
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if report.PartnershipID == nil || *report.PartnershipID != p.ID {
		t.Errorf("expected partnership %s referenced, got %v", p.ID, report.PartnershipID)
	}

	// 1. A malformed partnership id is a validation failure
	_, err = service.File(ctx, reporter.ID, models.FileReportRequest{
		ReportedID:    reported.ID,
		PartnershipID: "not-a-uuid",
		Reason:        "x",
	})
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for bad uuid, got %v", err)
	}

	// 2. A well-formed but unknown partnership is not found
	_, err = service.File(ctx, reporter.ID, models.FileReportRequest{
		ReportedID:    reported.ID,
		PartnershipID: uuid.New().String(),
		Reason:        "x",
	})
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for unknown partnership, got %v", err)
	}
}

func TestReportLifecycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db)
	ctx := context.Background()

	reporter := createTestUser(t, db, "lc-reporter@test.dev", models.CategoryMale)
	reported := createTestUser(t, db, "lc-reported@test.dev", models.CategoryMale)

	report, err := service.File(ctx, reporter.ID, models.FileReportRequest{ReportedID: reported.ID, Reason: "spam"})
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	// 1. pending cannot jump straight to resolved
	_, err = service.Transition(ctx, report.ID, models.ReportStatusResolved, "")
	if !apperrors.IsInvalidState(err) {
		t.Errorf("expected invalid state for pending -> resolved, got %v", err)
	}

	// 2. pending -> investigating
	got, err := service.Transition(ctx, report.ID, models.ReportStatusInvestigating, "")
	if err != nil {
		t.Fatalf("Transition to investigating failed: %v", err)
	}
	if got.Status != models.ReportStatusInvestigating {
		t.Errorf("expected investigating, got %s", got.Status)
	}

	// 3. No way back to pending
	_, err = service.Transition(ctx, report.ID, models.ReportStatusPending, "")
	if !apperrors.IsInvalidState(err) {
		t.Errorf("expected invalid state for investigating -> pending, got %v", err)
	}

	// 4. investigating -> resolved, carrying the reviewer's note
	got, err = service.Transition(ctx, report.ID, models.ReportStatusResolved, "partnership cancelled")
	if err != nil {
		t.Fatalf("Transition to resolved failed: %v", err)
	}
	if got.Status != models.ReportStatusResolved {
		t.Errorf("expected resolved, got %s", got.Status)
	}
	if got.ResolutionNote != "partnership cancelled" {
		t.Errorf("expected resolution note stored, got %q", got.ResolutionNote)
	}

	// 5. resolved is final
	for _, next := range []models.ReportStatus{
		models.ReportStatusPending,
		models.ReportStatusInvestigating,
		models.ReportStatusDismissed,
	} {
		if _, err := service.Transition(ctx, report.ID, next, ""); !apperrors.IsInvalidState(err) {
			t.Errorf("expected invalid state for resolved -> %s, got %v", next, err)
		}
	}
}

func TestReportDismissal(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db)
	ctx := context.Background()

	reporter := createTestUser(t, db, "dm-reporter@test.dev", models.CategoryMale)
	reported := createTestUser(t, db, "dm-reported@test.dev", models.CategoryMale)

	// pending -> dismissed is a legal shortcut
	r1, err := service.File(ctx, reporter.ID, models.FileReportRequest{ReportedID: reported.ID, Reason: "a"})
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	got, err := service.Transition(ctx, r1.ID, models.ReportStatusDismissed, "no evidence")
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if got.Status != models.ReportStatusDismissed {
		t.Errorf("expected dismissed, got %s", got.Status)
	}

	// investigating -> dismissed works as well
	r2, err := service.File(ctx, reporter.ID, models.FileReportRequest{ReportedID: reported.ID, Reason: "b"})
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if _, err := service.Transition(ctx, r2.ID, models.ReportStatusInvestigating, ""); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if _, err := service.Transition(ctx, r2.ID, models.ReportStatusDismissed, ""); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	// Dismissed reports accept nothing further
	if _, err := service.Transition(ctx, r1.ID, models.ReportStatusInvestigating, ""); !apperrors.IsInvalidState(err) {
		t.Errorf("expected invalid state for dismissed report, got %v", err)
	}
}

func TestReportTransitionValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db)
	ctx := context.Background()

	// Unknown status string
	_, err := service.Transition(ctx, uuid.New(), models.ReportStatus("archived"), "")
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}

	// Unknown report
	_, err = service.Transition(ctx, uuid.New(), models.ReportStatusInvestigating, "")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for unknown report, got %v", err)
	}
}

func TestListReports(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db)
	ctx := context.Background()

	r1 := createTestUser(t, db, "la-1@test.dev", models.CategoryMale)
	r2 := createTestUser(t, db, "la-2@test.dev", models.CategoryMale)

	first, err := service.File(ctx, r1.ID, models.FileReportRequest{ReportedID: r2.ID, Reason: "one"})
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if _, err := service.File(ctx, r2.ID, models.FileReportRequest{ReportedID: r1.ID, Reason: "two"}); err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if _, err := service.Transition(ctx, first.ID, models.ReportStatusInvestigating, ""); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	// 1. Unfiltered list sees everything
	all, total, err := service.ListAll(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("expected 2 reports, got total %d len %d", total, len(all))
	}

	// 2. Status filter narrows it
	pending, total, err := service.ListAll(ctx, models.ReportStatusPending, 10, 0)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if total != 1 || len(pending) != 1 {
		t.Errorf("expected 1 pending report, got total %d len %d", total, len(pending))
	}
	if pending[0].Reason != "two" {
		t.Errorf("expected the pending report, got %q", pending[0].Reason)
	}

	// 3. Garbage filters are rejected
	if _, _, err := service.ListAll(ctx, models.ReportStatus("junk"), 10, 0); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for junk status, got %v", err)
	}

	// 4. Per-reporter view
	mine, err := service.ListForReporter(ctx, r1.ID)
	if err != nil {
		t.Fatalf("ListForReporter failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Errorf("expected only the first report, got %d entries", len(mine))
	}

	// 5. Counts grouped by status
	counts, err := service.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[models.ReportStatusPending] != 1 || counts[models.ReportStatusInvestigating] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
