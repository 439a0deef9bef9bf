package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pairup/internal/apperrors"
	"pairup/internal/models"
)

func TestIssueInviteCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()

	// 1. Default max uses when the caller passes zero
	invite, err := service.Issue(ctx, 1, 0, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if invite.MaxUses != 1 {
		t.Errorf("expected default max uses 1, got %d", invite.MaxUses)
	}
	if !invite.IsActive {
		t.Error("expected issued code to be active")
	}
	if invite.CurrentUses != 0 {
		t.Errorf("expected current uses 0, got %d", invite.CurrentUses)
	}
	if len(invite.Code) != 12 {
		t.Errorf("expected code length 12, got %d (%s)", len(invite.Code), invite.Code)
	}

	// 2. Explicit max uses wins over the default
	multi, err := service.Issue(ctx, 1, 5, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if multi.MaxUses != 5 {
		t.Errorf("expected max uses 5, got %d", multi.MaxUses)
	}
	if multi.Code == invite.Code {
		t.Errorf("expected distinct codes, both got %s", multi.Code)
	}

	// 3. Expiry must be in the future
	past := time.Now().Add(-time.Hour)
	if _, err := service.Issue(ctx, 1, 1, &past); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for past expiry, got %v", err)
	}
}

func TestVerifyInviteCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()
	now := time.Now()

	// 1. Unknown code
	if _, err := service.Verify(ctx, "NOSUCHCODE", now); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("expected ErrInviteNotFound, got %v", err)
	}

	// 2. Usable code reports remaining uses
	invite, err := service.Issue(ctx, 1, 3, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	got, err := service.Verify(ctx, invite.Code, now)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got.Remaining() != 3 {
		t.Errorf("expected 3 remaining uses, got %d", got.Remaining())
	}

	// 3. Deactivated code
	if _, err := service.Deactivate(ctx, invite.Code); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if _, err := service.Verify(ctx, invite.Code, now); !errors.Is(err, ErrInviteDeactivated) {
		t.Errorf("expected ErrInviteDeactivated, got %v", err)
	}

	// 4. Expired code: issued with a future expiry, verified after it
	expiry := now.Add(time.Hour)
	expiring, err := service.Issue(ctx, 1, 1, &expiry)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := service.Verify(ctx, expiring.Code, now.Add(2*time.Hour)); !errors.Is(err, ErrInviteExpired) {
		t.Errorf("expected ErrInviteExpired, got %v", err)
	}
	// Still fine before the deadline
	if _, err := service.Verify(ctx, expiring.Code, now); err != nil {
		t.Errorf("expected code valid before expiry, got %v", err)
	}

	// 5. Exhausted code. A spent single-use code is also inactive, but
	// exhaustion is the reported reason.
	spent, err := service.Issue(ctx, 1, 1, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := service.Consume(ctx, spent.Code, 42); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if _, err := service.Verify(ctx, spent.Code, now); !errors.Is(err, ErrInviteExhausted) {
		t.Errorf("expected ErrInviteExhausted, got %v", err)
	}
}

func TestConsumeInviteCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()

	invite, err := service.Issue(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// 1. First use: counted, attributed, code stays active
	got, err := service.Consume(ctx, invite.Code, 7)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if got.CurrentUses != 1 {
		t.Errorf("expected current uses 1, got %d", got.CurrentUses)
	}
	if !got.IsActive {
		t.Error("expected code to remain active with a use left")
	}
	if got.UsedBy == nil || *got.UsedBy != 7 {
		t.Errorf("expected used_by 7, got %v", got.UsedBy)
	}
	if got.UsedAt == nil {
		t.Error("expected used_at to be set")
	}

	// 2. Last use: counted and auto-deactivated in the same update
	got, err = service.Consume(ctx, invite.Code, 8)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if got.CurrentUses != 2 {
		t.Errorf("expected current uses 2, got %d", got.CurrentUses)
	}
	if got.IsActive {
		t.Error("expected code to deactivate on its last use")
	}

	// 3. Over the limit: rejected as exhausted, count does not move
	_, err = service.Consume(ctx, invite.Code, 9)
	if !errors.Is(err, ErrInviteExhausted) {
		t.Errorf("expected ErrInviteExhausted, got %v", err)
	}
	if !apperrors.IsConflict(err) {
		t.Errorf("expected a conflict kind, got %v", apperrors.KindOf(err))
	}

	var reloaded models.InviteCode
	if err := db.Where("code = ?", invite.Code).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload code: %v", err)
	}
	if reloaded.CurrentUses != 2 {
		t.Errorf("expected current uses to stay 2, got %d", reloaded.CurrentUses)
	}

	// 4. Unknown code
	if _, err := service.Consume(ctx, "NOSUCHCODE", 7); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestConsumeDeactivatedCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()

	invite, err := service.Issue(ctx, 1, 3, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := service.Deactivate(ctx, invite.Code); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	// Unused but switched off: consumption reports deactivation
	if _, err := service.Consume(ctx, invite.Code, 7); !errors.Is(err, ErrInviteDeactivated) {
		t.Errorf("expected ErrInviteDeactivated, got %v", err)
	}

	var reloaded models.InviteCode
	if err := db.Where("code = ?", invite.Code).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload code: %v", err)
	}
	if reloaded.CurrentUses != 0 {
		t.Errorf("expected current uses 0, got %d", reloaded.CurrentUses)
	}
}

func TestConsumeExpiredCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()

	// Issue goes through with a near-future expiry; the consume below runs
	// against its own clock after the deadline.
	expiry := time.Now().Add(10 * time.Millisecond)
	invite, err := service.Issue(ctx, 1, 1, &expiry)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := service.Consume(ctx, invite.Code, 7); !errors.Is(err, ErrInviteExpired) {
		t.Errorf("expected ErrInviteExpired, got %v", err)
	}
}

func TestDeactivateInviteCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()

	if _, err := service.Deactivate(ctx, "NOSUCHCODE"); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("expected ErrInviteNotFound, got %v", err)
	}

	invite, err := service.Issue(ctx, 1, 1, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := service.Deactivate(ctx, invite.Code)
	if err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected code to be inactive after deactivation")
	}

	// Deactivating twice is harmless
	if _, err := service.Deactivate(ctx, invite.Code); err != nil {
		t.Errorf("second Deactivate failed: %v", err)
	}
}

func TestListInviteCodes(t *testing.T) {
	db := setupTestDB(t)
	service := NewInviteService(db, 1, 12)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := service.Issue(ctx, 1, 1, nil); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
	}

	codes, total, err := service.ListCodes(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListCodes failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(codes) != 2 {
		t.Errorf("expected 2 codes in page, got %d", len(codes))
	}
}
