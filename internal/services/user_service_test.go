package services

import (
	"context"
	"strings"
	"testing"

	"pairup/internal/apperrors"
	"pairup/internal/models"
)

func TestUpdateDisplayName(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "name@test.dev", models.CategoryMale)

	got, err := service.UpdateDisplayName(ctx, user.ID, "  Steady_Walker_0042  ")
	if err != nil {
		t.Fatalf("UpdateDisplayName failed: %v", err)
	}
	if got.DisplayName != "Steady_Walker_0042" {
		t.Errorf("expected trimmed name, got %q", got.DisplayName)
	}

	for _, bad := range []string{"", "ab", strings.Repeat("x", 51)} {
		if _, err := service.UpdateDisplayName(ctx, user.ID, bad); !apperrors.IsValidation(err) {
			t.Errorf("expected validation error for %q, got %v", bad, err)
		}
	}

	if _, err := service.UpdateDisplayName(ctx, 99999, "Valid_Name"); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateMatchCategory(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "cat@test.dev", models.CategoryMale)

	got, err := service.UpdateMatchCategory(ctx, user.ID, models.CategoryNonbinary)
	if err != nil {
		t.Fatalf("UpdateMatchCategory failed: %v", err)
	}
	if got.MatchCategory != models.CategoryNonbinary {
		t.Errorf("expected nonbinary, got %s", got.MatchCategory)
	}

	if _, err := service.UpdateMatchCategory(ctx, user.ID, models.MatchCategory("martian")); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for unknown category, got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "active@test.dev", models.CategoryMale)

	got, err := service.SetActive(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected user inactive")
	}

	// Reactivation restores matching eligibility
	got, err = service.SetActive(ctx, user.ID, true)
	if err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if !got.IsActive {
		t.Error("expected user active again")
	}

	if _, err := service.SetActive(ctx, 99999, false); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	ctx := context.Background()

	createTestUser(t, db, "l1@test.dev", models.CategoryMale)
	createTestUser(t, db, "l2@test.dev", models.CategoryMale)
	createTestUser(t, db, "l3@test.dev", models.CategoryMale)

	users, total, err := service.ListUsers(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users in page, got %d", len(users))
	}

	users, _, err = service.ListUsers(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user on last page, got %d", len(users))
	}
}
