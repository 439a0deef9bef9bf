package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pairup/internal/models"
)

// setupTestDB opens the shared in-memory database and wipes it. :memory: is
// unique per connection, so the shared cache keeps every handle in the test
// binary on the same database; the DELETEs clear rows left by earlier tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.InviteCode{},
		&models.Partnership{},
		&models.Exclusion{},
		&models.Report{},
		&models.AdminLog{},
		&models.PlatformStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	for _, table := range []string{
		"admin_logs", "platform_stats", "reports", "exclusions",
		"partnerships", "invite_codes", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clean table %s: %v", table, err)
		}
	}

	return db
}

// createTestUser inserts an active user in the given category.
func createTestUser(t *testing.T, db *gorm.DB, email string, category models.MatchCategory) *models.User {
	t.Helper()

	user := models.User{
		Email:         email,
		PasswordHash:  "x",
		DisplayName:   fmt.Sprintf("user_%s", email),
		MatchCategory: category,
		IsActive:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}

	return &user
}

// deactivateTestUser flips is_active off. Done with an Update because a
// false field in a Create struct would be skipped as a zero value and the
// column default would win.
func deactivateTestUser(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()

	err := db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error
	if err != nil {
		t.Fatalf("failed to deactivate user %d: %v", userID, err)
	}
}
