package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"pairup/internal/apperrors"
	"pairup/internal/models"
)

// UserService handles user-related business logic
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NotFoundf("user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SetActive flips a user's matching eligibility. Inactive users keep their
// account and history but are skipped by future matching cycles.
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update activity flag: %w", err)
	}

	user.IsActive = active
	return user, nil
}

// UpdateDisplayName changes the user's visible name
func (s *UserService) UpdateDisplayName(ctx context.Context, userID uint, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) < 3 || len(displayName) > 50 {
		return nil, apperrors.Validationf("display name must be between 3 and 50 characters")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update("display_name", displayName).Error; err != nil {
		return nil, fmt.Errorf("failed to update display name: %w", err)
	}

	user.DisplayName = displayName
	return user, nil
}

// UpdateMatchCategory changes the bucket the user is matched within
func (s *UserService) UpdateMatchCategory(ctx context.Context, userID uint, category models.MatchCategory) (*models.User, error) {
	if !category.Valid() {
		return nil, apperrors.Validationf("unknown match category %q", category)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Update("match_category", category).Error; err != nil {
		return nil, fmt.Errorf("failed to update match category: %w", err)
	}

	user.MatchCategory = category
	return user, nil
}

// ListUsers retrieves users with total count, for the admin surface
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
