package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pairup/internal/apperrors"
	"pairup/internal/auth"
	"pairup/internal/models"
	"pairup/internal/utils"
)

// AuthService handles registration and login. Registration is invite-gated:
// consuming the code and creating the account are one transaction, so a
// failed signup never burns a code and a consumed code always has an account.
type AuthService struct {
	db      *gorm.DB
	invites *InviteService
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, invites *InviteService) *AuthService {
	return &AuthService{db: db, invites: invites}
}

// Register creates an account behind a valid invite code
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	category := models.CategoryUnspecified
	if req.MatchCategory != "" {
		category = models.MatchCategory(req.MatchCategory)
		if !category.Valid() {
			return nil, apperrors.Validationf("unknown match category %q", req.MatchCategory)
		}
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		generated, err := utils.GenerateDisplayName()
		if err != nil {
			return nil, fmt.Errorf("failed to generate display name: %w", err)
		}
		displayName = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  string(hash),
		DisplayName:   displayName,
		MatchCategory: category,
		IsActive:      true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return apperrors.Conflictf("email %s is already registered", email)
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		// Consumption rides the same transaction: if anything above or
		// below fails, the code comes back unspent
		if _, err := s.invites.ConsumeInTx(tx, req.InviteCode, user.ID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("New user registered: %s (ID: %d)", email, user.ID)
	return user, nil
}

// Login verifies credentials and returns a signed token with the user
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil, apperrors.Validationf("invalid email or password")
	}
	if err != nil {
		return "", nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.Validationf("invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("User logged in: %s (ID: %d)", email, user.ID)
	return token, &user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NotFoundf("user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
