package repository

import (
	"context"
	"time"

	"pairup/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a database transaction. The repository handed to
// fn is bound to that transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// CreatePartnership inserts a new partnership
func (r *Repository) CreatePartnership(ctx context.Context, p *models.Partnership) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetPartnershipByID retrieves a partnership by ID
func (r *Repository) GetPartnershipByID(ctx context.Context, id uuid.UUID) (*models.Partnership, error) {
	var p models.Partnership
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TransitionPartnershipStatus moves a partnership from one status to another.
// The source status is part of the match, so a row that already left `from`
// is not touched; callers inspect the affected count.
func (r *Repository) TransitionPartnershipStatus(ctx context.Context, id uuid.UUID, from, to models.PartnershipStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Partnership{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	return result.RowsAffected, result.Error
}

// GetActivePartnershipForUser finds the active partnership a user belongs to
func (r *Repository) GetActivePartnershipForUser(ctx context.Context, userID uint) (*models.Partnership, error) {
	var p models.Partnership
	err := r.db.WithContext(ctx).
		Where("(user_a_id = ? OR user_b_id = ?) AND status = ?",
			userID, userID, models.PartnershipStatusActive).
		First(&p).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil // No active partnership
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CountUserActivePartnerships counts active partnerships for a user
func (r *Repository) CountUserActivePartnerships(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("(user_a_id = ? OR user_b_id = ?) AND status = ?",
			userID, userID, models.PartnershipStatusActive).
		Count(&count).Error

	return count, err
}

// GetUserPartnerships retrieves all partnerships for a user with total count,
// oldest first
func (r *Repository) GetUserPartnerships(ctx context.Context, userID uint, limit, offset int) ([]*models.Partnership, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var partnerships []*models.Partnership
	err = r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&partnerships).Error
	if err != nil {
		return nil, 0, err
	}

	return partnerships, total, nil
}

// GetActivePartnerships retrieves active partnerships with total count
func (r *Repository) GetActivePartnerships(ctx context.Context, limit, offset int) ([]*models.Partnership, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Partnership{}).
		Where("status = ?", models.PartnershipStatusActive).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var partnerships []*models.Partnership
	err = r.db.WithContext(ctx).
		Where("status = ?", models.PartnershipStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&partnerships).Error
	if err != nil {
		return nil, 0, err
	}

	return partnerships, total, nil
}

// SweepExpiredPartnerships completes active partnerships whose end date has
// passed. The status guard in the WHERE keeps terminal rows untouched.
func (r *Repository) SweepExpiredPartnerships(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Partnership{}).
		Where("status = ? AND end_date < ?", models.PartnershipStatusActive, now).
		Update("status", models.PartnershipStatusCompleted)

	return result.RowsAffected, result.Error
}

// GetEligibleUsers retrieves active users who hold no active partnership,
// the pool a matching cycle operates on
func (r *Repository) GetEligibleUsers(ctx context.Context) ([]*models.User, error) {
	sideA := r.db.Model(&models.Partnership{}).
		Select("user_a_id").
		Where("status = ?", models.PartnershipStatusActive)
	sideB := r.db.Model(&models.Partnership{}).
		Select("user_b_id").
		Where("status = ?", models.PartnershipStatusActive)

	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", sideA).
		Where("id NOT IN (?)", sideB).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}
