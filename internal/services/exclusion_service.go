package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pairup/internal/apperrors"
	"pairup/internal/models"
)

// ExclusionService owns the directional "do not match me with X" records the
// matching engine consults before committing a pair.
type ExclusionService struct {
	db *gorm.DB
}

func NewExclusionService(db *gorm.DB) *ExclusionService {
	return &ExclusionService{db: db}
}

// AddExclusion records that ownerID must never be paired with excludedID.
// The store does not deduplicate; callers that want set semantics check
// IsExcluded first.
func (s *ExclusionService) AddExclusion(ctx context.Context, ownerID, excludedID uint, reason string) (*models.Exclusion, error) {
	if ownerID == excludedID {
		return nil, apperrors.Validationf("cannot exclude yourself")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", excludedID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up excluded user: %w", err)
	}
	if count == 0 {
		return nil, apperrors.NotFoundf("user %d not found", excludedID)
	}

	exclusion := models.Exclusion{
		OwnerID:    ownerID,
		ExcludedID: excludedID,
		Reason:     reason,
	}

	if err := s.db.WithContext(ctx).Create(&exclusion).Error; err != nil {
		return nil, fmt.Errorf("failed to create exclusion: %w", err)
	}

	return &exclusion, nil
}

// IsExcluded reports whether ownerID excludes candidateID. Directional:
// the reverse direction is a separate query.
func (s *ExclusionService) IsExcluded(ctx context.Context, ownerID, candidateID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Exclusion{}).
		Where("owner_id = ? AND excluded_id = ?", ownerID, candidateID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// EitherExcludes reports whether an exclusion exists between a and b in
// either direction, the check a candidate pair must pass.
func (s *ExclusionService) EitherExcludes(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Exclusion{}).
		Where("(owner_id = ? AND excluded_id = ?) OR (owner_id = ? AND excluded_id = ?)",
			a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// RemoveExclusion deletes an exclusion. Only its owner may remove it; a
// non-owner gets the same not-found answer as a missing row.
func (s *ExclusionService) RemoveExclusion(ctx context.Context, id, ownerID uint) error {
	var exclusion models.Exclusion
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&exclusion).Error
	if err == gorm.ErrRecordNotFound {
		return apperrors.NotFoundf("exclusion %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load exclusion: %w", err)
	}

	if exclusion.OwnerID != ownerID {
		return apperrors.NotFoundf("exclusion %d not found", id)
	}

	if err := s.db.WithContext(ctx).Delete(&exclusion).Error; err != nil {
		return fmt.Errorf("failed to delete exclusion: %w", err)
	}

	return nil
}

// ListForOwner returns all exclusions owned by ownerID, newest first
func (s *ExclusionService) ListForOwner(ctx context.Context, ownerID uint) ([]*models.Exclusion, error) {
	var exclusions []*models.Exclusion
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&exclusions).Error
	if err != nil {
		return nil, err
	}

	return exclusions, nil
}
