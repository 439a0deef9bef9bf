package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pairup/internal/apperrors"
	"pairup/internal/models"
	"pairup/internal/repository"
)

// PartnershipService owns the partnership state machine. Active is the sole
// non-terminal status; completed, ended_early and cancelled are final.
type PartnershipService struct {
	repo *repository.Repository
	mu   sync.Mutex
}

func NewPartnershipService(repo *repository.Repository) *PartnershipService {
	return &PartnershipService{repo: repo}
}

// Create pairs two users into a new active partnership. The no-existing-
// active-partnership check and the insert run as one transaction, serialized
// by the service mutex so two concurrent creates cannot both pass the check.
func (s *PartnershipService) Create(ctx context.Context, userAID, userBID uint, start, end time.Time) (*models.Partnership, error) {
	if userAID == userBID {
		return nil, apperrors.Validationf("cannot pair a user with themselves")
	}
	if !end.After(start) {
		return nil, apperrors.Validationf("end date must be after start date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	partnership := &models.Partnership{
		ID:        uuid.New(),
		UserAID:   userAID,
		UserBID:   userBID,
		StartDate: start,
		EndDate:   end,
		Status:    models.PartnershipStatusActive,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, userID := range []uint{userAID, userBID} {
			count, err := tx.CountUserActivePartnerships(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to check active partnerships for user %d: %w", userID, err)
			}
			if count > 0 {
				return apperrors.Conflictf("user %d already has an active partnership", userID)
			}
		}

		return tx.CreatePartnership(ctx, partnership)
	})
	if err != nil {
		return nil, err
	}

	return partnership, nil
}

// GetByID retrieves a partnership
func (s *PartnershipService) GetByID(ctx context.Context, id uuid.UUID) (*models.Partnership, error) {
	p, err := s.repo.GetPartnershipByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.NotFoundf("partnership %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load partnership: %w", err)
	}

	return p, nil
}

// Complete closes a partnership that ran its full term
func (s *PartnershipService) Complete(ctx context.Context, id uuid.UUID) (*models.Partnership, error) {
	return s.transition(ctx, id, models.PartnershipStatusCompleted)
}

// EndEarly closes a partnership before its end date at a participant's request
func (s *PartnershipService) EndEarly(ctx context.Context, id uuid.UUID) (*models.Partnership, error) {
	return s.transition(ctx, id, models.PartnershipStatusEndedEarly)
}

// Cancel voids a partnership, an administrative action
func (s *PartnershipService) Cancel(ctx context.Context, id uuid.UUID) (*models.Partnership, error) {
	return s.transition(ctx, id, models.PartnershipStatusCancelled)
}

// transition moves a partnership out of active. The update is guarded on the
// current status, so a partnership already in a terminal state is never
// moved again even under concurrent requests.
func (s *PartnershipService) transition(ctx context.Context, id uuid.UUID, to models.PartnershipStatus) (*models.Partnership, error) {
	affected, err := s.repo.TransitionPartnershipStatus(ctx, id, models.PartnershipStatusActive, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update partnership status: %w", err)
	}

	if affected == 0 {
		p, err := s.repo.GetPartnershipByID(ctx, id)
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFoundf("partnership %s not found", id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load partnership: %w", err)
		}
		return nil, apperrors.InvalidStatef("partnership %s is %s; only active partnerships can transition", id, p.Status)
	}

	p, err := s.repo.GetPartnershipByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload partnership: %w", err)
	}

	log.Printf("Partnership %s transitioned to %s", id, to)
	return p, nil
}

// GetActiveForUser returns the user's active partnership, or nil when the
// user has none
func (s *PartnershipService) GetActiveForUser(ctx context.Context, userID uint) (*models.Partnership, error) {
	return s.repo.GetActivePartnershipForUser(ctx, userID)
}

// GetHistoryForUser returns every partnership the user was ever part of,
// terminal ones included, oldest first
func (s *PartnershipService) GetHistoryForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Partnership, int64, error) {
	return s.repo.GetUserPartnerships(ctx, userID, limit, offset)
}

// ListActive returns currently active partnerships, for the admin surface
func (s *PartnershipService) ListActive(ctx context.Context, limit, offset int) ([]*models.Partnership, int64, error) {
	return s.repo.GetActivePartnerships(ctx, limit, offset)
}

// CompleteExpired completes every active partnership whose end date has
// passed. Returns how many were closed.
func (s *PartnershipService) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	completed, err := s.repo.SweepExpiredPartnerships(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired partnerships: %w", err)
	}

	if completed > 0 {
		log.Printf("Completed %d expired partnerships", completed)
	}
	return completed, nil
}
