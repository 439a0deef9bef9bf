package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/mr-tron/base58"
	"gorm.io/gorm"

	"pairup/internal/apperrors"
	"pairup/internal/models"
)

// Sentinel failures for invite verification and consumption. Each carries an
// apperrors kind and is distinguishable with errors.Is.
var (
	ErrInviteNotFound    = apperrors.New(apperrors.KindNotFound, "invite code not found")
	ErrInviteDeactivated = apperrors.New(apperrors.KindConflict, "invite code deactivated")
	ErrInviteExpired     = apperrors.New(apperrors.KindConflict, "invite code expired")
	ErrInviteExhausted   = apperrors.New(apperrors.KindConflict, "invite code exhausted")
)

const maxCodeAttempts = 5

// InviteService tracks issuance and consumption of registration codes.
type InviteService struct {
	db             *gorm.DB
	defaultMaxUses int
	codeLength     int
}

func NewInviteService(db *gorm.DB, defaultMaxUses, codeLength int) *InviteService {
	if defaultMaxUses < 1 {
		defaultMaxUses = 1
	}
	if codeLength < 8 {
		codeLength = 12
	}
	return &InviteService{
		db:             db,
		defaultMaxUses: defaultMaxUses,
		codeLength:     codeLength,
	}
}

// Issue mints a new invite code. maxUses <= 0 falls back to the configured
// default; expiresAt may be nil for a code that never expires.
func (s *InviteService) Issue(ctx context.Context, createdBy uint, maxUses int, expiresAt *time.Time) (*models.InviteCode, error) {
	if maxUses <= 0 {
		maxUses = s.defaultMaxUses
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, apperrors.Validationf("expiry must be in the future")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, err
		}

		// Codes must be distinct from every existing one, active or not
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.InviteCode{}).
			Where("code = ?", code).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if count > 0 {
			continue
		}

		invite := &models.InviteCode{
			Code:        code,
			CreatedBy:   createdBy,
			IsActive:    true,
			MaxUses:     maxUses,
			CurrentUses: 0,
			ExpiresAt:   expiresAt,
		}

		if err := s.db.WithContext(ctx).Create(invite).Error; err != nil {
			return nil, fmt.Errorf("failed to create invite code: %w", err)
		}

		log.Printf("Issued invite code %s (max uses: %d) by admin %d", code, maxUses, createdBy)
		return invite, nil
	}

	return nil, fmt.Errorf("failed to generate a unique invite code after %d attempts", maxCodeAttempts)
}

// generateCode draws a fixed-length code from the base58 alphabet, which has
// no 0/O or I/l ambiguity.
func (s *InviteService) generateCode() (string, error) {
	for {
		b := make([]byte, s.codeLength)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}

		// Leading zero bytes shorten the encoded form; retry on the rare
		// miss rather than pad.
		encoded := base58.Encode(b)
		if len(encoded) >= s.codeLength {
			return encoded[:s.codeLength], nil
		}
	}
}

// Verify reports whether a code can currently be consumed. Returns the code
// on success, or one of the ErrInvite sentinels naming the exact reason.
func (s *InviteService) Verify(ctx context.Context, code string, now time.Time) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invite code: %w", err)
	}

	if err := classifyUnusable(&invite, now); err != nil {
		return nil, err
	}

	return &invite, nil
}

// classifyUnusable returns the sentinel describing why a code cannot be
// consumed, or nil if it can. Exhaustion outranks deactivation: a code that
// burned its last use reads as exhausted even though it is also inactive.
func classifyUnusable(invite *models.InviteCode, now time.Time) error {
	switch {
	case invite.CurrentUses >= invite.MaxUses:
		return ErrInviteExhausted
	case !invite.IsActive:
		return ErrInviteDeactivated
	case invite.Expired(now):
		return ErrInviteExpired
	default:
		return nil
	}
}

// Consume burns one use of a code for usedBy. Validation happens inside the
// update itself, so a stale Verify cannot be trusted into an overspend.
func (s *InviteService) Consume(ctx context.Context, code string, usedBy uint) (*models.InviteCode, error) {
	return s.consume(s.db.WithContext(ctx), code, usedBy, time.Now())
}

// ConsumeInTx is Consume bound to a caller-owned transaction, so registration
// can roll the consumption back when account creation fails.
func (s *InviteService) ConsumeInTx(tx *gorm.DB, code string, usedBy uint) (*models.InviteCode, error) {
	return s.consume(tx, code, usedBy, time.Now())
}

// consume performs the increment-and-maybe-deactivate step as one guarded
// UPDATE. Concurrent consumers of the same code serialize on the row; the
// loser's WHERE no longer matches and it falls through to classification.
func (s *InviteService) consume(db *gorm.DB, code string, usedBy uint, now time.Time) (*models.InviteCode, error) {
	result := db.Model(&models.InviteCode{}).
		Where("code = ?", code).
		Where("is_active = ?", true).
		Where("current_uses < max_uses").
		Where("expires_at IS NULL OR expires_at > ?", now).
		Updates(map[string]interface{}{
			"current_uses": gorm.Expr("current_uses + 1"),
			"is_active":    gorm.Expr("current_uses + 1 < max_uses"),
			"used_by":      usedBy,
			"used_at":      now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to consume invite code: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var invite models.InviteCode
		err := db.Where("code = ?", code).First(&invite).Error
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInviteNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load invite code: %w", err)
		}
		if err := classifyUnusable(&invite, now); err != nil {
			return nil, err
		}
		return nil, apperrors.Conflictf("invite code %s cannot be consumed", code)
	}

	var invite models.InviteCode
	if err := db.Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, fmt.Errorf("failed to reload invite code: %w", err)
	}

	return &invite, nil
}

// Deactivate turns a code off unconditionally. There is no way back.
func (s *InviteService) Deactivate(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invite code: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&invite).Update("is_active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate invite code: %w", err)
	}

	invite.IsActive = false
	log.Printf("Invite code %s deactivated", code)
	return &invite, nil
}

// ListCodes retrieves invite codes with total count, newest first
func (s *InviteService) ListCodes(ctx context.Context, limit, offset int) ([]*models.InviteCode, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.InviteCode{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var codes []*models.InviteCode
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&codes).Error
	if err != nil {
		return nil, 0, err
	}

	return codes, total, nil
}
