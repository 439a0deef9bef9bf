package models

import "time"

// InviteCode gates registration. Codes are minted by administrators, carry a
// use budget and an optional expiry, and can be deactivated at any time.
type InviteCode struct {
	Code        string     `gorm:"primaryKey;size:20" json:"code"`
	CreatedBy   uint       `gorm:"not null;index" json:"created_by"`
	UsedBy      *uint      `gorm:"index" json:"used_by,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	MaxUses     int        `gorm:"not null;default:1" json:"max_uses"`
	CurrentUses int        `gorm:"not null;default:0" json:"current_uses"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}

// Remaining returns how many uses the code has left.
func (ic *InviteCode) Remaining() int {
	if r := ic.MaxUses - ic.CurrentUses; r > 0 {
		return r
	}
	return 0
}

// Expired reports whether the code's expiry has passed at now.
// Codes without an expiry never expire.
func (ic *InviteCode) Expired(now time.Time) bool {
	return ic.ExpiresAt != nil && now.After(*ic.ExpiresAt)
}

type IssueInviteRequest struct {
	MaxUses   int        `json:"max_uses" binding:"omitempty,min=1"`
	ExpiresAt *time.Time `json:"expires_at"`
}
