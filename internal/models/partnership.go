package models

import (
	"time"

	"github.com/google/uuid"
)

type PartnershipStatus string

const (
	PartnershipStatusActive     PartnershipStatus = "active"
	PartnershipStatusCompleted  PartnershipStatus = "completed"
	PartnershipStatusEndedEarly PartnershipStatus = "ended_early"
	PartnershipStatusCancelled  PartnershipStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s PartnershipStatus) Valid() bool {
	switch s {
	case PartnershipStatusActive, PartnershipStatusCompleted,
		PartnershipStatusEndedEarly, PartnershipStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition out of s is allowed.
func (s PartnershipStatus) Terminal() bool {
	return s != PartnershipStatusActive && s.Valid()
}

// Partnership is a month-long accountability pairing of two users.
// A user appears in at most one partnership with status active at a time.
type Partnership struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserAID   uint              `gorm:"not null;index" json:"user_a_id"`
	UserBID   uint              `gorm:"not null;index" json:"user_b_id"`
	StartDate time.Time         `gorm:"not null" json:"start_date"`
	EndDate   time.Time         `gorm:"not null;index" json:"end_date"`
	Status    PartnershipStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Partnership) TableName() string {
	return "partnerships"
}

// HasUser reports whether userID is one of the two participants.
func (p *Partnership) HasUser(userID uint) bool {
	return p.UserAID == userID || p.UserBID == userID
}

// PartnerOf returns the other participant's id.
func (p *Partnership) PartnerOf(userID uint) (uint, bool) {
	if p.UserAID == userID {
		return p.UserBID, true
	}
	if p.UserBID == userID {
		return p.UserAID, true
	}
	return 0, false
}
