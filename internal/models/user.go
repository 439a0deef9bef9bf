package models

import (
	"time"
)

// MatchCategory is the compatibility bucket a user is matched within.
// Users who leave it unspecified form their own bucket and are only ever
// paired with each other.
type MatchCategory string

const (
	CategoryMale        MatchCategory = "male"
	CategoryFemale      MatchCategory = "female"
	CategoryNonbinary   MatchCategory = "nonbinary"
	CategoryUnspecified MatchCategory = "unspecified"
)

// Valid reports whether c is one of the known categories.
func (c MatchCategory) Valid() bool {
	switch c {
	case CategoryMale, CategoryFemale, CategoryNonbinary, CategoryUnspecified:
		return true
	}
	return false
}

// User represents a participant account in the system
type User struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Email         string        `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash  string        `gorm:"not null;size:255" json:"-"`
	DisplayName   string        `gorm:"not null;size:64" json:"display_name"`
	MatchCategory MatchCategory `gorm:"size:16;not null;default:unspecified;index" json:"match_category"`
	IsActive      bool          `gorm:"default:true;index" json:"is_active"`
	IsAdmin       bool          `gorm:"default:false" json:"is_admin"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// RegisterRequest is the payload for invite-gated account creation
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	DisplayName   string `json:"display_name" binding:"omitempty,min=3,max=50"`
	MatchCategory string `json:"match_category"`
	InviteCode    string `json:"invite_code" binding:"required"`
}

// LoginRequest is the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
