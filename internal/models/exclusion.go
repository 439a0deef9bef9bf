package models

import "time"

// Exclusion records that OwnerID never wants to be paired with ExcludedID
// again. Rows are directional; the matcher checks both directions. Duplicate
// rows for the same pair are allowed and harmless.
type Exclusion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OwnerID    uint      `gorm:"not null;index:idx_exclusions_owner_excluded" json:"owner_id"`
	ExcludedID uint      `gorm:"not null;index:idx_exclusions_owner_excluded" json:"excluded_id"`
	Reason     string    `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Exclusion) TableName() string {
	return "exclusions"
}

type AddExclusionRequest struct {
	ExcludedID uint   `json:"excluded_id" binding:"required"`
	Reason     string `json:"reason" binding:"omitempty,max=500"`
}
