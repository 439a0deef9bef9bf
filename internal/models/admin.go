package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// JSONB stores arbitrary structured detail on audit rows.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
	return json.Unmarshal(data, j)
}

// AdminLog is an append-only audit trail of administrative actions.
// ResourceID is a string so it can hold both numeric and uuid keys.
type AdminLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AdminID      uint      `gorm:"not null;index" json:"admin_id"`
	Action       string    `gorm:"not null;size:100;index" json:"action"`
	ResourceType string    `gorm:"size:50" json:"resource_type"`
	ResourceID   *string   `gorm:"size:64" json:"resource_id,omitempty"`
	Details      JSONB     `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

// PlatformStats is a daily snapshot of aggregate platform health.
type PlatformStats struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Date               time.Time       `gorm:"uniqueIndex;not null" json:"date"`
	TotalUsers         int64           `gorm:"not null;default:0" json:"total_users"`
	ActiveUsers        int64           `gorm:"not null;default:0" json:"active_users"`
	ActivePartnerships int64           `gorm:"not null;default:0" json:"active_partnerships"`
	TotalPartnerships  int64           `gorm:"not null;default:0" json:"total_partnerships"`
	PendingReports     int64           `gorm:"not null;default:0" json:"pending_reports"`
	CompletionRate     decimal.Decimal `gorm:"type:decimal(5,2)" json:"completion_rate"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (PlatformStats) TableName() string {
	return "platform_stats"
}

// DashboardStats is the live aggregate view served to administrators.
type DashboardStats struct {
	TotalUsers         int64                  `json:"total_users"`
	ActiveUsers        int64                  `json:"active_users"`
	ActivePartnerships int64                  `json:"active_partnerships"`
	TotalPartnerships  int64                  `json:"total_partnerships"`
	CompletionRate     decimal.Decimal        `json:"completion_rate"`
	ReportsByStatus    map[ReportStatus]int64 `json:"reports_by_status"`
	ActiveInviteCodes  int64                  `json:"active_invite_codes"`
}
