package models

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusDismissed     ReportStatus = "dismissed"
)

// reportTransitions holds the allowed status moves. Resolved and dismissed
// are terminal.
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:       {ReportStatusInvestigating, ReportStatusDismissed},
	ReportStatusInvestigating: {ReportStatusResolved, ReportStatusDismissed},
}

// Valid reports whether s is one of the known statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInvestigating,
		ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Terminal reports whether no transition out of s is allowed.
func (s ReportStatus) Terminal() bool {
	return len(reportTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, allowed := range reportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Report is a complaint one participant files against another. Reports start
// pending and move through the triage state machine until terminal.
type Report struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID     uint         `gorm:"not null;index" json:"reporter_id"`
	ReportedID     uint         `gorm:"not null;index" json:"reported_id"`
	PartnershipID  *uuid.UUID   `gorm:"type:uuid;index" json:"partnership_id,omitempty"`
	Reason         string       `gorm:"not null;size:200" json:"reason"`
	Description    string       `gorm:"size:2000" json:"description,omitempty"`
	Status         ReportStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	ResolutionNote string       `gorm:"size:1000" json:"resolution_note,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

type FileReportRequest struct {
	ReportedID    uint   `json:"reported_id" binding:"required"`
	PartnershipID string `json:"partnership_id"`
	Reason        string `json:"reason" binding:"required,max=200"`
	Description   string `json:"description" binding:"omitempty,max=2000"`
}

type TransitionReportRequest struct {
	Status         string `json:"status" binding:"required"`
	ResolutionNote string `json:"resolution_note" binding:"omitempty,max=1000"`
}
