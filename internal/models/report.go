package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportOnProcess ReportStatus = "on_process"
	ReportResolved  ReportStatus = "resolved"
	ReportRejected  ReportStatus = "rejected"
)

// ReportStatuses lists every status a report may hold.
var ReportStatuses = []ReportStatus{ReportPending, ReportOnProcess, ReportResolved, ReportRejected}

// ParseReportStatus accepts only the canonical status values.
func ParseReportStatus(s string) (ReportStatus, error) {
	for _, st := range ReportStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of pending, on_process, resolved, rejected", s)
}

// Report is a user complaint about a chat session. Messages is a copy of the
// conversation taken when the report was filed and is never rewritten.
// ReporterID owns the report; ReportedBy is the contact address shown to
// administrators.
type Report struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"chat_id"`
	ReporterID  string                      `gorm:"not null;default:'';size:64;index" json:"reporter_id"`
	ReportedBy  string                      `gorm:"not null;size:255" json:"reported_by"`
	Reason      string                      `gorm:"not null;size:500" json:"reason"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Status      ReportStatus                `gorm:"not null;default:'pending';size:20;index" json:"status"`
	Messages    datatypes.JSONSlice[Message] `json:"messages"`
	CreatedAt   time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
