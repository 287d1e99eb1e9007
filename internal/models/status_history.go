package models

import (
	"time"
)

// StatusHistory is the append-only audit trail of status transitions for a
// candidate. Rows are never updated after the fact, with one sanctioned
// exception: a reschedule appends the reason to the comments of the entry it
// explains (the latest row for the pre-reschedule status).
type StatusHistory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CandidateID uint   `gorm:"not null;index" json:"candidate_id"`
	StatusCode  int    `gorm:"not null" json:"status_code"`
	// Mirrors the registry description at write time; historical rows survive
	// registry edits.
	StatusDescription string    `gorm:"type:varchar(100);not null" json:"status_description"`
	Comments          string    `gorm:"type:text" json:"comments"`
	ChangedBy         string    `gorm:"type:varchar(100);default:'System'" json:"changed_by"`
	ChangedAt         time.Time `gorm:"index" json:"changed_at"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}
