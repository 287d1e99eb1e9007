package models

import (
	"time"
)

// Interview is one round for a candidate. RoundNumber is caller-supplied and
// unique per candidate; the interview status string is independent of the
// candidate's pipeline status.
type Interview struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CandidateID     uint       `gorm:"not null;index;uniqueIndex:idx_candidate_round,priority:1" json:"candidate_id"`
	RoundNumber     int        `gorm:"not null;uniqueIndex:idx_candidate_round,priority:2" json:"round_number"`
	InterviewerName string     `gorm:"type:varchar(255)" json:"interviewer_name"`
	InterviewDate   *time.Time `json:"interview_date"`
	Score           *float64   `json:"score"`
	Feedback        string     `gorm:"type:text" json:"feedback"`
	Status          string     `gorm:"type:varchar(50);default:'Scheduled'" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}

type HRDiscussion struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	CandidateID        uint       `gorm:"not null;index" json:"candidate_id"`
	DiscussionDate     *time.Time `json:"discussion_date"`
	Notes              string     `gorm:"type:text" json:"notes"`
	DocumentsCollected string     `gorm:"type:text" json:"documents_collected"`
	Status             string     `gorm:"type:varchar(50);default:'Pending'" json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (HRDiscussion) TableName() string {
	return "hr_discussions"
}

type Verification struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CandidateID  uint       `gorm:"not null;index" json:"candidate_id"`
	Type         string     `gorm:"type:varchar(100)" json:"type"`
	Status       string     `gorm:"type:varchar(50);default:'Pending'" json:"status"`
	Details      string     `gorm:"type:text" json:"details"`
	VerifiedBy   string     `gorm:"type:varchar(255)" json:"verified_by"`
	VerifiedDate *time.Time `json:"verified_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Verification) TableName() string {
	return "verifications"
}
