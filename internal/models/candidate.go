package models

import (
	"strings"
	"time"

	"hragent/hiring-pipeline/internal/statuses"
)

// Candidate is a person moving through the hiring pipeline. CurrentStatus is
// the single source of truth for pipeline position and must always equal the
// description of the newest StatusHistory row; every status mutation goes
// through the pipeline service, which writes both in one transaction.
type Candidate struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`
	// Uniqueness is per (lower(email), job posting), enforced in service code.
	Email         string  `gorm:"type:varchar(255);not null;index" json:"email"`
	PhoneNumber   *string `gorm:"type:varchar(50)" json:"phone_number"`
	ResumePath    string  `gorm:"type:varchar(500)" json:"resume_path"`
	ResumeText    string  `gorm:"type:text" json:"-"`
	JobPostingID  *uint   `gorm:"index" json:"job_posting_id"`
	CurrentStatus string  `gorm:"type:varchar(100);default:'Candidate Entered by System'" json:"current_status"`
	ATSScore      float64 `gorm:"default:0" json:"ats_score"`
	// Opaque structured analysis returned by the scorer, stored as JSON text.
	AIAnalysis            string    `gorm:"type:text" json:"-"`
	OverallInterviewScore float64   `gorm:"default:0" json:"overall_interview_score"`
	FinalDecision         string    `gorm:"type:varchar(50)" json:"final_decision"`
	IsOnboarded           bool      `gorm:"default:false" json:"is_onboarded"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	JobPosting    *JobPosting    `gorm:"foreignKey:JobPostingID" json:"-"`
	Interviews    []Interview    `gorm:"foreignKey:CandidateID" json:"-"`
	HRDiscussions []HRDiscussion `gorm:"foreignKey:CandidateID" json:"-"`
	Verifications []Verification `gorm:"foreignKey:CandidateID" json:"-"`
	StatusHistory []StatusHistory `gorm:"foreignKey:CandidateID" json:"-"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// JobTitle returns the owning posting's title, or a neutral fallback for
// candidates whose posting link has been cleared.
func (c *Candidate) JobTitle() string {
	if c.JobPosting != nil {
		return c.JobPosting.Title
	}
	return "the role"
}

// DefaultStatus is the initial status for candidates not created by
// automated scoring.
func DefaultStatus() string {
	return statuses.CandidateEnteredBySystem
}
