package models

import (
	"time"
)

type JobPosting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	DescriptionText string    `gorm:"type:text;not null" json:"description_text"`
	Location        string    `gorm:"type:varchar(255)" json:"location"`
	SalaryRange     string    `gorm:"type:varchar(100)" json:"salary_range"`
	RequiredSkills  string    `gorm:"type:text" json:"required_skills"`
	// Free-form on purpose: postings carry values like "3-5 years" or "Senior".
	MinExperience string    `gorm:"type:varchar(50);default:'0'" json:"min_experience"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Candidates []Candidate `gorm:"foreignKey:JobPostingID" json:"-"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}
