package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"hragent/hiring-pipeline/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByCandidate(candidateID uint) ([]models.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByCandidate(candidateID uint) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("round_number ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}
