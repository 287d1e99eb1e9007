package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/models"
)

type JobRepository interface {
	Create(job *models.JobPosting) error
	FindByID(id uint) (*models.JobPosting, error)
	FindAll(search string) ([]models.JobPosting, error)
	Update(job *models.JobPosting) error
	Count() (int64, error)
	CandidateIDsForJobs(ids []uint) ([]uint, error)
	DeleteByIDs(ids []uint) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.JobPosting) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("job posting %d not found", id)
		}
		return nil, fmt.Errorf("failed to find job posting: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindAll(search string) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	query := r.db.Preload("Candidates")
	if search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+search+"%")
	}
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) Update(job *models.JobPosting) error {
	if err := r.db.Save(job).Error; err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}
	return nil
}

func (r *jobRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.JobPosting{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count job postings: %w", err)
	}
	return count, nil
}

// CandidateIDsForJobs collects the candidate ids owned by the given jobs,
// used to cascade a job delete through the candidate delete path.
func (r *jobRepository) CandidateIDsForJobs(ids []uint) ([]uint, error) {
	var candidateIDs []uint
	err := r.db.Model(&models.Candidate{}).
		Where("job_posting_id IN ?", ids).
		Pluck("id", &candidateIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to collect candidate ids for jobs: %w", err)
	}
	return candidateIDs, nil
}

func (r *jobRepository) DeleteByIDs(ids []uint) error {
	if err := r.db.Where("id IN ?", ids).Delete(&models.JobPosting{}).Error; err != nil {
		return fmt.Errorf("failed to delete job postings: %w", err)
	}
	return nil
}
