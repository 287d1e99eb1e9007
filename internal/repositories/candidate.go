package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/models"
)

type CandidateFilter struct {
	Status string
	JobID  *uint
	Search string
	Offset int
	Limit  int
}

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id uint) (*models.Candidate, error)
	FindByIDs(ids []uint) ([]models.Candidate, error)
	FindAll(filter CandidateFilter) ([]models.Candidate, int64, error)
	FindActive() ([]models.Candidate, error)
	FindByEmailAndJob(email string, jobID uint) (*models.Candidate, error)
	UpdateStatus(id uint, status string) error
	UpdateOverallScore(id uint, score float64) error
	Count() (int64, error)
	CountByStatuses(descriptions []string) (int64, error)
	CountGroupedByStatus(descriptions []string) (map[string]int64, error)

	AppendHistory(entry *models.StatusHistory) error
	HistoryForCandidate(candidateID uint) ([]models.StatusHistory, error)
	LatestHistoryForStatus(candidateID uint, description string) (*models.StatusHistory, error)
	UpdateHistoryComments(historyID uint, comments string) error

	DeleteCascade(ids []uint) error
}

type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository binds a repository to a db handle. Pass a
// transaction handle to run the repository's writes inside that transaction.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.
		Preload("JobPosting").
		Preload("Interviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at DESC, id DESC")
		}).
		Where("id = ?", id).
		First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("candidate %d not found", id)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByIDs(ids []uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.Preload("JobPosting").Where("id IN ?", ids).Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindAll(filter CandidateFilter) ([]models.Candidate, int64, error) {
	query := r.db.Model(&models.Candidate{}).Preload("JobPosting")

	if filter.Status != "" {
		query = query.Where("current_status = ?", filter.Status)
	}
	if filter.JobID != nil {
		query = query.Where("job_posting_id = ?", *filter.JobID)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.
			Joins("LEFT JOIN job_postings ON job_postings.id = candidates.job_posting_id").
			Where(
				"LOWER(candidates.first_name) LIKE ? OR LOWER(candidates.last_name) LIKE ? OR LOWER(candidates.email) LIKE ? OR LOWER(job_postings.title) LIKE ?",
				term, term, term, term,
			)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var candidates []models.Candidate
	if err := query.Order("candidates.updated_at DESC").Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, total, nil
}

// FindActive returns candidates reachable over at least one channel.
func (r *candidateRepository) FindActive() ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.Preload("JobPosting").
		Where("phone_number IS NOT NULL OR email <> ''").
		Order("updated_at DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindByEmailAndJob(email string, jobID uint) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.
		Where("LOWER(email) = ? AND job_posting_id = ?", strings.ToLower(email), jobID).
		First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up candidate by email: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("current_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update candidate status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("candidate %d not found", id)
	}
	return nil
}

func (r *candidateRepository) UpdateOverallScore(id uint, score float64) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("overall_interview_score", score)
	if result.Error != nil {
		return fmt.Errorf("failed to update overall interview score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("candidate %d not found", id)
	}
	return nil
}

func (r *candidateRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Candidate{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}

func (r *candidateRepository) CountByStatuses(descriptions []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Candidate{}).
		Where("current_status IN ?", descriptions).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count candidates by status: %w", err)
	}
	return count, nil
}

func (r *candidateRepository) CountGroupedByStatus(descriptions []string) (map[string]int64, error) {
	type row struct {
		CurrentStatus string
		Total         int64
	}
	var rows []row
	err := r.db.Model(&models.Candidate{}).
		Select("current_status, COUNT(id) AS total").
		Where("current_status IN ?", descriptions).
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group candidates by status: %w", err)
	}

	counts := make(map[string]int64, len(descriptions))
	for _, d := range descriptions {
		counts[d] = 0
	}
	for _, r := range rows {
		counts[r.CurrentStatus] = r.Total
	}
	return counts, nil
}

func (r *candidateRepository) AppendHistory(entry *models.StatusHistory) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

func (r *candidateRepository) HistoryForCandidate(candidateID uint) ([]models.StatusHistory, error) {
	var history []models.StatusHistory
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("changed_at DESC, id DESC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return history, nil
}

func (r *candidateRepository) LatestHistoryForStatus(candidateID uint, description string) (*models.StatusHistory, error) {
	var entry models.StatusHistory
	err := r.db.
		Where("candidate_id = ? AND status_description = ?", candidateID, description).
		Order("changed_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find status history entry: %w", err)
	}
	return &entry, nil
}

// UpdateHistoryComments mutates a history row's comments. Status history is
// append-only with this one exception: a reschedule attaches its reason to
// the entry that scheduled the interview being moved.
func (r *candidateRepository) UpdateHistoryComments(historyID uint, comments string) error {
	result := r.db.Model(&models.StatusHistory{}).
		Where("id = ?", historyID).
		Update("comments", comments)
	if result.Error != nil {
		return fmt.Errorf("failed to update history comments: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("status history entry %d not found", historyID)
	}
	return nil
}

// DeleteCascade removes candidates with their child rows. Children go first
// because of foreign key ordering. Callers wrap this in a transaction.
func (r *candidateRepository) DeleteCascade(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, model := range []interface{}{
		&models.Interview{},
		&models.HRDiscussion{},
		&models.Verification{},
		&models.StatusHistory{},
	} {
		if err := r.db.Where("candidate_id IN ?", ids).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete candidate children: %w", err)
		}
	}
	if err := r.db.Where("id IN ?", ids).Delete(&models.Candidate{}).Error; err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}
	return nil
}
