package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/statuses"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.JobPosting{},
		&models.Candidate{},
		&models.Interview{},
		&models.HRDiscussion{},
		&models.Verification{},
		&models.StatusHistory{},
	))

	return db
}

func seedJob(t *testing.T, db *gorm.DB, title string) *models.JobPosting {
	t.Helper()
	job := &models.JobPosting{
		Title:           title,
		DescriptionText: "We are hiring a " + title + " with Go and SQL experience.",
		MinExperience:   "3-5 years",
	}
	require.NoError(t, repositories.NewJobRepository(db).Create(job))
	return job
}

// seedCandidate creates a candidate in the given status with a matching
// initial history entry, the way the pipeline writes them.
func seedCandidate(t *testing.T, db *gorm.DB, job *models.JobPosting, email, status string) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         email,
		JobPostingID:  &job.ID,
		CurrentStatus: status,
	}
	repo := repositories.NewCandidateRepository(db)
	require.NoError(t, repo.Create(candidate))
	require.NoError(t, repo.AppendHistory(&models.StatusHistory{
		CandidateID:       candidate.ID,
		StatusCode:        statuses.CodeOf(status),
		StatusDescription: status,
		ChangedBy:         "System",
	}))
	return candidate
}

func latestHistory(t *testing.T, db *gorm.DB, candidateID uint) models.StatusHistory {
	t.Helper()
	var entry models.StatusHistory
	require.NoError(t, db.
		Where("candidate_id = ?", candidateID).
		Order("id DESC").
		First(&entry).Error)
	return entry
}

func historyCount(t *testing.T, db *gorm.DB, candidateID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.StatusHistory{}).
		Where("candidate_id = ?", candidateID).
		Count(&count).Error)
	return count
}
