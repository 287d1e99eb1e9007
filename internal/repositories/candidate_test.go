package repositories

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/models"
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

func createJob(t *testing.T, db *gorm.DB, title string) *models.JobPosting {
	t.Helper()
	job := &models.JobPosting{Title: title, DescriptionText: "desc"}
	require.NoError(t, NewJobRepository(db).Create(job))
	return job
}

func createCandidate(t *testing.T, db *gorm.DB, job *models.JobPosting, first, email, status string) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{
		FirstName:     first,
		Email:         email,
		JobPostingID:  &job.ID,
		CurrentStatus: status,
	}
	require.NoError(t, NewCandidateRepository(db).Create(candidate))
	return candidate
}

func TestFindByEmailAndJobIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	created := createCandidate(t, db, job, "Asha", "asha@example.com", statuses.ATSShortlisted)

	repo := NewCandidateRepository(db)

	found, err := repo.FindByEmailAndJob("ASHA@Example.COM", job.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	// same email, different job: no hit
	other := createJob(t, db, "Data Analyst")
	missing, err := repo.FindByEmailAndJob("asha@example.com", other.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindAllFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	other := createJob(t, db, "Data Analyst")

	createCandidate(t, db, job, "Asha", "asha@example.com", statuses.ATSShortlisted)
	createCandidate(t, db, job, "Ravi", "ravi@example.com", statuses.ResumeDeclined)
	createCandidate(t, db, other, "Meena", "meena@example.com", statuses.ATSShortlisted)

	repo := NewCandidateRepository(db)

	shortlisted, total, err := repo.FindAll(CandidateFilter{Status: statuses.ATSShortlisted})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, shortlisted, 2)

	byJob, total, err := repo.FindAll(CandidateFilter{JobID: &job.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byJob, 2)

	page, total, err := repo.FindAll(CandidateFilter{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestFindAllSearchesAcrossNameEmailAndJobTitle(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	other := createJob(t, db, "Data Analyst")

	createCandidate(t, db, job, "Asha", "asha@example.com", statuses.ATSShortlisted)
	createCandidate(t, db, other, "Ravi", "ravi@example.com", statuses.ATSShortlisted)

	repo := NewCandidateRepository(db)

	byName, _, err := repo.FindAll(CandidateFilter{Search: "asha"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Asha", byName[0].FirstName)

	byJobTitle, _, err := repo.FindAll(CandidateFilter{Search: "ANALYST"})
	require.NoError(t, err)
	require.Len(t, byJobTitle, 1)
	assert.Equal(t, "Ravi", byJobTitle[0].FirstName)
}

func TestUpdateStatusUnknownCandidateIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewCandidateRepository(db)

	err := repo.UpdateStatus(42, statuses.ATSShortlisted)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCountGroupedByStatusZeroFills(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	createCandidate(t, db, job, "Asha", "asha@example.com", statuses.ATSShortlisted)

	repo := NewCandidateRepository(db)

	counts, err := repo.CountGroupedByStatus([]string{statuses.ATSShortlisted, statuses.CandidateJoined})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[statuses.ATSShortlisted])
	assert.EqualValues(t, 0, counts[statuses.CandidateJoined])
}

func TestLatestHistoryForStatusPicksNewestMatch(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	candidate := createCandidate(t, db, job, "Asha", "asha@example.com", statuses.L1InterviewScheduled)

	repo := NewCandidateRepository(db)
	base := time.Now().Add(-time.Hour)
	for i, comment := range []string{"first booking", "second booking"} {
		require.NoError(t, repo.AppendHistory(&models.StatusHistory{
			CandidateID:       candidate.ID,
			StatusCode:        statuses.CodeOf(statuses.L1InterviewScheduled),
			StatusDescription: statuses.L1InterviewScheduled,
			Comments:          comment,
			ChangedBy:         "Priya",
			ChangedAt:         base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entry, err := repo.LatestHistoryForStatus(candidate.ID, statuses.L1InterviewScheduled)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "second booking", entry.Comments)

	none, err := repo.LatestHistoryForStatus(candidate.ID, statuses.CandidateJoined)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDeleteCascadeLeavesOtherCandidatesAlone(t *testing.T) {
	db := newTestDB(t)
	job := createJob(t, db, "Backend Engineer")
	doomed := createCandidate(t, db, job, "Asha", "asha@example.com", statuses.ATSShortlisted)
	kept := createCandidate(t, db, job, "Ravi", "ravi@example.com", statuses.ATSShortlisted)

	require.NoError(t, db.Create(&models.Interview{CandidateID: doomed.ID, RoundNumber: 1}).Error)
	require.NoError(t, db.Create(&models.Interview{CandidateID: kept.ID, RoundNumber: 1}).Error)

	repo := NewCandidateRepository(db)
	require.NoError(t, repo.DeleteCascade([]uint{doomed.ID}))

	var candidates, interviews int64
	require.NoError(t, db.Model(&models.Candidate{}).Count(&candidates).Error)
	require.NoError(t, db.Model(&models.Interview{}).Count(&interviews).Error)
	assert.EqualValues(t, 1, candidates)
	assert.EqualValues(t, 1, interviews)
}
