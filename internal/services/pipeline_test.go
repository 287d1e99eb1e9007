package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/statuses"
)

// failingNotifier always errors, to prove delivery never affects state.
type failingNotifier struct {
	calls int
}

func (f *failingNotifier) SendStatusUpdate(*models.Candidate, string) error {
	f.calls++
	return errors.New("smtp is down")
}

func (f *failingNotifier) NotifyShortlisted(*models.Candidate, *models.JobPosting) error {
	return errors.New("smtp is down")
}

func (f *failingNotifier) SendBulk([]uint, string, string, string, string) (*BulkSendSummary, error) {
	return nil, errors.New("smtp is down")
}

func TestUpdateStatusWritesCandidateAndHistoryTogether(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.CandidateEnteredBySystem)

	svc := NewPipelineService(db, nil)

	updated, err := svc.UpdateStatus(candidate.ID, statuses.L1InterviewScheduled, "Panel on Friday", "Priya")
	require.NoError(t, err)
	assert.Equal(t, statuses.L1InterviewScheduled, updated.CurrentStatus)

	entry := latestHistory(t, db, candidate.ID)
	assert.Equal(t, statuses.L1InterviewScheduled, entry.StatusDescription)
	assert.Equal(t, statuses.CodeOf(statuses.L1InterviewScheduled), entry.StatusCode)
	assert.Equal(t, "Panel on Friday", entry.Comments)
	assert.Equal(t, "Priya", entry.ChangedBy)
	assert.EqualValues(t, 2, historyCount(t, db, candidate.ID))
}

func TestUpdateStatusRejectsUnknownStatusWithoutWriting(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.ATSShortlisted)

	svc := NewPipelineService(db, nil)

	_, err := svc.UpdateStatus(candidate.ID, "Totally Made Up", "", "Priya")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	var reloaded models.Candidate
	require.NoError(t, db.First(&reloaded, candidate.ID).Error)
	assert.Equal(t, statuses.ATSShortlisted, reloaded.CurrentStatus)
	assert.EqualValues(t, 1, historyCount(t, db, candidate.ID))
}

func TestUpdateStatusUnknownCandidate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPipelineService(db, nil)

	_, err := svc.UpdateStatus(999, statuses.ATSShortlisted, "", "Priya")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatusSurvivesNotifierFailure(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.CandidateEnteredBySystem)

	notifier := &failingNotifier{}
	svc := NewPipelineService(db, notifier)

	updated, err := svc.UpdateStatus(candidate.ID, statuses.ATSShortlisted, "", "Priya")
	require.NoError(t, err)
	assert.Equal(t, statuses.ATSShortlisted, updated.CurrentStatus)
	assert.Equal(t, 1, notifier.calls)
}

func TestRescheduleMovesStatusAndAnnotatesPreviousEntry(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.CandidateEnteredBySystem)

	svc := NewPipelineService(db, nil)

	_, err := svc.UpdateStatus(candidate.ID, statuses.L1InterviewScheduled, "Interview on Monday 10am", "Priya")
	require.NoError(t, err)

	updated, err := svc.Reschedule(candidate.ID, "Panel unavailable", "Priya")
	require.NoError(t, err)
	assert.Equal(t, statuses.L1Rescheduled, updated.CurrentStatus)

	newest := latestHistory(t, db, candidate.ID)
	assert.Equal(t, statuses.L1Rescheduled, newest.StatusDescription)
	assert.Equal(t, "Awaiting new interview time.", newest.Comments)

	var scheduled models.StatusHistory
	require.NoError(t, db.
		Where("candidate_id = ? AND status_description = ?", candidate.ID, statuses.L1InterviewScheduled).
		First(&scheduled).Error)
	assert.Equal(t, "Interview on Monday 10am [Rescheduled: Panel unavailable]", scheduled.Comments)
}

func TestRescheduleRejectedOutsideScheduledStatuses(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.ATSShortlisted)

	svc := NewPipelineService(db, nil)

	_, err := svc.Reschedule(candidate.ID, "Panel unavailable", "Priya")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualValues(t, 1, historyCount(t, db, candidate.ID))
}

func TestRescheduleRequiresReason(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.L1InterviewScheduled)

	svc := NewPipelineService(db, nil)

	_, err := svc.Reschedule(candidate.ID, "   ", "Priya")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateScoredCandidateWritesInitialAudit(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")

	svc := NewPipelineService(db, nil)

	candidate := &models.Candidate{
		FirstName:     "Ravi",
		Email:         "ravi@example.com",
		JobPostingID:  &job.ID,
		CurrentStatus: statuses.ATSShortlisted,
		ATSScore:      82.5,
	}
	require.NoError(t, svc.CreateScoredCandidate(candidate, "ATS Score: 82.5", "System"))
	require.NotZero(t, candidate.ID)

	entry := latestHistory(t, db, candidate.ID)
	assert.Equal(t, statuses.ATSShortlisted, entry.StatusDescription)
	assert.Equal(t, "ATS Score: 82.5", entry.Comments)
	assert.Equal(t, "System", entry.ChangedBy)
}

func TestBulkDeleteCandidatesCascades(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.L1Selected)

	require.NoError(t, db.Create(&models.Interview{
		CandidateID: candidate.ID,
		RoundNumber: 1,
		Feedback:    "Strong on fundamentals",
	}).Error)
	require.NoError(t, db.Create(&models.Verification{
		CandidateID: candidate.ID,
		Type:        "Background Check",
	}).Error)

	svc := NewPipelineService(db, nil)
	require.NoError(t, svc.BulkDeleteCandidates([]uint{candidate.ID}))

	for _, model := range []interface{}{
		&models.Candidate{}, &models.Interview{}, &models.Verification{}, &models.StatusHistory{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestBulkDeleteCandidatesRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	job := seedJob(t, db, "Backend Engineer")
	candidate := seedCandidate(t, db, job, "asha@example.com", statuses.L1Selected)

	require.NoError(t, db.Create(&models.Interview{
		CandidateID: candidate.ID,
		RoundNumber: 1,
		Feedback:    "Strong on fundamentals",
	}).Error)

	// Break the history table so the cascade fails after the interview rows
	// have already been deleted inside the transaction.
	require.NoError(t, db.Exec("DROP TABLE status_history").Error)

	svc := NewPipelineService(db, nil)
	err := svc.BulkDeleteCandidates([]uint{candidate.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsDatabase(err))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "failed to bulk delete candidates", appErr.Message)

	var interviewCount, candidateCount int64
	require.NoError(t, db.Model(&models.Interview{}).Count(&interviewCount).Error)
	require.NoError(t, db.Model(&models.Candidate{}).Count(&candidateCount).Error)
	assert.EqualValues(t, 1, interviewCount)
	assert.EqualValues(t, 1, candidateCount)
}

func TestBulkDeleteJobsRemovesOwnedCandidates(t *testing.T) {
	db := newTestDB(t)
	keep := seedJob(t, db, "Backend Engineer")
	drop := seedJob(t, db, "Data Analyst")

	kept := seedCandidate(t, db, keep, "kept@example.com", statuses.ATSShortlisted)
	seedCandidate(t, db, drop, "dropped@example.com", statuses.ATSShortlisted)

	svc := NewPipelineService(db, nil)
	require.NoError(t, svc.BulkDeleteJobs([]uint{drop.ID}))

	var jobCount, candidateCount int64
	require.NoError(t, db.Model(&models.JobPosting{}).Count(&jobCount).Error)
	require.NoError(t, db.Model(&models.Candidate{}).Count(&candidateCount).Error)
	assert.EqualValues(t, 1, jobCount)
	assert.EqualValues(t, 1, candidateCount)

	var survivor models.Candidate
	require.NoError(t, db.First(&survivor, kept.ID).Error)
	assert.Equal(t, "kept@example.com", survivor.Email)
}
