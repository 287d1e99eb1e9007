package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/statuses"
)

// fakeExtractor returns the file's content as its resume text, failing for
// any file whose name contains "broken".
type fakeExtractor struct{}

func (fakeExtractor) Extract(filePath string) (string, error) {
	if strings.Contains(filepath.Base(filePath), "broken") {
		return "", errors.New("unreadable file")
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// fakeScorer maps resume text to a canned result.
type fakeScorer struct {
	results map[string]*ScoreResult
}

func (f *fakeScorer) Score(_ context.Context, resumeText, _, _ string) (*ScoreResult, error) {
	if result, ok := f.results[resumeText]; ok {
		return result, nil
	}
	return nil, errors.New("model unavailable")
}

// blockingScorer parks every Score call until release is closed, so a test
// can cancel the task while items are in flight.
type blockingScorer struct {
	inner   *fakeScorer
	started chan struct{}
	release chan struct{}
}

func (b *blockingScorer) Score(ctx context.Context, resumeText, jobDescription, minExperience string) (*ScoreResult, error) {
	b.started <- struct{}{}
	<-b.release
	return b.inner.Score(ctx, resumeText, jobDescription, minExperience)
}

type recordingNotifier struct {
	shortlistAlerts int
}

func (r *recordingNotifier) SendStatusUpdate(*models.Candidate, string) error { return nil }

func (r *recordingNotifier) NotifyShortlisted(*models.Candidate, *models.JobPosting) error {
	r.shortlistAlerts++
	return nil
}

func (r *recordingNotifier) SendBulk([]uint, string, string, string, string) (*BulkSendSummary, error) {
	return &BulkSendSummary{}, nil
}

type intakeFixture struct {
	db       *gorm.DB
	registry *TaskRegistry
	storage  StorageService
	notifier *recordingNotifier
	job      *models.JobPosting
}

func newIntakeFixture(t *testing.T, scorer Scorer) (*intakeFixture, IntakeOrchestrator) {
	t.Helper()
	db := newTestDB(t)
	fx := &intakeFixture{
		db:       db,
		registry: NewTaskRegistry(5 * time.Minute),
		storage:  NewStorageService(t.TempDir(), t.TempDir()),
		notifier: &recordingNotifier{},
		job:      seedJob(t, db, "Backend Engineer"),
	}
	orchestrator := NewIntakeOrchestrator(
		db,
		NewPipelineService(db, nil),
		fakeExtractor{},
		scorer,
		fx.storage,
		fx.registry,
		fx.notifier,
		nil,
		2,
	)
	return fx, orchestrator
}

func (fx *intakeFixture) writeBatch(t *testing.T, taskID string, files map[string]string) (string, []string) {
	t.Helper()
	batchDir, err := fx.storage.CreateBatchDir(taskID)
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(batchDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		paths = append(paths, path)
	}
	return batchDir, paths
}

func TestProcessBatchClassifiesByThreshold(t *testing.T) {
	scorer := &fakeScorer{results: map[string]*ScoreResult{
		"strong resume": {
			Score:         85,
			CandidateName: "Asha Verma",
			Email:         "Asha@Example.com",
			Phone:         "98765 43210",
			Analysis:      []byte(`{"overall_ats_score":85}`),
		},
		"weak resume": {
			Score:         60.2,
			CandidateName: "Ravi Kumar",
			Email:         "ravi@example.com",
		},
	}}
	fx, orchestrator := newIntakeFixture(t, scorer)

	task := fx.registry.Create(3)
	batchDir, paths := fx.writeBatch(t, task.ID, map[string]string{
		"strong.txt": "strong resume",
		"weak.txt":   "weak resume",
		"broken.pdf": "ignored",
	})

	orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, paths, fx.job.ID, 70, "System")

	finished, err := fx.registry.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, finished.Status)
	assert.Equal(t, 3, finished.Processed)
	assert.Equal(t, 1, finished.Shortlisted)
	assert.Equal(t, 1, finished.Rejected)
	assert.Equal(t, 1, finished.Failed)
	assert.Equal(t, 0, finished.Skipped)

	var shortlisted models.Candidate
	require.NoError(t, fx.db.Where("email = ?", "asha@example.com").First(&shortlisted).Error)
	assert.Equal(t, statuses.ATSShortlisted, shortlisted.CurrentStatus)
	assert.Equal(t, "Asha", shortlisted.FirstName)
	assert.Equal(t, "Verma", shortlisted.LastName)
	require.NotNil(t, shortlisted.PhoneNumber)
	assert.Equal(t, "whatsapp:+919876543210", *shortlisted.PhoneNumber)
	assert.NotEmpty(t, shortlisted.ResumePath)

	entry := latestHistory(t, fx.db, shortlisted.ID)
	assert.Equal(t, "ATS Score: 85.0", entry.Comments)

	var rejected models.Candidate
	require.NoError(t, fx.db.Where("email = ?", "ravi@example.com").First(&rejected).Error)
	assert.Equal(t, statuses.ResumeDeclined, rejected.CurrentStatus)

	assert.Equal(t, 1, fx.notifier.shortlistAlerts)

	// the batch directory is cleaned up on completion
	_, statErr := os.Stat(batchDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessBatchFallsBackToFilenameIdentity(t *testing.T) {
	scorer := &fakeScorer{results: map[string]*ScoreResult{
		"anonymous resume": {Score: 90},
	}}
	fx, orchestrator := newIntakeFixture(t, scorer)

	task := fx.registry.Create(1)
	batchDir, paths := fx.writeBatch(t, task.ID, map[string]string{
		"Jane Doe CV.txt": "anonymous resume",
	})

	orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, paths, fx.job.ID, 70, "System")

	var candidate models.Candidate
	require.NoError(t, fx.db.First(&candidate).Error)
	assert.Equal(t, "jane_doe_cv@placeholder.email", candidate.Email)
	assert.Equal(t, "Candidate", candidate.FirstName)
	assert.Contains(t, candidate.LastName, "Jane")
	assert.Nil(t, candidate.PhoneNumber)
}

func TestProcessBatchSkipsDuplicateApplications(t *testing.T) {
	scorer := &fakeScorer{results: map[string]*ScoreResult{
		"repeat resume": {Score: 88, CandidateName: "Asha Verma", Email: "Dup@Example.com"},
	}}
	fx, orchestrator := newIntakeFixture(t, scorer)
	seedCandidate(t, fx.db, fx.job, "dup@example.com", statuses.ATSShortlisted)

	task := fx.registry.Create(1)
	batchDir, paths := fx.writeBatch(t, task.ID, map[string]string{
		"repeat.txt": "repeat resume",
	})

	orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, paths, fx.job.ID, 70, "System")

	finished, err := fx.registry.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, finished.Status)
	assert.Equal(t, 1, finished.Skipped)
	assert.Equal(t, 0, finished.Shortlisted)

	var count int64
	require.NoError(t, fx.db.Model(&models.Candidate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProcessBatchStopsAfterCancellation(t *testing.T) {
	scorer := &fakeScorer{results: map[string]*ScoreResult{
		"some resume": {Score: 80, Email: "a@example.com"},
	}}
	fx, orchestrator := newIntakeFixture(t, scorer)

	task := fx.registry.Create(2)
	batchDir, paths := fx.writeBatch(t, task.ID, map[string]string{
		"one.txt": "some resume",
		"two.txt": "some resume",
	})

	require.NoError(t, fx.registry.Cancel(task.ID))
	orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, paths, fx.job.ID, 70, "System")

	finished, err := fx.registry.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCancelled, finished.Status)
	assert.Equal(t, 0, finished.Processed)
}

func TestProcessBatchCancellationCountsInFlightItems(t *testing.T) {
	scorer := &blockingScorer{
		inner: &fakeScorer{results: map[string]*ScoreResult{
			"resume one":   {Score: 90, Email: "one@example.com"},
			"resume two":   {Score: 90, Email: "two@example.com"},
			"resume three": {Score: 90, Email: "three@example.com"},
			"resume four":  {Score: 90, Email: "four@example.com"},
		}},
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	fx, orchestrator := newIntakeFixture(t, scorer)

	task := fx.registry.Create(4)
	batchDir, paths := fx.writeBatch(t, task.ID, map[string]string{
		"one.txt":   "resume one",
		"two.txt":   "resume two",
		"three.txt": "resume three",
		"four.txt":  "resume four",
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, paths, fx.job.ID, 70, "System")
	}()

	// Both workers now hold an item each; cancel before letting them finish.
	<-scorer.started
	<-scorer.started
	require.NoError(t, fx.registry.Cancel(task.ID))
	close(scorer.release)
	<-done

	finished, err := fx.registry.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCancelled, finished.Status)

	// The items already handed to workers finish normally and are counted
	// (plus at most one the feeder had dispatched before the cancel landed);
	// the rest of the batch is never scheduled.
	assert.GreaterOrEqual(t, finished.Processed, 2)
	assert.LessOrEqual(t, finished.Processed, 3)
	assert.Equal(t, finished.Processed, finished.Shortlisted)

	var count int64
	require.NoError(t, fx.db.Model(&models.Candidate{}).Count(&count).Error)
	assert.EqualValues(t, finished.Processed, count)
}

func TestProcessBatchFailsWhenJobMissing(t *testing.T) {
	fx, orchestrator := newIntakeFixture(t, &fakeScorer{})

	task := fx.registry.Create(1)
	batchDir, paths := fx.writeBatch(t, task.ID, map[string]string{
		"one.txt": "some resume",
	})

	orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, paths, 9999, 70, "System")

	finished, err := fx.registry.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskFailed, finished.Status)
	assert.Contains(t, finished.Error, "9999")
}
