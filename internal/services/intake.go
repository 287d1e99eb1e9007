package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"gorm.io/gorm"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/statuses"
)

// IntakeOrchestrator runs one resume batch end to end: extract and score the
// files concurrently, then create candidates and update counters from a
// single aggregating goroutine. One bad file fails that item, never the
// batch.
type IntakeOrchestrator interface {
	ProcessBatch(ctx context.Context, taskID, batchDir string, filePaths []string, jobID uint, threshold float64, actor string)
}

type intakeOrchestrator struct {
	db          *gorm.DB
	pipeline    PipelineService
	extractor   TextExtractor
	scorer      Scorer
	storage     StorageService
	tasks       *TaskRegistry
	notifier    NotificationDispatcher
	search      CandidateSearchService
	concurrency int
}

func NewIntakeOrchestrator(
	db *gorm.DB,
	pipeline PipelineService,
	extractor TextExtractor,
	scorer Scorer,
	storage StorageService,
	tasks *TaskRegistry,
	notifier NotificationDispatcher,
	search CandidateSearchService,
	concurrency int,
) IntakeOrchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &intakeOrchestrator{
		db:          db,
		pipeline:    pipeline,
		extractor:   extractor,
		scorer:      scorer,
		storage:     storage,
		tasks:       tasks,
		notifier:    notifier,
		search:      search,
		concurrency: concurrency,
	}
}

// itemResult carries one worker's output to the aggregator. Exactly one of
// score or err is set.
type itemResult struct {
	path       string
	resumeText string
	score      *ScoreResult
	err        error
}

// ProcessBatch is meant to run in its own goroutine; progress is reported
// through the task registry. The batch directory is removed on every exit
// path.
func (o *intakeOrchestrator) ProcessBatch(ctx context.Context, taskID, batchDir string, filePaths []string, jobID uint, threshold float64, actor string) {
	defer o.storage.RemoveDir(batchDir)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Intake task %s panicked: %v\n", taskID, r)
			o.tasks.Finish(taskID, TaskFailed, fmt.Sprintf("internal error: %v", r))
		}
	}()

	job, err := repositories.NewJobRepository(o.db).FindByID(jobID)
	if err != nil {
		log.Printf("❌ Intake task %s aborted, job %d lookup failed: %v\n", taskID, jobID, err)
		o.tasks.Finish(taskID, TaskFailed, fmt.Sprintf("job posting %d not found", jobID))
		return
	}

	o.tasks.MarkProcessing(taskID)
	log.Printf("🚀 Intake task %s started: %d files for job '%s'\n", taskID, len(filePaths), job.Title)

	jobsChan := make(chan string)
	results := make(chan itemResult)

	var wg sync.WaitGroup
	for i := 0; i < o.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobsChan {
				results <- o.processFile(ctx, path, job)
			}
		}()
	}

	// Feeder checks for cancellation before dispatching each item, so a
	// cancel takes effect between files, never mid-file.
	go func() {
		defer close(jobsChan)
		for _, path := range filePaths {
			if o.tasks.IsCancelled(taskID) || ctx.Err() != nil {
				return
			}
			select {
			case jobsChan <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregator: all candidate creation and counter updates happen
	// here, in one goroutine, so the database writes never race.
	for res := range results {
		outcome := o.recordItem(ctx, taskID, job, res, threshold, actor)
		o.tasks.Record(taskID, outcome)
	}

	if o.tasks.IsCancelled(taskID) || ctx.Err() != nil {
		o.tasks.Finish(taskID, TaskCancelled, "")
		log.Printf("🛑 Intake task %s cancelled\n", taskID)
		return
	}

	o.tasks.Finish(taskID, TaskCompleted, "")
	log.Printf("✅ Intake task %s completed\n", taskID)
}

// processFile extracts and scores one resume. Runs on a worker goroutine and
// touches no shared state.
func (o *intakeOrchestrator) processFile(ctx context.Context, path string, job *models.JobPosting) itemResult {
	text, err := o.extractor.Extract(path)
	if err != nil {
		return itemResult{path: path, err: fmt.Errorf("failed to extract text: %w", err)}
	}

	score, err := o.scorer.Score(ctx, text, job.DescriptionText, job.MinExperience)
	if err != nil {
		return itemResult{path: path, err: fmt.Errorf("failed to score resume: %w", err)}
	}

	return itemResult{path: path, resumeText: text, score: score}
}

// recordItem turns one worker result into a stored candidate (or a skipped
// or failed counter bump). Runs only on the aggregator goroutine.
func (o *intakeOrchestrator) recordItem(ctx context.Context, taskID string, job *models.JobPosting, res itemResult, threshold float64, actor string) ItemOutcome {
	fileName := filepath.Base(res.path)

	if res.err != nil {
		log.Printf("⚠️  Task %s: %s failed: %v\n", taskID, fileName, res.err)
		return OutcomeFailed
	}

	email := strings.TrimSpace(strings.ToLower(res.score.Email))
	if email == "" {
		base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		email = strings.ToLower(SanitizeFilename(base)) + "@placeholder.email"
	}

	existing, err := repositories.NewCandidateRepository(o.db).FindByEmailAndJob(email, job.ID)
	if err != nil {
		log.Printf("⚠️  Task %s: duplicate check for %s failed: %v\n", taskID, email, err)
		return OutcomeFailed
	}
	if existing != nil {
		log.Printf("⏭️  Task %s: %s already applied to job %d, skipping\n", taskID, email, job.ID)
		return OutcomeSkipped
	}

	firstName, lastName := splitCandidateName(res.score.CandidateName, fileName)

	status := statuses.ResumeDeclined
	if res.score.Score >= threshold {
		status = statuses.ATSShortlisted
	}

	var phone *string
	if formatted := FormatWhatsAppNumber(res.score.Phone); formatted != "" {
		phone = &formatted
	}

	resumePath := ""
	if archived, err := o.storage.ArchiveResume(res.path); err != nil {
		log.Printf("⚠️  Task %s: failed to archive %s: %v\n", taskID, fileName, err)
	} else {
		resumePath = archived
	}

	candidate := &models.Candidate{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		PhoneNumber:   phone,
		ResumePath:    resumePath,
		ResumeText:    res.resumeText,
		JobPostingID:  &job.ID,
		CurrentStatus: status,
		ATSScore:      res.score.Score,
		AIAnalysis:    string(res.score.Analysis),
	}

	comments := fmt.Sprintf("ATS Score: %.1f", res.score.Score)
	if err := o.pipeline.CreateScoredCandidate(candidate, comments, actor); err != nil {
		log.Printf("⚠️  Task %s: failed to create candidate for %s: %v\n", taskID, fileName, err)
		return OutcomeFailed
	}

	if status == statuses.ATSShortlisted {
		candidate.JobPosting = job
		if o.notifier != nil {
			if err := o.notifier.NotifyShortlisted(candidate, job); err != nil {
				log.Printf("⚠️  Task %s: shortlist alert for %s failed: %v\n", taskID, email, err)
			}
		}
		if o.search != nil {
			if err := o.search.IndexCandidate(ctx, candidate, res.resumeText); err != nil {
				log.Printf("⚠️  Task %s: failed to index candidate %d: %v\n", taskID, candidate.ID, err)
			}
		}
		return OutcomeShortlisted
	}

	return OutcomeRejected
}

// splitCandidateName turns the scorer's extracted name into first and last
// name columns, falling back to the file name when extraction found nothing.
func splitCandidateName(fullName, fileName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		return "Candidate", "(" + base + ")"
	}
	parts := strings.Fields(fullName)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
