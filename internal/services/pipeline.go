package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/statuses"
)

// PipelineService is the one code path for every candidate status mutation.
// It keeps the invariant that a candidate's current_status always equals the
// newest status history entry: both are written in the same transaction.
type PipelineService interface {
	UpdateStatus(candidateID uint, newStatus, comments, actor string) (*models.Candidate, error)
	Reschedule(candidateID uint, reason, actor string) (*models.Candidate, error)
	CreateScoredCandidate(candidate *models.Candidate, comments, actor string) error
	BulkDeleteCandidates(ids []uint) error
	BulkDeleteJobs(ids []uint) error
}

type pipelineService struct {
	db       *gorm.DB
	notifier NotificationDispatcher
}

func NewPipelineService(db *gorm.DB, notifier NotificationDispatcher) PipelineService {
	return &pipelineService{
		db:       db,
		notifier: notifier,
	}
}

// UpdateStatus validates and applies a transition, then fires the status
// notification as a best-effort side effect. Notification failure never
// rolls back the committed transition.
func (s *pipelineService) UpdateStatus(candidateID uint, newStatus, comments, actor string) (*models.Candidate, error) {
	if !statuses.IsValid(newStatus) {
		return nil, apperrors.NewValidation("invalid status: %q", newStatus)
	}

	repo := repositories.NewCandidateRepository(s.db)
	if _, err := repo.FindByID(candidateID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := repositories.NewCandidateRepository(tx)
		if err := txRepo.UpdateStatus(candidateID, newStatus); err != nil {
			return err
		}
		return txRepo.AppendHistory(&models.StatusHistory{
			CandidateID:       candidateID,
			StatusCode:        statuses.CodeOf(newStatus),
			StatusDescription: newStatus,
			Comments:          comments,
			ChangedBy:         actor,
			ChangedAt:         time.Now(),
		})
	})
	if err != nil {
		return nil, wrapTxError(err, "failed to update candidate status")
	}

	updated, err := repo.FindByID(candidateID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendStatusUpdate(updated, newStatus); err != nil {
			log.Printf("❌ Failed to send status email for candidate %d: %v\n", candidateID, err)
		}
	}

	return updated, nil
}

// Reschedule moves a candidate from a scheduled interview status into its
// "-Re-scheduled" successor. The reason is appended to the history entry
// that scheduled the interview being moved, so the reason stays attached to
// the record it explains.
func (s *pipelineService) Reschedule(candidateID uint, reason, actor string) (*models.Candidate, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidation("a reschedule reason is required")
	}

	repo := repositories.NewCandidateRepository(s.db)
	candidate, err := repo.FindByID(candidateID)
	if err != nil {
		return nil, err
	}

	target, ok := statuses.RescheduleTarget(candidate.CurrentStatus)
	if !ok {
		return nil, apperrors.NewValidation("cannot reschedule from status %q", candidate.CurrentStatus)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := repositories.NewCandidateRepository(tx)

		prev, err := txRepo.LatestHistoryForStatus(candidateID, candidate.CurrentStatus)
		if err != nil {
			return err
		}
		if prev != nil {
			comments := strings.TrimSpace(prev.Comments + fmt.Sprintf(" [Rescheduled: %s]", reason))
			if err := txRepo.UpdateHistoryComments(prev.ID, comments); err != nil {
				return err
			}
		}

		if err := txRepo.UpdateStatus(candidateID, target); err != nil {
			return err
		}
		return txRepo.AppendHistory(&models.StatusHistory{
			CandidateID:       candidateID,
			StatusCode:        statuses.CodeOf(target),
			StatusDescription: target,
			Comments:          "Awaiting new interview time.",
			ChangedBy:         actor,
			ChangedAt:         time.Now(),
		})
	})
	if err != nil {
		return nil, wrapTxError(err, "failed to reschedule candidate")
	}

	return repo.FindByID(candidateID)
}

// CreateScoredCandidate persists a new candidate together with the audit
// entry for their initial status, atomically.
func (s *pipelineService) CreateScoredCandidate(candidate *models.Candidate, comments, actor string) error {
	if !statuses.IsValid(candidate.CurrentStatus) {
		return apperrors.NewValidation("invalid status: %q", candidate.CurrentStatus)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := repositories.NewCandidateRepository(tx)
		if err := txRepo.Create(candidate); err != nil {
			return err
		}
		return txRepo.AppendHistory(&models.StatusHistory{
			CandidateID:       candidate.ID,
			StatusCode:        statuses.CodeOf(candidate.CurrentStatus),
			StatusDescription: candidate.CurrentStatus,
			Comments:          comments,
			ChangedBy:         actor,
			ChangedAt:         time.Now(),
		})
	})
	if err != nil {
		return wrapTxError(err, "failed to create candidate")
	}
	return nil
}

// BulkDeleteCandidates removes candidates and all their child rows in one
// transaction. Any failure rolls the whole delete back.
func (s *pipelineService) BulkDeleteCandidates(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return repositories.NewCandidateRepository(tx).DeleteCascade(ids)
	})
	if err != nil {
		return wrapTxError(err, "failed to bulk delete candidates")
	}
	return nil
}

// BulkDeleteJobs cascades through every candidate owned by the given jobs
// before removing the jobs themselves, all in one transaction.
func (s *pipelineService) BulkDeleteJobs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txJobs := repositories.NewJobRepository(tx)

		candidateIDs, err := txJobs.CandidateIDsForJobs(ids)
		if err != nil {
			return err
		}
		if err := repositories.NewCandidateRepository(tx).DeleteCascade(candidateIDs); err != nil {
			return err
		}
		return txJobs.DeleteByIDs(ids)
	})
	if err != nil {
		return wrapTxError(err, "failed to bulk delete jobs")
	}
	return nil
}

// wrapTxError keeps application errors intact and classifies everything
// else as a database failure (the transaction has already rolled back).
func wrapTxError(err error, msg string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewDatabase(err, "%s", msg)
}
