package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
)

type InterviewHandler struct {
	interviewRepo repositories.InterviewRepository
	candidateRepo repositories.CandidateRepository
}

func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	candidateRepo repositories.CandidateRepository,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
		candidateRepo: candidateRepo,
	}
}

// HandleList handles GET /candidates/:id/interviews
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	if _, err := h.candidateRepo.FindByID(uint(id)); err != nil {
		return err
	}

	interviews, err := h.interviewRepo.FindByCandidate(uint(id))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"interviews": interviews})
}

// HandleCreate handles POST /candidates/:id/interviews. Recording a scored
// round also refreshes the candidate's overall interview score, the mean of
// all scored rounds.
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	if _, err := h.candidateRepo.FindByID(uint(id)); err != nil {
		return err
	}

	var req models.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.RoundNumber <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "round_number must be a positive integer",
		})
	}

	interview := &models.Interview{
		CandidateID:     uint(id),
		RoundNumber:     req.RoundNumber,
		InterviewerName: req.InterviewerName,
		Score:           req.Score,
		Feedback:        req.Feedback,
		Status:          "Scheduled",
	}

	if req.InterviewDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.InterviewDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "interview_date must be RFC3339 formatted",
			})
		}
		interview.InterviewDate = &parsed
	}

	// A round with feedback or a score is done, not upcoming.
	if req.Score != nil || req.Feedback != "" {
		interview.Status = "Completed"
	}

	if err := h.interviewRepo.Create(interview); err != nil {
		return err
	}

	if req.Score != nil {
		if err := h.refreshOverallScore(uint(id)); err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

func (h *InterviewHandler) refreshOverallScore(candidateID uint) error {
	interviews, err := h.interviewRepo.FindByCandidate(candidateID)
	if err != nil {
		return err
	}

	var sum float64
	var scored int
	for _, iv := range interviews {
		if iv.Score != nil {
			sum += *iv.Score
			scored++
		}
	}
	if scored == 0 {
		return nil
	}

	return h.candidateRepo.UpdateOverallScore(candidateID, sum/float64(scored))
}
