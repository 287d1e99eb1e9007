package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/services"
)

type JobHandler struct {
	jobRepo  repositories.JobRepository
	pipeline services.PipelineService
}

func NewJobHandler(jobRepo repositories.JobRepository, pipeline services.PipelineService) *JobHandler {
	return &JobHandler{
		jobRepo:  jobRepo,
		pipeline: pipeline,
	}
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll(c.Query("search"))
	if err != nil {
		return err
	}

	summaries := make([]models.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, models.JobSummary{
			ID:             job.ID,
			Title:          job.Title,
			Location:       job.Location,
			CreatedAt:      job.CreatedAt.Format(time.RFC3339),
			CandidateCount: len(job.Candidates),
		})
	}

	return c.JSON(fiber.Map{"jobs": summaries})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	job, err := h.jobRepo.FindByID(uint(id))
	if err != nil {
		return err
	}

	return c.JSON(job)
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	if strings.TrimSpace(req.DescriptionText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "description_text is required",
		})
	}

	job := &models.JobPosting{
		Title:           req.Title,
		DescriptionText: req.DescriptionText,
		Location:        req.Location,
		SalaryRange:     req.SalaryRange,
		RequiredSkills:  req.RequiredSkills,
		MinExperience:   req.MinExperience,
	}

	if err := h.jobRepo.Create(job); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleUpdate handles PUT /jobs/:id
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	job, err := h.jobRepo.FindByID(uint(id))
	if err != nil {
		return err
	}

	var req models.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.DescriptionText != "" {
		job.DescriptionText = req.DescriptionText
	}
	if req.Location != "" {
		job.Location = req.Location
	}
	if req.SalaryRange != "" {
		job.SalaryRange = req.SalaryRange
	}
	if req.RequiredSkills != "" {
		job.RequiredSkills = req.RequiredSkills
	}
	if req.MinExperience != "" {
		job.MinExperience = req.MinExperience
	}

	if err := h.jobRepo.Update(job); err != nil {
		return err
	}

	return c.JSON(job)
}

// HandleBulkDelete handles DELETE /jobs/bulk
func (h *JobHandler) HandleBulkDelete(c *fiber.Ctx) error {
	var req models.BulkDeleteJobsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(req.JobIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_ids is required",
		})
	}

	if err := h.pipeline.BulkDeleteJobs(req.JobIDs); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Jobs deleted successfully",
		"deleted": len(req.JobIDs),
	})
}
