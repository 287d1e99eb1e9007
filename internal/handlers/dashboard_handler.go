package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/statuses"
)

type DashboardHandler struct {
	jobRepo       repositories.JobRepository
	candidateRepo repositories.CandidateRepository
}

func NewDashboardHandler(
	jobRepo repositories.JobRepository,
	candidateRepo repositories.CandidateRepository,
) *DashboardHandler {
	return &DashboardHandler{
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
	}
}

// HandleStats handles GET /dashboard/stats
func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	activeJobs, err := h.jobRepo.Count()
	if err != nil {
		return err
	}

	shortlisted, err := h.candidateRepo.CountByStatuses([]string{statuses.ATSShortlisted})
	if err != nil {
		return err
	}

	var interviewing, offers int64
	for _, tab := range statuses.Tabs() {
		switch tab.Name {
		case statuses.TabInterviewing:
			interviewing, err = h.candidateRepo.CountByStatuses(tab.Members)
		case statuses.TabOffers:
			offers, err = h.candidateRepo.CountByStatuses(tab.Members)
		}
		if err != nil {
			return err
		}
	}

	return c.JSON(models.DashboardStats{
		ActiveJobs:             activeJobs,
		TotalCandidates:        shortlisted,
		CandidatesInterviewing: interviewing,
		OffersExtended:         offers,
	})
}

// HandleDistribution handles GET /candidates/distribution. One count per
// board tab, every tab present even when empty.
func (h *DashboardHandler) HandleDistribution(c *fiber.Ctx) error {
	distribution := make([]fiber.Map, 0)
	for _, tab := range statuses.Tabs() {
		count, err := h.candidateRepo.CountByStatuses(tab.Members)
		if err != nil {
			return err
		}
		distribution = append(distribution, fiber.Map{
			"tab":   tab.Name,
			"count": count,
		})
	}

	return c.JSON(fiber.Map{"distribution": distribution})
}

// HandleCounts handles GET /candidates/counts. Per-stage counts for the
// pipeline board.
func (h *DashboardHandler) HandleCounts(c *fiber.Ctx) error {
	stages := statuses.PipelineStages()
	counts, err := h.candidateRepo.CountGroupedByStatus(stages)
	if err != nil {
		return err
	}

	ordered := make([]fiber.Map, 0, len(stages))
	for _, stage := range stages {
		ordered = append(ordered, fiber.Map{
			"status": stage,
			"count":  counts[stage],
		})
	}

	return c.JSON(fiber.Map{"counts": ordered})
}
