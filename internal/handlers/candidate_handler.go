package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/services"
	"hragent/hiring-pipeline/internal/statuses"
)

// defaultActor is recorded on audit entries when the request names nobody.
const defaultActor = "HR Team"

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	pipeline      services.PipelineService
	search        services.CandidateSearchService
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	pipeline services.PipelineService,
	search services.CandidateSearchService,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		pipeline:      pipeline,
		search:        search,
	}
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.CandidateFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", 50),
	}
	if jobID := c.QueryInt("job_id", 0); jobID > 0 {
		id := uint(jobID)
		filter.JobID = &id
	}

	candidates, total, err := h.candidateRepo.FindAll(filter)
	if err != nil {
		return err
	}

	summaries := make([]models.CandidateSummary, 0, len(candidates))
	for i := range candidates {
		summaries = append(summaries, summarize(&candidates[i]))
	}

	return c.JSON(fiber.Map{
		"candidates": summaries,
		"total":      total,
	})
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	candidate, err := h.candidateRepo.FindByID(uint(id))
	if err != nil {
		return err
	}

	history := make([]models.StatusHistoryEntry, 0, len(candidate.StatusHistory))
	for _, entry := range candidate.StatusHistory {
		history = append(history, models.StatusHistoryEntry{
			StatusDescription: entry.StatusDescription,
			Comments:          entry.Comments,
			ChangedBy:         entry.ChangedBy,
			ChangedAt:         entry.ChangedAt.Format(time.RFC3339),
		})
	}

	analysis := json.RawMessage("null")
	if candidate.AIAnalysis != "" {
		analysis = json.RawMessage(candidate.AIAnalysis)
	}

	return c.JSON(models.CandidateDetail{
		CandidateSummary: summarize(candidate),
		Name:             candidate.FullName(),
		AIAnalysis:       analysis,
		StatusHistory:    history,
		ResumePath:       candidate.ResumePath,
	})
}

// HandleActive handles GET /candidates/active
func (h *CandidateHandler) HandleActive(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.FindActive()
	if err != nil {
		return err
	}

	summaries := make([]models.CandidateSummary, 0, len(candidates))
	for i := range candidates {
		summaries = append(summaries, summarize(&candidates[i]))
	}

	return c.JSON(fiber.Map{"candidates": summaries})
}

// HandleUpdateStatus handles POST /candidates/:id/status
func (h *CandidateHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	var req models.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Status) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status is required",
		})
	}

	actor := req.ChangedBy
	if actor == "" {
		actor = defaultActor
	}

	candidate, err := h.pipeline.UpdateStatus(uint(id), req.Status, req.Comments, actor)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Status updated successfully",
		"candidate": summarize(candidate),
	})
}

// HandleReschedule handles POST /candidates/:id/reschedule
func (h *CandidateHandler) HandleReschedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	var req models.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	actor := req.ChangedBy
	if actor == "" {
		actor = defaultActor
	}

	candidate, err := h.pipeline.Reschedule(uint(id), req.Comments, actor)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Interview rescheduled",
		"candidate": summarize(candidate),
	})
}

// HandleDelete handles DELETE /candidates/:id
func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	if _, err := h.candidateRepo.FindByID(uint(id)); err != nil {
		return err
	}

	if err := h.pipeline.BulkDeleteCandidates([]uint{uint(id)}); err != nil {
		return err
	}

	if h.search != nil {
		if err := h.search.RemoveCandidates(c.Context(), []uint{uint(id)}); err != nil {
			log.Printf("⚠️  Failed to remove candidate %d from search index: %v\n", id, err)
		}
	}

	return c.JSON(fiber.Map{"message": "Candidate deleted successfully"})
}

// HandleBulkDelete handles DELETE /candidates/bulk
func (h *CandidateHandler) HandleBulkDelete(c *fiber.Ctx) error {
	var req models.BulkDeleteCandidatesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(req.CandidateIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_ids is required",
		})
	}

	if err := h.pipeline.BulkDeleteCandidates(req.CandidateIDs); err != nil {
		return err
	}

	// Index cleanup is best-effort; the rows are already gone.
	if h.search != nil {
		if err := h.search.RemoveCandidates(c.Context(), req.CandidateIDs); err != nil {
			log.Printf("⚠️  Failed to remove deleted candidates from search index: %v\n", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Candidates deleted successfully",
		"deleted": len(req.CandidateIDs),
	})
}

// HandleSimilar handles GET /candidates/similar
func (h *CandidateHandler) HandleSimilar(c *fiber.Ctx) error {
	if h.search == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Similarity search is not configured",
		})
	}

	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := c.QueryInt("limit", 10)
	results, err := h.search.FindSimilar(c.Context(), query, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"results": results})
}

// HandleStatuses handles GET /statuses, the dropdown source for status
// updates.
func (h *CandidateHandler) HandleStatuses(c *fiber.Ctx) error {
	all := statuses.All()
	out := make([]fiber.Map, 0, len(all))
	for _, s := range all {
		out = append(out, fiber.Map{
			"code":          s.Code,
			"description":   s.Description,
			"tab":           statuses.TabFor(s.Description),
			"reschedulable": statuses.Reschedulable(s.Description),
		})
	}
	return c.JSON(fiber.Map{"statuses": out})
}

func summarize(c *models.Candidate) models.CandidateSummary {
	return models.CandidateSummary{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Status:      c.CurrentStatus,
		JobTitle:    c.JobTitle(),
		ATSScore:    c.ATSScore,
	}
}
