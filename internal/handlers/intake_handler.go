package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/services"
)

type IntakeHandler struct {
	orchestrator     services.IntakeOrchestrator
	storage          services.StorageService
	tasks            *services.TaskRegistry
	defaultThreshold float64
}

func NewIntakeHandler(
	orchestrator services.IntakeOrchestrator,
	storage services.StorageService,
	tasks *services.TaskRegistry,
	defaultThreshold float64,
) *IntakeHandler {
	return &IntakeHandler{
		orchestrator:     orchestrator,
		storage:          storage,
		tasks:            tasks,
		defaultThreshold: defaultThreshold,
	}
}

// HandleBulkProcess handles POST /candidates/bulk-process. It saves the
// uploaded files, registers a task, and returns 202 immediately; the batch
// runs in the background and is polled via the task endpoints.
func (h *IntakeHandler) HandleBulkProcess(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one file is required",
		})
	}

	jobID, err := strconv.Atoi(c.FormValue("job_id"))
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid job_id is required",
		})
	}

	threshold := h.defaultThreshold
	if raw := c.FormValue("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "threshold must be a number between 0 and 100",
			})
		}
		threshold = parsed
	}

	actor := c.FormValue("changed_by")
	if actor == "" {
		actor = "System"
	}

	task := h.tasks.Create(len(files))

	batchDir, err := h.storage.CreateBatchDir(task.ID)
	if err != nil {
		h.tasks.Finish(task.ID, services.TaskFailed, "failed to prepare batch storage")
		return err
	}

	saved := make([]string, 0, len(files))
	for _, file := range files {
		path, err := h.storage.SaveToDir(file, batchDir)
		if err != nil {
			h.storage.RemoveDir(batchDir)
			h.tasks.Finish(task.ID, services.TaskFailed, "failed to save uploaded files")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to save " + file.Filename + ": " + err.Error(),
			})
		}
		saved = append(saved, path)
	}

	// Detached from the request context: the batch outlives this response.
	go h.orchestrator.ProcessBatch(context.Background(), task.ID, batchDir, saved, uint(jobID), threshold, actor)

	log.Printf("📥 Accepted intake batch %s: %d files for job %d\n", task.ID, len(saved), jobID)

	return c.Status(fiber.StatusAccepted).JSON(models.IntakeResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	})
}

// HandleGetTask handles GET /tasks/:id
func (h *IntakeHandler) HandleGetTask(c *fiber.Ctx) error {
	task, err := h.tasks.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// HandleCancelTask handles POST /tasks/:id/cancel
func (h *IntakeHandler) HandleCancelTask(c *fiber.Ctx) error {
	if err := h.tasks.Cancel(c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Cancellation requested"})
}
