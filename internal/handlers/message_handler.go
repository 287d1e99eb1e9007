package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hragent/hiring-pipeline/internal/models"
	"hragent/hiring-pipeline/internal/services"
)

type MessageHandler struct {
	notifier services.NotificationDispatcher
}

func NewMessageHandler(notifier services.NotificationDispatcher) *MessageHandler {
	return &MessageHandler{notifier: notifier}
}

// HandleBulkSend handles POST /messages/bulk-send
func (h *MessageHandler) HandleBulkSend(c *fiber.Ctx) error {
	var req models.BulkMessageRequest
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
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}
	if req.Channel == services.ChannelEmail && strings.TrimSpace(req.Subject) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subject is required for email messages",
		})
	}

	actor := req.ChangedBy
	if actor == "" {
		actor = defaultActor
	}

	summary, err := h.notifier.SendBulk(req.CandidateIDs, req.Channel, req.Subject, req.Message, actor)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Bulk send finished",
		"success": summary.Success,
		"failed":  summary.Failed,
	})
}
