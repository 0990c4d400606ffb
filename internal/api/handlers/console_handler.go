package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ragfloe/backend/internal/chat"
	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/storage"
)

type ConsoleHandler struct {
	sessions *chat.Manager
	projects storage.ProjectRepository
}

func NewConsoleHandler(sessions *chat.Manager, projects storage.ProjectRepository) *ConsoleHandler {
	return &ConsoleHandler{sessions: sessions, projects: projects}
}

func (h *ConsoleHandler) GetTranscript(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(h.sessions.Get(projectID).Snapshot())
}

func (h *ConsoleHandler) SubmitQuery(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sess := h.sessions.Get(projectID)
	if err := sess.SubmitQuery(req.Query); err != nil {
		metrics.ConsoleQueries.WithLabelValues("rejected").Inc()
		status := fiber.StatusBadRequest
		if errors.Is(err, chat.ErrBusy) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.ConsoleQueries.WithLabelValues("accepted").Inc()
	return c.Status(fiber.StatusAccepted).JSON(sess.Snapshot())
}

func (h *ConsoleHandler) ClearTranscript(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	sess := h.sessions.Get(projectID)
	sess.Clear()
	return c.JSON(sess.Snapshot())
}
