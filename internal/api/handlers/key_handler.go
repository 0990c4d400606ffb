package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/storage"
)

type KeyHandler struct {
	keys     storage.APIKeyRepository
	projects storage.ProjectRepository
}

func NewKeyHandler(keys storage.APIKeyRepository, projects storage.ProjectRepository) *KeyHandler {
	return &KeyHandler{keys: keys, projects: projects}
}

func (h *KeyHandler) ListKeys(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(fiber.Map{
		"keys": h.keys.ListByProject(projectID),
	})
}

// CreateKey returns the full secret exactly once. Only the masked form is
// retained, so subsequent listings never expose it again.
func (h *KeyHandler) CreateKey(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	key, secret, err := h.keys.Create(projectID, req.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.APIKeysCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key":    key,
		"secret": secret,
	})
}

// RevokeKey is a two-step operation. The first call arms the key for
// revocation, the second call on the same key deletes it.
func (h *KeyHandler) RevokeKey(c *fiber.Ctx) error {
	projectID := c.Params("id")
	keyID := c.Params("keyID")

	outcome, err := h.keys.Revoke(keyID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API key not found",
		})
	}

	if outcome == storage.RevokeDone {
		metrics.APIKeysRevoked.Inc()
	}

	return c.JSON(fiber.Map{
		"outcome": outcome,
		"keys":    h.keys.ListByProject(projectID),
	})
}

func (h *KeyHandler) DisarmRevoke(c *fiber.Ctx) error {
	h.keys.Disarm()
	return c.SendStatus(fiber.StatusNoContent)
}
