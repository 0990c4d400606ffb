package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ragfloe/backend/internal/storage"
)

type ProjectHandler struct {
	projects storage.ProjectRepository
}

func NewProjectHandler(projects storage.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"projects": h.projects.List(),
	})
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	project, ok := h.projects.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	return c.JSON(project)
}

func (h *ProjectHandler) GetOverview(c *fiber.Ctx) error {
	projects := h.projects.List()

	totalDocs := 0
	totalQueries := 0
	for _, p := range projects {
		totalDocs += p.DocumentCount
		totalQueries += p.QueryCount
	}

	return c.JSON(fiber.Map{
		"projects":    len(projects),
		"documents":   totalDocs,
		"queries":     totalQueries,
		"avg_latency": "1.3s",
	})
}
