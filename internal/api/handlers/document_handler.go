package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/pkg/logger"
)

type DocumentHandler struct {
	documents storage.DocumentRepository
	projects  storage.ProjectRepository

	maxBatchFiles    int
	maxFileSizeBytes int64
}

func NewDocumentHandler(documents storage.DocumentRepository, projects storage.ProjectRepository, maxBatchFiles int, maxFileSizeBytes int64) *DocumentHandler {
	if maxBatchFiles <= 0 {
		maxBatchFiles = 20
	}
	if maxFileSizeBytes <= 0 {
		maxFileSizeBytes = 52428800
	}
	return &DocumentHandler{
		documents:        documents,
		projects:         projects,
		maxBatchFiles:    maxBatchFiles,
		maxFileSizeBytes: maxFileSizeBytes,
	}
}

func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	filter := storage.DocumentFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	return c.JSON(fiber.Map{
		"documents": h.documents.ListByProject(projectID, filter),
	})
}

// UploadDocuments accepts a batch of file descriptors. Files with an
// unsupported extension are rejected individually, the rest begin processing.
func (h *DocumentHandler) UploadDocuments(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req struct {
		Files []struct {
			Name      string `json:"name"`
			SizeBytes int64  `json:"size_bytes"`
		} `json:"files"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files provided",
		})
	}
	if len(req.Files) > h.maxBatchFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Too many files in one batch",
		})
	}

	accepted := make([]models.Document, 0, len(req.Files))
	rejected := make([]fiber.Map, 0)

	for _, f := range req.Files {
		if f.SizeBytes > h.maxFileSizeBytes {
			metrics.UploadsRejected.Inc()
			rejected = append(rejected, fiber.Map{
				"name":   f.Name,
				"reason": "file exceeds the maximum allowed size",
			})
			continue
		}
		doc, err := h.documents.Add(projectID, f.Name, f.SizeBytes)
		if err != nil {
			metrics.UploadsRejected.Inc()
			rejected = append(rejected, fiber.Map{
				"name":   f.Name,
				"reason": err.Error(),
			})
			continue
		}
		accepted = append(accepted, doc)
	}

	if len(accepted) > 0 {
		h.projects.AdjustDocumentCount(projectID, len(accepted))
		logger.Info("Documents queued for processing",
			zap.String("project_id", projectID),
			zap.Int("accepted", len(accepted)),
			zap.Int("rejected", len(rejected)),
		)
	}

	status := fiber.StatusAccepted
	if len(accepted) == 0 {
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"accepted": accepted,
		"rejected": rejected,
	})
}

func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	projectID := c.Params("id")
	docID := c.Params("docID")

	doc, ok := h.documents.Get(docID)
	if !ok || doc.ProjectID != projectID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}
	h.documents.Remove(docID)

	h.projects.AdjustDocumentCount(projectID, -1)
	metrics.DocumentsRemoved.Inc()

	return c.SendStatus(fiber.StatusNoContent)
}
