package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/validate"
	"github.com/ragfloe/backend/internal/wizard"
	"github.com/ragfloe/backend/pkg/logger"
)

type WizardHandler struct {
	manager *wizard.Manager
}

func NewWizardHandler(manager *wizard.Manager) *WizardHandler {
	return &WizardHandler{manager: manager}
}

func (h *WizardHandler) Start(c *fiber.Ctx) error {
	w := h.manager.Start()
	return c.Status(fiber.StatusCreated).JSON(w.State())
}

func (h *WizardHandler) GetState(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
		})
	}
	return c.JSON(w.State())
}

func (h *WizardHandler) UpdateDraft(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
		})
	}

	var req struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		VectorStore    *string `json:"vector_store"`
		LLMProvider    *string `json:"llm_provider"`
		LLMModel       *string `json:"llm_model"`
		EmbeddingModel *string `json:"embedding_model"`
		Credential     *string `json:"credential"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := w.Update(wizard.DraftUpdate{
		Name:           req.Name,
		Description:    req.Description,
		VectorStore:    req.VectorStore,
		LLMProvider:    req.LLMProvider,
		LLMModel:       req.LLMModel,
		EmbeddingModel: req.EmbeddingModel,
		Credential:     req.Credential,
	}); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(w.State())
}

func (h *WizardHandler) Next(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
		})
	}

	step := w.State().Step
	if err := w.Next(); err != nil {
		return h.rejectTransition(c, string(step), err)
	}

	return c.JSON(w.State())
}

func (h *WizardHandler) Back(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
		})
	}

	if err := w.Back(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(w.State())
}

func (h *WizardHandler) AttachFiles(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
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

	inputs := make([]wizard.FileInput, 0, len(req.Files))
	for _, f := range req.Files {
		inputs = append(inputs, wizard.FileInput{Name: f.Name, SizeBytes: f.SizeBytes})
	}

	accepted, rejected := w.AttachFiles(inputs)
	for range rejected {
		metrics.UploadsRejected.Inc()
	}

	return c.JSON(fiber.Map{
		"accepted": accepted,
		"rejected": rejected,
	})
}

func (h *WizardHandler) RemoveFile(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
		})
	}

	if !w.RemoveFile(c.Params("fileID")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}
	return c.JSON(w.State())
}

func (h *WizardHandler) Create(c *fiber.Ctx) error {
	w, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wizard not found",
		})
	}

	wasCreated := w.State().Step == wizard.StepCreated
	if err := w.Create(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if !wasCreated {
		metrics.ProjectsCreated.Inc()
	}

	return c.JSON(w.State())
}

func (h *WizardHandler) Abandon(c *fiber.Ctx) error {
	h.manager.Abandon(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *WizardHandler) rejectTransition(c *fiber.Ctx, step string, err error) error {
	var fieldErr *validate.Error
	if errors.As(err, &fieldErr) {
		metrics.WizardRejections.WithLabelValues(step, string(fieldErr.Code)).Inc()
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fieldErr.Message,
			"field": fieldErr.Field,
			"code":  fieldErr.Code,
		})
	}

	if errors.Is(err, wizard.ErrMissingCredential) {
		metrics.WizardRejections.WithLabelValues(step, "missing_credential").Inc()
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  err.Error(),
			"notify": true,
		})
	}

	logger.Warn("Wizard transition rejected", zap.String("step", step), zap.Error(err))
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error": err.Error(),
	})
}
