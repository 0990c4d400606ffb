package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/internal/validate"
)

type ConfigHandler struct {
	configs  storage.PipelineConfigRepository
	projects storage.ProjectRepository
}

func NewConfigHandler(configs storage.PipelineConfigRepository, projects storage.ProjectRepository) *ConfigHandler {
	return &ConfigHandler{configs: configs, projects: projects}
}

func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(fiber.Map{
		"config": h.configs.Get(projectID),
	})
}

// UpdateConfig commits a partial edit of the project's pipeline settings.
// Fields left out of the body keep their saved values.
func (h *ConfigHandler) UpdateConfig(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req struct {
		VectorStore       *string  `json:"vector_store"`
		EmbeddingProvider *string  `json:"embedding_provider"`
		EmbeddingModel    *string  `json:"embedding_model"`
		LLMProvider       *string  `json:"llm_provider"`
		LLMModel          *string  `json:"llm_model"`
		Temperature       *float64 `json:"temperature"`
		MaxTokens         *int     `json:"max_tokens"`
		ChunkStrategy     *string  `json:"chunk_strategy"`
		ChunkSize         *int     `json:"chunk_size"`
		ChunkOverlap      *int     `json:"chunk_overlap"`
		RetrievalStrategy *string  `json:"retrieval_strategy"`
		TopK              *int     `json:"top_k"`
		Reranking         *bool    `json:"reranking"`
		ScoreThreshold    *float64 `json:"score_threshold"`
		DenseWeight       *float64 `json:"dense_weight"`
		SystemPrompt      *string  `json:"system_prompt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cfg, err := h.configs.Update(projectID, storage.PipelineConfigUpdate{
		VectorStore:       req.VectorStore,
		EmbeddingProvider: req.EmbeddingProvider,
		EmbeddingModel:    req.EmbeddingModel,
		LLMProvider:       req.LLMProvider,
		LLMModel:          req.LLMModel,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
		ChunkStrategy:     req.ChunkStrategy,
		ChunkSize:         req.ChunkSize,
		ChunkOverlap:      req.ChunkOverlap,
		RetrievalStrategy: req.RetrievalStrategy,
		TopK:              req.TopK,
		Reranking:         req.Reranking,
		ScoreThreshold:    req.ScoreThreshold,
		DenseWeight:       req.DenseWeight,
		SystemPrompt:      req.SystemPrompt,
	})
	if err != nil {
		var fieldErr *validate.Error
		if errors.As(err, &fieldErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": fieldErr.Message,
				"field": fieldErr.Field,
				"code":  fieldErr.Code,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.PipelineConfigSaves.Inc()

	return c.JSON(fiber.Map{
		"config": cfg,
	})
}

func (h *ConfigHandler) ResetConfig(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(fiber.Map{
		"config": h.configs.Reset(projectID),
	})
}
