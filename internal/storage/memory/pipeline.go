package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/storage"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/internal/validate"
	"github.com/ragfloe/backend/pkg/logger"
)

// PipelineConfigs holds each project's saved pipeline settings. A project
// with no saved record reads as the defaults; Reset just drops the record.
type PipelineConfigs struct {
	mu        sync.Mutex
	byProject map[string]models.PipelineConfig
}

func NewPipelineConfigs() *PipelineConfigs {
	return &PipelineConfigs{
		byProject: make(map[string]models.PipelineConfig),
	}
}

func (r *PipelineConfigs) Get(projectID string) models.PipelineConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.byProject[projectID]; ok {
		return cfg
	}
	return models.DefaultPipelineConfig()
}

// Update applies a partial edit on top of the saved settings and commits
// the result in one step. Switching a provider without naming a model
// selects the lead model of the new provider's catalog. A rejected update
// leaves the saved settings untouched.
func (r *PipelineConfigs) Update(projectID string, u storage.PipelineConfigUpdate) (models.PipelineConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.byProject[projectID]
	if !ok {
		cfg = models.DefaultPipelineConfig()
	}

	if u.VectorStore != nil {
		cfg.VectorStore = *u.VectorStore
	}
	if u.EmbeddingProvider != nil {
		cfg.EmbeddingProvider = *u.EmbeddingProvider
		if u.EmbeddingModel == nil {
			if model, ok := validate.FirstEmbeddingModel(cfg.EmbeddingProvider); ok {
				cfg.EmbeddingModel = model
			}
		}
	}
	if u.EmbeddingModel != nil {
		cfg.EmbeddingModel = *u.EmbeddingModel
	}
	if u.LLMProvider != nil {
		cfg.LLMProvider = *u.LLMProvider
		if u.LLMModel == nil {
			if model, ok := validate.FirstLLMModel(cfg.LLMProvider); ok {
				cfg.LLMModel = model
			}
		}
	}
	if u.LLMModel != nil {
		cfg.LLMModel = *u.LLMModel
	}
	if u.Temperature != nil {
		cfg.Temperature = *u.Temperature
	}
	if u.MaxTokens != nil {
		cfg.MaxTokens = *u.MaxTokens
	}
	if u.ChunkStrategy != nil {
		cfg.ChunkStrategy = *u.ChunkStrategy
	}
	if u.ChunkSize != nil {
		cfg.ChunkSize = *u.ChunkSize
	}
	if u.ChunkOverlap != nil {
		cfg.ChunkOverlap = *u.ChunkOverlap
	}
	if u.RetrievalStrategy != nil {
		cfg.RetrievalStrategy = *u.RetrievalStrategy
	}
	if u.TopK != nil {
		cfg.TopK = *u.TopK
	}
	if u.Reranking != nil {
		cfg.Reranking = *u.Reranking
	}
	if u.ScoreThreshold != nil {
		cfg.ScoreThreshold = *u.ScoreThreshold
	}
	if u.DenseWeight != nil {
		cfg.DenseWeight = *u.DenseWeight
	}
	if u.SystemPrompt != nil {
		cfg.SystemPrompt = *u.SystemPrompt
	}

	if err := validate.PipelineConfig(cfg); err != nil {
		return models.PipelineConfig{}, err
	}

	r.byProject[projectID] = cfg

	logger.Info("Pipeline configuration saved",
		zap.String("project_id", projectID),
		zap.String("vector_store", cfg.VectorStore),
		zap.String("llm_model", cfg.LLMModel),
	)

	return cfg, nil
}

func (r *PipelineConfigs) Reset(projectID string) models.PipelineConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byProject, projectID)

	logger.Info("Pipeline configuration reset", zap.String("project_id", projectID))
	return models.DefaultPipelineConfig()
}
