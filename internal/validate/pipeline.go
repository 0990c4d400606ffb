package validate

import (
	"fmt"
	"unicode/utf8"

	"github.com/ragfloe/backend/internal/storage/models"
)

const maxSystemPromptLength = 4000

var vectorStores = []string{"Pinecone", "pgvector", "Weaviate", "Qdrant", "ChromaDB"}

var embeddingModels = map[string][]string{
	"OpenAI":         {"text-embedding-3-small", "text-embedding-3-large", "text-embedding-ada-002"},
	"Google":         {"text-embedding-004", "text-embedding-preview"},
	"Cohere":         {"embed-english-v3.0", "embed-multilingual-v3.0"},
	"Ollama (local)": {"nomic-embed-text", "mxbai-embed-large"},
}

var llmModels = map[string][]string{
	"OpenAI":    {"gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
	"Google":    {"gemini-1.5-pro", "gemini-1.5-flash"},
	"Anthropic": {"claude-3.5-sonnet", "claude-3-haiku"},
	"Ollama":    {"llama-3", "mistral-7b"},
}

var chunkStrategies = []string{"fixed", "sentence", "paragraph", "semantic"}

var retrievalStrategies = []string{"dense", "sparse", "hybrid"}

// FirstEmbeddingModel returns the lead model of a provider's catalog, used
// when a provider switch leaves the previous model orphaned.
func FirstEmbeddingModel(provider string) (string, bool) {
	if list, ok := embeddingModels[provider]; ok {
		return list[0], true
	}
	return "", false
}

func FirstLLMModel(provider string) (string, bool) {
	if list, ok := llmModels[provider]; ok {
		return list[0], true
	}
	return "", false
}

// PipelineConfig checks a full settings record against the catalogs and
// control ranges. Rules apply in field order; the first failure wins.
func PipelineConfig(cfg models.PipelineConfig) error {
	if !contains(vectorStores, cfg.VectorStore) {
		return optionError("vector_store", "Unknown vector store")
	}
	if _, ok := embeddingModels[cfg.EmbeddingProvider]; !ok {
		return optionError("embedding_provider", "Unknown embedding provider")
	}
	if !contains(embeddingModels[cfg.EmbeddingProvider], cfg.EmbeddingModel) {
		return optionError("embedding_model", fmt.Sprintf("Model is not offered by %s", cfg.EmbeddingProvider))
	}
	if _, ok := llmModels[cfg.LLMProvider]; !ok {
		return optionError("llm_provider", "Unknown LLM provider")
	}
	if !contains(llmModels[cfg.LLMProvider], cfg.LLMModel) {
		return optionError("llm_model", fmt.Sprintf("Model is not offered by %s", cfg.LLMProvider))
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return rangeError("temperature", "Temperature must be between 0 and 1")
	}
	if cfg.MaxTokens < 1 || cfg.MaxTokens > 4096 {
		return rangeError("max_tokens", "Max tokens must be between 1 and 4096")
	}
	if !contains(chunkStrategies, cfg.ChunkStrategy) {
		return optionError("chunk_strategy", "Unknown chunking strategy")
	}
	if cfg.ChunkSize < 128 || cfg.ChunkSize > 4096 {
		return rangeError("chunk_size", "Chunk size must be between 128 and 4096")
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap > 512 {
		return rangeError("chunk_overlap", "Chunk overlap must be between 0 and 512")
	}
	if !contains(retrievalStrategies, cfg.RetrievalStrategy) {
		return optionError("retrieval_strategy", "Unknown retrieval strategy")
	}
	if cfg.TopK < 1 || cfg.TopK > 20 {
		return rangeError("top_k", "Top K must be between 1 and 20")
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 1 {
		return rangeError("score_threshold", "Score threshold must be between 0 and 1")
	}
	if cfg.DenseWeight < 0 || cfg.DenseWeight > 1 {
		return rangeError("dense_weight", "Dense weight must be between 0 and 1")
	}
	if utf8.RuneCountInString(cfg.SystemPrompt) > maxSystemPromptLength {
		return &Error{
			Field:   "system_prompt",
			Code:    TooLong,
			Message: "System prompt must be 4000 characters or fewer",
		}
	}
	return nil
}

func optionError(field, msg string) error {
	return &Error{Field: field, Code: InvalidOption, Message: msg}
}

func rangeError(field, msg string) error {
	return &Error{Field: field, Code: OutOfRange, Message: msg}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
