package models

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectIndexing ProjectStatus = "indexing"
	ProjectFailed   ProjectStatus = "failed"
)

type Project struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description,omitempty"`
	VectorStore   string        `json:"vector_store"`
	LLMProvider   string        `json:"llm_provider"`
	LLMModel      string        `json:"llm_model"`
	EmbeddingModel string       `json:"embedding_model"`
	DocumentCount int           `json:"documents"`
	QueryCount    int           `json:"queries"`
	Status        ProjectStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

type Document struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	SizeBytes int64          `json:"size_bytes"`
	Status    DocumentStatus `json:"status"`
	Chunks    int            `json:"chunks"`
	Uploaded  time.Time      `json:"uploaded"`
}

// APIKey is the stored, display-safe form of a key. The raw secret is
// returned exactly once at creation and never kept.
type APIKey struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	MaskedKey string    `json:"masked_key"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  string    `json:"last_used"`
}

// PipelineConfig is a project's saved retrieval pipeline settings. Every
// project starts from the same defaults; saves replace the whole record.
type PipelineConfig struct {
	VectorStore       string  `json:"vector_store"`
	EmbeddingProvider string  `json:"embedding_provider"`
	EmbeddingModel    string  `json:"embedding_model"`
	LLMProvider       string  `json:"llm_provider"`
	LLMModel          string  `json:"llm_model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	ChunkStrategy     string  `json:"chunk_strategy"`
	ChunkSize         int     `json:"chunk_size"`
	ChunkOverlap      int     `json:"chunk_overlap"`
	RetrievalStrategy string  `json:"retrieval_strategy"`
	TopK              int     `json:"top_k"`
	Reranking         bool    `json:"reranking"`
	ScoreThreshold    float64 `json:"score_threshold"`
	DenseWeight       float64 `json:"dense_weight"`
	SystemPrompt      string  `json:"system_prompt"`
}

const defaultSystemPrompt = "You are a helpful assistant for {company_name}. Answer questions based only on the provided context. If you cannot find the answer in the context, say 'I don't have information about that.'\n\nContext: {context}\nQuestion: {question}"

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		VectorStore:       "Pinecone",
		EmbeddingProvider: "OpenAI",
		EmbeddingModel:    "text-embedding-3-small",
		LLMProvider:       "OpenAI",
		LLMModel:          "gpt-4o",
		Temperature:       0.7,
		MaxTokens:         1024,
		ChunkStrategy:     "fixed",
		ChunkSize:         512,
		ChunkOverlap:      64,
		RetrievalStrategy: "dense",
		TopK:              5,
		Reranking:         false,
		ScoreThreshold:    0.7,
		DenseWeight:       0.7,
		SystemPrompt:      defaultSystemPrompt,
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	ID           string   `json:"id"`
	Role         Role     `json:"role"`
	Text         string   `json:"text"`
	Sources      []Source `json:"sources,omitempty"`
	LatencyLabel string   `json:"latency,omitempty"`
}

// Source is a synthetic citation attached to an assistant turn, standing in
// for a real retrieval result.
type Source struct {
	DocumentName string  `json:"document"`
	Score        float64 `json:"score"`
	Excerpt      string  `json:"text"`
	Location     string  `json:"location"`
}

type UploadedFileRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

var acceptedExtensions = map[string]bool{
	"pdf":  true,
	"docx": true,
	"json": true,
	"txt":  true,
	"md":   true,
}

// AcceptedExtension reports whether a filename carries one of the ingestable
// document formats. The check is shared by the wizard's attach step and the
// document registry so both surfaces reject the same files.
func AcceptedExtension(name string) bool {
	ext := FileExtension(name)
	return acceptedExtensions[ext]
}

func FileExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// FileType is the display form of a file's extension, e.g. "PDF".
func FileType(name string) string {
	ext := FileExtension(name)
	if ext == "" {
		return "FILE"
	}
	return strings.ToUpper(ext)
}
