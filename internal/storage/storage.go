package storage

import "github.com/ragfloe/backend/internal/storage/models"

// Repositories are in-memory for now; nothing in the control plane is
// persisted. The interfaces exist so a database-backed implementation can
// be dropped in without touching the wizard, console or handlers.

type ProjectRepository interface {
	List() []models.Project
	Get(id string) (models.Project, bool)
	Insert(p models.Project)
	AdjustDocumentCount(id string, delta int)
	IncrementQueryCount(id string)
}

type DocumentFilter struct {
	Status string
	Search string
}

type DocumentRepository interface {
	ListByProject(projectID string, filter DocumentFilter) []models.Document
	Get(id string) (models.Document, bool)
	Add(projectID, name string, sizeBytes int64) (models.Document, error)
	Remove(id string) bool
}

// PipelineConfigUpdate carries partial field edits; nil means leave
// unchanged.
type PipelineConfigUpdate struct {
	VectorStore       *string
	EmbeddingProvider *string
	EmbeddingModel    *string
	LLMProvider       *string
	LLMModel          *string
	Temperature       *float64
	MaxTokens         *int
	ChunkStrategy     *string
	ChunkSize         *int
	ChunkOverlap      *int
	RetrievalStrategy *string
	TopK              *int
	Reranking         *bool
	ScoreThreshold    *float64
	DenseWeight       *float64
	SystemPrompt      *string
}

type PipelineConfigRepository interface {
	// Get returns the saved settings, or the defaults if the project has
	// never saved.
	Get(projectID string) models.PipelineConfig
	// Update validates and commits a partial edit in one step. A rejected
	// update leaves the saved settings untouched.
	Update(projectID string, u PipelineConfigUpdate) (models.PipelineConfig, error)
	Reset(projectID string) models.PipelineConfig
}

type RevokeOutcome string

const (
	RevokeArmed RevokeOutcome = "armed"
	RevokeDone  RevokeOutcome = "revoked"
)

type APIKeyRepository interface {
	ListByProject(projectID string) []models.APIKey
	// Create returns the stored record and the raw secret. The secret is
	// shown exactly once; only the masked form is retained.
	Create(projectID, name string) (models.APIKey, string, error)
	// Revoke implements the two-step confirm: the first call arms the key,
	// the second call on the same armed key removes it. Arming a different
	// key or calling Disarm resets the interaction.
	Revoke(id string) (RevokeOutcome, error)
	Disarm()
}
