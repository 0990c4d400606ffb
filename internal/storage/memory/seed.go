package memory

import (
	"time"

	"github.com/ragfloe/backend/internal/storage/models"
)

// Seed data stands in for a real tenant until a backing store exists.
// Every dashboard view is populated from these records at startup.

func SeedProjects(now time.Time) []models.Project {
	return []models.Project{
		{
			ID: "proj_1", Name: "customer-support-bot", Slug: "customer-support-bot",
			VectorStore: "Pinecone", LLMProvider: "OpenAI", LLMModel: "GPT-4o",
			EmbeddingModel: "text-embedding-3-small",
			DocumentCount:  24, QueryCount: 1204, Status: models.ProjectActive,
			CreatedAt: now.AddDate(0, -2, 0),
		},
		{
			ID: "proj_2", Name: "product-docs-ai", Slug: "product-docs-ai",
			VectorStore: "Pinecone", LLMProvider: "Anthropic", LLMModel: "Claude 3.5",
			EmbeddingModel: "text-embedding-3-small",
			DocumentCount:  18, QueryCount: 538, Status: models.ProjectActive,
			CreatedAt: now.AddDate(0, -1, -10),
		},
		{
			ID: "proj_3", Name: "internal-kb", Slug: "internal-kb",
			VectorStore: "pgvector", LLMProvider: "OpenAI", LLMModel: "GPT-4o",
			EmbeddingModel: "text-embedding-3-large",
			DocumentCount:  5, QueryCount: 100, Status: models.ProjectIndexing,
			CreatedAt: now.AddDate(0, 0, -12),
		},
	}
}

func SeedDocuments(now time.Time) []models.Document {
	return []models.Document{
		{
			ID: "doc_1", ProjectID: "proj_1", Name: "product-manual.pdf", Type: "PDF",
			SizeBytes: 2_482_919, Status: models.DocumentCompleted, Chunks: 47,
			Uploaded: now.Add(-2 * time.Hour),
		},
		{
			ID: "doc_2", ProjectID: "proj_1", Name: "api-reference.docx", Type: "DOCX",
			SizeBytes: 914_250, Status: models.DocumentCompleted, Chunks: 23,
			Uploaded: now.Add(-24 * time.Hour),
		},
		{
			ID: "doc_3", ProjectID: "proj_1", Name: "changelog.json", Type: "JSON",
			SizeBytes: 48_113, Status: models.DocumentProcessing,
			Uploaded: now,
		},
	}
}

func SeedAPIKeys(now time.Time) []models.APIKey {
	return []models.APIKey{
		{
			ID: "key_1", ProjectID: "proj_1", Name: "Production Widget",
			MaskedKey: "rf_live_••••••••••••••••3f9a",
			CreatedAt: now.AddDate(0, 0, -14), LastUsed: "2 min ago",
		},
		{
			ID: "key_2", ProjectID: "proj_1", Name: "Dev Testing",
			MaskedKey: "rf_live_••••••••••••••••7c2e",
			CreatedAt: now.AddDate(0, 0, -19), LastUsed: "1d ago",
		},
	}
}
