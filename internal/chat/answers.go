package chat

import (
	"fmt"

	"github.com/ragfloe/backend/internal/storage/models"
)

// answerPool stands in for generation. One entry is picked per query via
// the session's random source.
var answerPool = []string{
	"Based on the available documentation, the system supports multiple authentication methods including OAuth 2.0, API key-based authentication, and JWT tokens. For production environments, we recommend using OAuth 2.0 with PKCE flow for enhanced security.",
	"The rate limiting policy allows up to 1,000 requests per minute for Starter plans and 10,000 requests per minute for Enterprise plans. Rate limit headers are included in every response to help you monitor your usage.",
	"To integrate the widget, add the provided script tag to your HTML. The widget automatically adapts to your site's theme and supports custom styling through CSS variables. See the customization guide for detailed options.",
}

// SeedTranscript is the canned exchange shown when a console is first
// opened, before any real submission.
func SeedTranscript() ([]models.Turn, []models.Source) {
	sources := []models.Source{
		{
			DocumentName: "product-manual.pdf",
			Score:        0.94,
			Excerpt:      "...customers may return any product within 30 days of the original purchase date with proof of receipt. Refunds are processed within 5-7 business days...",
			Location:     pageLabel(4, 12),
		},
		{
			DocumentName: "product-manual.pdf",
			Score:        0.87,
			Excerpt:      "...premium plan subscribers are eligible for priority refund processing. Contact the enterprise support team at...",
			Location:     pageLabel(8, 23),
		},
		{
			DocumentName: "api-reference.docx",
			Score:        0.71,
			Excerpt:      "...refund_status endpoint returns the current status of a refund request including estimated completion date...",
			Location:     pageLabel(12, 5),
		},
	}

	turns := []models.Turn{
		{
			ID:   "turn_seed_1",
			Role: models.RoleUser,
			Text: "What is the refund policy for premium subscriptions?",
		},
		{
			ID:           "turn_seed_2",
			Role:         models.RoleAssistant,
			Text:         "Based on the documentation, premium subscription holders can request a full refund within 30 days of their initial purchase. After 30 days, refunds are evaluated on a case-by-case basis. To initiate a refund, contact support@company.com with your order ID.",
			Sources:      sources,
			LatencyLabel: "1.2s",
		},
	}

	return turns, sources
}

type PipelineStep struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Done     bool   `json:"done"`
}

// PipelineBreakdown is the static execution trace shown next to an answer.
func PipelineBreakdown() []PipelineStep {
	return []PipelineStep{
		{Name: "Query Embedded", Duration: "42ms", Done: true},
		{Name: "Vector Retrieved", Duration: "234ms", Done: true},
		{Name: "Chunks Reranked", Duration: "187ms", Done: true},
		{Name: "Response Generated", Duration: "891ms", Done: true},
	}
}

func pageLabel(page, chunk int) string {
	return fmt.Sprintf("Page %d · Chunk %d", page, chunk)
}

func formatSeconds(secs float64) string {
	return fmt.Sprintf("%.1fs", secs)
}
