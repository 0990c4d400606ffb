package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ragfloe/backend/internal/storage"
)

const (
	apiBaseURL    = "https://api.ragfloe.io/v1"
	widgetBaseURL = "https://widget.ragfloe.io/v1/widget.js"
)

var widgetColors = []string{"#3B82F6", "#8B5CF6", "#22C55E", "#F59E0B", "#EF4444"}

type DeployHandler struct {
	projects storage.ProjectRepository
}

func NewDeployHandler(projects storage.ProjectRepository) *DeployHandler {
	return &DeployHandler{projects: projects}
}

// GetDeployInfo returns the query endpoint and ready-to-paste integration
// snippets for the project.
func (h *DeployHandler) GetDeployInfo(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	endpoint := fmt.Sprintf("%s/projects/%s/query", apiBaseURL, projectID)

	return c.JSON(fiber.Map{
		"endpoint": endpoint,
		"method":   "POST",
		"snippets": fiber.Map{
			"curl":       curlSnippet(endpoint),
			"python":     pythonSnippet(projectID),
			"javascript": javascriptSnippet(endpoint),
		},
		"example_response": exampleResponse,
		"widget_colors":    widgetColors,
	})
}

// GetEmbedCode renders the widget script tag with the requested
// customization. Unknown values fall back to the defaults.
func (h *DeployHandler) GetEmbedCode(c *fiber.Ctx) error {
	projectID := c.Params("id")
	project, ok := h.projects.Get(projectID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	color := c.Query("color", widgetColors[0])
	if !validWidgetColor(color) {
		color = widgetColors[0]
	}
	position := c.Query("position", "bottom-right")
	if position != "bottom-right" && position != "bottom-left" {
		position = "bottom-right"
	}
	greeting := c.Query("greeting", "Hi! How can I help you today?")

	embed := fmt.Sprintf(`<script
  src=%q
  data-project-token="rf_widget_%s"
  data-position=%q
  data-color=%q
  data-greeting=%q
  defer
></script>`, widgetBaseURL, project.Slug, position, color, greeting)

	return c.JSON(fiber.Map{
		"embed_code": embed,
		"color":      color,
		"position":   position,
		"greeting":   greeting,
	})
}

func validWidgetColor(color string) bool {
	for _, c := range widgetColors {
		if c == color {
			return true
		}
	}
	return false
}

func curlSnippet(endpoint string) string {
	return fmt.Sprintf(`curl -X POST \
  %s \
  -H "X-API-Key: rf_live_xxxxxxxxxxxx" \
  -H "Content-Type: application/json" \
  -d '{
    "message": "What is the refund policy?",
    "top_k": 5
  }'`, endpoint)
}

func pythonSnippet(projectID string) string {
	return fmt.Sprintf(`import ragfloe

client = ragfloe.Client(
  api_key="rf_live_xxxx"
)

response = client.query(
  project_id=%q,
  message="What is refund policy?"
)

print(response.answer)`, projectID)
}

func javascriptSnippet(endpoint string) string {
	return fmt.Sprintf(`const response = await fetch(
  '%s',
  {
    method: 'POST',
    headers: {
      'X-API-Key': 'rf_live_xxxx',
      'Content-Type': 'application/json'
    },
    body: JSON.stringify({
      message: 'What is refund policy?'
    })
  }
);
const data = await response.json();`, endpoint)
}

const exampleResponse = `{
  "answer": "Premium subscribers can request...",
  "sources": [
    {
      "document": "product-manual.pdf",
      "score": 0.94,
      "text": "...customers may return..."
    }
  ],
  "usage": {
    "tokens_input": 1247,
    "latency_ms": 1354
  }
}`
