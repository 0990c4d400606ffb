package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ragfloe/backend/internal/storage"
)

// Analytics serves a fixed demo dataset. Until real query logs exist there
// is nothing to aggregate, so every project sees the same representative
// week.

type AnalyticsHandler struct {
	projects storage.ProjectRepository
}

func NewAnalyticsHandler(projects storage.ProjectRepository) *AnalyticsHandler {
	return &AnalyticsHandler{projects: projects}
}

type queryPoint struct {
	Date    string `json:"date"`
	Queries int    `json:"queries"`
	Tokens  int    `json:"tokens"`
}

type latencyPoint struct {
	Date string `json:"date"`
	P50  int    `json:"p50"`
	P90  int    `json:"p90"`
	P95  int    `json:"p95"`
}

type statusCount struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type topQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type documentPerf struct {
	Name      string   `json:"name"`
	Chunks    int      `json:"chunks"`
	Citations *int     `json:"citations"`
	HitRate   *float64 `json:"hit_rate"`
	LastCited string   `json:"last_cited"`
}

type statCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Trend string `json:"trend"`
}

var queryVolume = []queryPoint{
	{"Feb 15", 142, 18400},
	{"Feb 16", 198, 24200},
	{"Feb 17", 87, 10800},
	{"Feb 18", 64, 7900},
	{"Feb 19", 312, 39800},
	{"Feb 20", 276, 35400},
	{"Feb 21", 163, 21200},
}

var latencySeries = []latencyPoint{
	{"Feb 15", 980, 2100, 3200},
	{"Feb 16", 1050, 2300, 3400},
	{"Feb 17", 870, 1900, 2800},
	{"Feb 18", 920, 2000, 3000},
	{"Feb 19", 1200, 2800, 4100},
	{"Feb 20", 1100, 2400, 3600},
	{"Feb 21", 1030, 2200, 3300},
}

var statusBreakdown = []statusCount{
	{"success", 1812, 98.4},
	{"fallback", 21, 1.1},
	{"failed", 9, 0.5},
}

var topQueries = []topQuery{
	{"What is the refund policy?", 284},
	{"How do I cancel my subscription?", 198},
	{"What payment methods are accepted?", 167},
	{"How long does shipping take?", 143},
	{"Can I change my order after placing it?", 98},
}

var summaryStats = []statCard{
	{"Total Queries", "1,842", "+23% vs last period"},
	{"Avg Latency", "1.3s", "-0.2s improvement"},
	{"Success Rate", "98.4%", "+0.6%"},
	{"Tokens Used", "284K", "+31K this period"},
}

func documentPerformance() []documentPerf {
	manualCitations, manualHitRate := 892, 94.2
	refCitations, refHitRate := 487, 78.4
	return []documentPerf{
		{Name: "product-manual.pdf", Chunks: 47, Citations: &manualCitations, HitRate: &manualHitRate, LastCited: "2 min ago"},
		{Name: "api-reference.docx", Chunks: 23, Citations: &refCitations, HitRate: &refHitRate, LastCited: "15 min ago"},
		{Name: "changelog.json", Chunks: 5, LastCited: ""},
	}
}

func (h *AnalyticsHandler) GetAnalytics(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, ok := h.projects.Get(projectID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	// The range selector is accepted for forward compatibility but only
	// one window of data exists.
	rangeDays := c.Query("range", "7")

	return c.JSON(fiber.Map{
		"range_days":           rangeDays,
		"stats":                summaryStats,
		"query_volume":         queryVolume,
		"latency":              latencySeries,
		"status_breakdown":     statusBreakdown,
		"top_queries":          topQueries,
		"document_performance": documentPerformance(),
	})
}
