package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConsoleQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragfloe_console_queries_total",
			Help: "Test console queries by outcome",
		},
		[]string{"status"},
	)

	RevealDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ragfloe_console_reveal_seconds",
			Help:    "Simulated answer reveal duration in seconds",
			Buckets: []float64{0.5, 1, 2, 3, 5, 8},
		},
	)

	DocumentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragfloe_documents_processed_total",
			Help: "Documents leaving the processing state, by final status",
		},
		[]string{"status"},
	)

	DocumentsRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfloe_documents_removed_total",
			Help: "Documents deleted from the registry",
		},
	)

	UploadsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfloe_uploads_rejected_total",
			Help: "Files rejected for unsupported format",
		},
	)

	ProjectsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfloe_projects_created_total",
			Help: "Projects created through the wizard",
		},
	)

	WizardRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragfloe_wizard_rejections_total",
			Help: "Wizard step transitions rejected by a guard",
		},
		[]string{"step", "reason"},
	)

	PipelineConfigSaves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfloe_pipeline_config_saves_total",
			Help: "Pipeline configuration updates committed",
		},
	)

	APIKeysCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfloe_api_keys_created_total",
			Help: "API keys created",
		},
	)

	APIKeysRevoked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfloe_api_keys_revoked_total",
			Help: "API keys revoked after confirmation",
		},
	)
)

func Init() {
	prometheus.MustRegister(ConsoleQueries)
	prometheus.MustRegister(RevealDuration)
	prometheus.MustRegister(DocumentsProcessed)
	prometheus.MustRegister(DocumentsRemoved)
	prometheus.MustRegister(UploadsRejected)
	prometheus.MustRegister(ProjectsCreated)
	prometheus.MustRegister(WizardRejections)
	prometheus.MustRegister(PipelineConfigSaves)
	prometheus.MustRegister(APIKeysCreated)
	prometheus.MustRegister(APIKeysRevoked)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
