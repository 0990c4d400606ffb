package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/api/handlers"
	"github.com/ragfloe/backend/internal/chat"
	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/middleware/ratelimit"
	"github.com/ragfloe/backend/internal/middleware/security"
	"github.com/ragfloe/backend/internal/middleware/validation"
	"github.com/ragfloe/backend/internal/storage/memory"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/internal/wizard"
	"github.com/ragfloe/backend/pkg/config"
	appLogger "github.com/ragfloe/backend/pkg/logger"
	"github.com/ragfloe/backend/pkg/sched"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ragfloe API Server")

	metrics.Init()

	scheduler := sched.New()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	projects := memory.NewProjects(memory.SeedProjects(now))

	documents := memory.NewDocuments(memory.DocumentsConfig{
		ProcessingDelay: cfg.Simulation.ProcessingDelay,
		FailureRate:     cfg.Simulation.FailureRate,
		MinChunks:       cfg.Simulation.MinChunks,
		MaxChunks:       cfg.Simulation.MaxChunks,
	}, scheduler, rand.New(rand.NewSource(rng.Int63())), memory.SeedDocuments(now))
	documents.SetTransitionHook(func(doc models.Document) {
		metrics.DocumentsProcessed.WithLabelValues(string(doc.Status)).Inc()
	})

	apiKeys := memory.NewAPIKeys(rand.New(rand.NewSource(rng.Int63())), memory.SeedAPIKeys(now))

	pipelineConfigs := memory.NewPipelineConfigs()

	wizardManager := wizard.NewManager(projects, scheduler, cfg.Simulation.CreateDelay)

	consoleManager, err := chat.NewManager(cfg.Console.MaxSessions, chat.Config{
		AnswerDelay:     cfg.Simulation.AnswerDelay,
		RevealInterval:  cfg.Simulation.RevealInterval,
		RevealChunkSize: cfg.Simulation.RevealChunkSize,
	}, scheduler, rand.New(rand.NewSource(rng.Int63())), projects.IncrementQueryCount)
	if err != nil {
		appLogger.Fatal("Failed to create console manager", zap.Error(err))
	}

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Limits.MaxRequestsPerMinute,
		Logger:               appLogger.Log,
	})
	defer rateLimiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		WidgetOrigins: cfg.Server.WidgetOrigins,
		IsDevelopment: cfg.Server.Environment == "development",
	}))
	app.Use(rateLimiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		MaxQueryLength: cfg.Console.MaxQueryLength,
		Logger:         appLogger.Log,
	}))

	projectHandler := handlers.NewProjectHandler(projects)
	wizardHandler := handlers.NewWizardHandler(wizardManager)
	documentHandler := handlers.NewDocumentHandler(documents, projects, cfg.Limits.MaxBatchFiles, cfg.Limits.MaxFileSizeBytes)
	keyHandler := handlers.NewKeyHandler(apiKeys, projects)
	configHandler := handlers.NewConfigHandler(pipelineConfigs, projects)
	consoleHandler := handlers.NewConsoleHandler(consoleManager, projects)
	wsHandler := handlers.NewWebSocketHandler(consoleManager)
	deployHandler := handlers.NewDeployHandler(projects)
	analyticsHandler := handlers.NewAnalyticsHandler(projects)

	api := app.Group("/api/v1")

	api.Get("/overview", projectHandler.GetOverview)
	api.Get("/projects", projectHandler.ListProjects)
	api.Get("/projects/:id", projectHandler.GetProject)

	api.Post("/wizard", wizardHandler.Start)
	api.Get("/wizard/:id", wizardHandler.GetState)
	api.Patch("/wizard/:id", wizardHandler.UpdateDraft)
	api.Post("/wizard/:id/next", wizardHandler.Next)
	api.Post("/wizard/:id/back", wizardHandler.Back)
	api.Post("/wizard/:id/files", wizardHandler.AttachFiles)
	api.Delete("/wizard/:id/files/:fileID", wizardHandler.RemoveFile)
	api.Post("/wizard/:id/create", wizardHandler.Create)
	api.Delete("/wizard/:id", wizardHandler.Abandon)

	api.Get("/projects/:id/documents", documentHandler.ListDocuments)
	api.Post("/projects/:id/documents", documentHandler.UploadDocuments)
	api.Delete("/projects/:id/documents/:docID", documentHandler.DeleteDocument)

	api.Get("/projects/:id/config", configHandler.GetConfig)
	api.Put("/projects/:id/config", configHandler.UpdateConfig)
	api.Post("/projects/:id/config/reset", configHandler.ResetConfig)

	api.Get("/projects/:id/keys", keyHandler.ListKeys)
	api.Post("/projects/:id/keys", keyHandler.CreateKey)
	api.Post("/projects/:id/keys/:keyID/revoke", keyHandler.RevokeKey)
	api.Post("/projects/:id/keys/disarm", keyHandler.DisarmRevoke)

	api.Get("/projects/:id/console", consoleHandler.GetTranscript)
	api.Post("/projects/:id/console/query", consoleHandler.SubmitQuery)
	api.Post("/projects/:id/console/clear", consoleHandler.ClearTranscript)

	api.Get("/projects/:id/deploy", deployHandler.GetDeployInfo)
	api.Get("/projects/:id/deploy/embed", deployHandler.GetEmbedCode)
	api.Get("/projects/:id/analytics", analyticsHandler.GetAnalytics)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/projects/:id/console", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
