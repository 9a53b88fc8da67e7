package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/config"
	"github.com/wntjdus12/jobverse/internal/handlers"
	"github.com/wntjdus12/jobverse/internal/repositories"
	"github.com/wntjdus12/jobverse/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	versionStore, err := repositories.NewFSVersionStore(cfg.Storage.DataPath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize version store: %v", err)
	}
	companyRepo := repositories.NewCompanyRepository(db)
	jobRepo := repositories.NewAnalysisJobRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Worker.RetryMaxAttempts,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the feedback pipeline
	retriever := services.NewHistoryRetriever(versionStore, geminiService)
	orchestrator, err := services.NewFeedbackOrchestrator(
		versionStore,
		companyRepo,
		retriever,
		geminiService,
		geminiService,
		cfg.Feedback.HistoryTopK,
		cfg.Feedback.CacheSize,
		cfg.Feedback.GenerationTimeout,
		cfg.Feedback.EmbeddingTimeout,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize feedback orchestrator: %v", err)
	}
	companyAnalyzer := services.NewCompanyAnalyzer(companyRepo, geminiService, cfg.Feedback.GenerationTimeout)
	log.Println("✅ Feedback pipeline initialized")

	// Initialize worker
	worker := services.NewWorker(
		jobRepo,
		orchestrator,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	documentHandler := handlers.NewDocumentHandler(orchestrator)
	portfolioHandler := handlers.NewPortfolioHandler(
		orchestrator,
		storageService,
		pdfParser,
		cfg.Storage.MaxFileSize,
	)
	companyHandler := handlers.NewCompanyHandler(companyAnalyzer)
	batchHandler := handlers.NewBatchHandler(jobRepo, worker)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Jobverse Document Feedback API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/jobs", documentHandler.HandleJobCatalog)

	// Everything below is owner-scoped. Token validation happens upstream;
	// the gateway forwards the resolved user id in X-User-ID.
	api.Use(requireOwner)

	api.Get("/documents/:jobSlug", documentHandler.HandleLoadDocuments)
	api.Post("/documents/:jobSlug/:docType/analyze", documentHandler.HandleAnalyze)
	api.Post("/documents/:jobSlug/:docType/rollback", documentHandler.HandleRollback)
	api.Post("/portfolio/summary", portfolioHandler.HandleSummary)
	api.Post("/company/analyze", companyHandler.HandleAnalyze)
	api.Post("/evaluations", batchHandler.HandleBatchAnalyze)
	api.Get("/evaluations/:id", batchHandler.HandleGetJob)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func requireOwner(c *fiber.Ctx) error {
	owner := c.Get("X-User-ID")
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing X-User-ID header",
		})
	}
	c.Locals("owner", owner)
	return c.Next()
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		code = appErr.StatusCode()
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
