package main

import (
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

	"hragent/hiring-pipeline/internal/apperrors"
	"hragent/hiring-pipeline/internal/config"
	"hragent/hiring-pipeline/internal/handlers"
	"hragent/hiring-pipeline/internal/repositories"
	"hragent/hiring-pipeline/internal/services"
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
	jobRepo := repositories.NewJobRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.ResumePath, cfg.Storage.TempBulkPath)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create upload directories: %v", err)
	}

	extractor := services.NewTextExtractor()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	scorer, err := services.NewGeminiScorer(cfg.Gemini.APIKey, cfg.Worker.RetryMaxAttempts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	searchService, err := services.NewCandidateSearchService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		scorer,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := searchService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize messaging
	mailer := services.NewSMTPMailer(cfg.SMTP)
	whatsapp := services.NewTwilioWhatsApp(cfg.Twilio)
	notifier := services.NewNotificationDispatcher(mailer, whatsapp, candidateRepo, cfg.SMTP.HREmail)
	log.Println("✅ Notification dispatcher initialized")

	// Initialize pipeline
	pipelineService := services.NewPipelineService(db, notifier)

	// Initialize task registry
	taskRegistry := services.NewTaskRegistry(cfg.Intake.TaskRetention)
	taskRegistry.Start()
	log.Println("✅ Task registry started successfully")

	// Initialize intake orchestrator
	orchestrator := services.NewIntakeOrchestrator(
		db,
		pipelineService,
		extractor,
		scorer,
		storageService,
		taskRegistry,
		notifier,
		searchService,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Intake orchestrator initialized")

	// Initialize Handlers
	jobHandler := handlers.NewJobHandler(jobRepo, pipelineService)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, pipelineService, searchService)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo, candidateRepo)
	intakeHandler := handlers.NewIntakeHandler(orchestrator, storageService, taskRegistry, cfg.Intake.DefaultThreshold)
	messageHandler := handlers.NewMessageHandler(notifier)
	dashboardHandler := handlers.NewDashboardHandler(jobRepo, candidateRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hiring Pipeline API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 20,
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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
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

	// Jobs
	api.Get("/jobs", jobHandler.HandleList)
	api.Post("/jobs", jobHandler.HandleCreate)
	api.Delete("/jobs/bulk", jobHandler.HandleBulkDelete)
	api.Get("/jobs/:id", jobHandler.HandleGet)
	api.Put("/jobs/:id", jobHandler.HandleUpdate)

	// Candidates
	api.Get("/candidates", candidateHandler.HandleList)
	api.Get("/candidates/active", candidateHandler.HandleActive)
	api.Get("/candidates/similar", candidateHandler.HandleSimilar)
	api.Get("/candidates/distribution", dashboardHandler.HandleDistribution)
	api.Get("/candidates/counts", dashboardHandler.HandleCounts)
	api.Delete("/candidates/bulk", candidateHandler.HandleBulkDelete)
	api.Post("/candidates/bulk-process", intakeHandler.HandleBulkProcess)
	api.Get("/candidates/:id", candidateHandler.HandleGet)
	api.Delete("/candidates/:id", candidateHandler.HandleDelete)
	api.Post("/candidates/:id/status", candidateHandler.HandleUpdateStatus)
	api.Post("/candidates/:id/reschedule", candidateHandler.HandleReschedule)
	api.Get("/candidates/:id/interviews", interviewHandler.HandleList)
	api.Post("/candidates/:id/interviews", interviewHandler.HandleCreate)

	// Tasks
	api.Get("/tasks/:id", intakeHandler.HandleGetTask)
	api.Post("/tasks/:id/cancel", intakeHandler.HandleCancelTask)

	// Messaging and dashboard
	api.Post("/messages/bulk-send", messageHandler.HandleBulkSend)
	api.Get("/dashboard/stats", dashboardHandler.HandleStats)
	api.Get("/statuses", candidateHandler.HandleStatuses)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hiring Pipeline API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/jobs",
				"GET /api/v1/candidates",
				"POST /api/v1/candidates/bulk-process",
				"GET /api/v1/tasks/:id",
				"POST /api/v1/messages/bulk-send",
				"GET /api/v1/dashboard/stats",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		taskRegistry.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

}

func customErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.StatusCode()).JSON(fiber.Map{
			"error": appErr.Message,
			"code":  appErr.StatusCode(),
		})
	}

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("❌ Unhandled error: %v\n", err)
		return c.Status(code).JSON(fiber.Map{
			"error": "Internal server error",
			"code":  code,
		})
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
