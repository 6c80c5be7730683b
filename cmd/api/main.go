package main

import (
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

	"denisetiawan/ai-recruiter/internal/config"
	"denisetiawan/ai-recruiter/internal/handlers"
	"denisetiawan/ai-recruiter/internal/repositories"
	"denisetiawan/ai-recruiter/internal/services"
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

	// Initialize Redis (identity store + work queue)
	redisClient := config.InitRedis(cfg)

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	candidateRepo := repositories.NewCandidateRepository(redisClient)
	queue := repositories.NewWorkQueue(redisClient, cfg.Redis.QueueName)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.InboxPath, cfg.Storage.ProcessedPath)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	reportService, err := services.NewReportService(cfg.Reports.Dir, cfg.Reports.MasterFile)
	if err != nil {
		log.Fatalf("❌ Failed to initialize report service: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	applyHandler := handlers.NewApplyHandler(
		docRepo,
		candidateRepo,
		queue,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, docRepo)
	reportHandler := handlers.NewReportHandler(reportService, candidateRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Recruiter API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/apply", applyHandler.HandleApply)
	api.Get("/candidates/:source", candidateHandler.HandleGetCandidate)
	api.Get("/reports/:source", reportHandler.HandleGetReport)
	api.Post("/reports/aggregate", reportHandler.HandleAggregate)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Recruiter API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/apply",
				"GET /api/v1/candidates/:source",
				"GET /api/v1/reports/:source",
				"POST /api/v1/reports/aggregate",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
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

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
