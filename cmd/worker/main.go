package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"denisetiawan/ai-recruiter/internal/config"
	"denisetiawan/ai-recruiter/internal/repositories"
	"denisetiawan/ai-recruiter/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// The job description is required before any candidate is
	// consumed; a missing file aborts the run outright.
	jobDesc, err := os.ReadFile(cfg.Job.DescriptionFile)
	if err != nil {
		log.Fatalf("❌ Failed to load job description %s: %v", cfg.Job.DescriptionFile, err)
	}

	// Initialize Redis (identity store + work queue)
	redisClient := config.InitRedis(cfg)
	candidateRepo := repositories.NewCandidateRepository(redisClient)
	queue := repositories.NewWorkQueue(redisClient, cfg.Redis.QueueName)

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.InboxPath, cfg.Storage.ProcessedPath)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize pipeline services
	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()
	ingestService := services.NewIngestService(pdfParser, chunker, geminiService, qdrantService)

	agentService := services.NewAgentService(geminiService, cfg.Worker.RetryMaxAttempts)
	tools := services.NewToolRegistry()
	stateMachine := services.NewStateMachine(agentService, tools)
	retrievalService := services.NewRetrievalService(geminiService, qdrantService, agentService)

	reportService, err := services.NewReportService(cfg.Reports.Dir, cfg.Reports.MasterFile)
	if err != nil {
		log.Fatalf("❌ Failed to initialize report service: %v", err)
	}

	orchestrator := services.NewOrchestratorService(
		retrievalService,
		stateMachine,
		reportService,
		candidateRepo,
		cfg.Job.RetrievalK,
	)

	notifier := services.NewDiscordNotifier(cfg.Reports.DiscordWebhook)

	worker := services.NewWorker(
		queue,
		candidateRepo,
		storageService,
		ingestService,
		orchestrator,
		notifier,
		string(jobDesc),
		cfg.Worker.PopTimeout,
		cfg.Worker.AlertThreshold,
	)

	ctx := context.Background()
	worker.Start(ctx)

	// Block until signalled
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	worker.Stop()
}
