package main

import (
	"context"
	"log"
	"os"

	"denisetiawan/ai-recruiter/internal/config"
	"denisetiawan/ai-recruiter/internal/services"
)

// Bulk-ingests a directory of resume PDFs into the similarity index.
// Usage: go run scripts/ingest_resumes.go [dir]
func main() {
	log.Println("🚀 Starting resume ingestion...")

	dir := "./data/resumes"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	ingestService := services.NewIngestService(
		services.NewPDFParserService(),
		services.NewTextChunker(),
		geminiService,
		qdrantService,
	)

	count, err := ingestService.IngestDirectory(context.Background(), dir)
	if err != nil {
		log.Fatalf("❌ Ingestion failed: %v", err)
	}

	log.Printf("✅ Ingested %d resumes from %s\n", count, dir)
}
