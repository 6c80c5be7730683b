package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	chunkSize    = 800
	chunkOverlap = 100
)

// IngestService turns a resume PDF into embedded chunks in the
// similarity index, each tagged with its source name.
type IngestService interface {
	IngestFile(ctx context.Context, filePath, source string) error
	IngestDirectory(ctx context.Context, dir string) (int, error)
}

type ingestService struct {
	pdfParser PDFParserService
	chunker   TextChunker
	gemini    GeminiService
	qdrant    QdrantService
}

func NewIngestService(pdfParser PDFParserService, chunker TextChunker, gemini GeminiService, qdrant QdrantService) IngestService {
	return &ingestService{
		pdfParser: pdfParser,
		chunker:   chunker,
		gemini:    gemini,
		qdrant:    qdrant,
	}
}

// IngestFile implements IngestService. Previous chunks of the same
// source are removed first so a re-submission fully replaces the old
// resume.
func (s *ingestService) IngestFile(ctx context.Context, filePath, source string) error {
	text, err := s.pdfParser.ExtractText(filePath)
	if err != nil {
		return fmt.Errorf("failed to extract text from %s: %w", filePath, err)
	}

	chunks := s.chunker.ChunkText(text, chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced from %s", filePath)
	}

	if err := s.qdrant.DeleteSource(ctx, source); err != nil {
		log.Printf("⚠️  Failed to clear old chunks for %s: %v\n", source, err)
	}

	for i, chunk := range chunks {
		embedding, err := s.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", i, source, err)
		}

		if err := s.qdrant.UpsertChunk(ctx, source, i, chunk, embedding); err != nil {
			return fmt.Errorf("failed to store chunk %d of %s: %w", i, source, err)
		}
	}

	log.Printf("✅ Ingested %s (%d chunks)\n", source, len(chunks))
	return nil
}

// IngestDirectory implements IngestService. Used by the bulk ingestion
// script; individual file failures are logged and skipped.
func (s *ingestService) IngestDirectory(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := s.IngestFile(ctx, path, entry.Name()); err != nil {
			log.Printf("❌ Failed to ingest %s: %v\n", entry.Name(), err)
			continue
		}
		ingested++
	}

	return ingested, nil
}
