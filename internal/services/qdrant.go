package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"denisetiawan/ai-recruiter/internal/models"
)

// QdrantService is the similarity index over resume chunks. Ingestion
// writers and retrieval readers share the collection; transient lock
// contention is retried before surfacing.
type QdrantService interface {
	InitCollection() error
	UpsertChunk(ctx context.Context, source string, chunkIndex int, text string, embedding []float32) error
	Search(ctx context.Context, queryEmbedding []float32, limit int) ([]models.CandidateDocument, error)
	DeleteSource(ctx context.Context, source string) error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	searchRetries  int
	retryDelay     time.Duration
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
		searchRetries:  3,
		retryDelay:     500 * time.Millisecond,
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// newChunkPointID returns a full-UUID point id. Numeric ids would
// truncate the UUID to 32 bits, and at tens of thousands of chunks a
// collision silently overwrites another candidate's chunk.
func newChunkPointID() *qdrant.PointId {
	return qdrant.NewID(uuid.NewString())
}

// UpsertChunk implements QdrantService.
func (q *qdrantService) UpsertChunk(ctx context.Context, source string, chunkIndex int, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      newChunkPointID(),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"source": source,
			"chunk":  chunkIndex,
			"text":   text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements QdrantService. Transient failures (the collection
// is shared with concurrent ingestion writers) are retried a few times
// with a short fixed delay.
func (q *qdrantService) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]models.CandidateDocument, error) {
	var points []*qdrant.ScoredPoint
	var err error

	for attempt := 1; attempt <= q.searchRetries; attempt++ {
		points, err = q.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: q.collectionName,
			Query:          qdrant.NewQuery(queryEmbedding...),
			Limit:          qdrant.PtrOf(uint64(limit)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err == nil {
			break
		}

		if attempt < q.searchRetries {
			log.Printf("⚠️  Qdrant search attempt %d failed: %v. Retrying...\n", attempt, err)
			time.Sleep(q.retryDelay)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to search after %d attempts: %w", q.searchRetries, err)
	}

	var results []models.CandidateDocument
	for _, point := range points {
		payload := point.Payload

		doc := models.CandidateDocument{
			Score:    point.Score,
			Metadata: make(map[string]interface{}),
		}

		if source, ok := payload["source"]; ok {
			if val, ok := source.GetKind().(*qdrant.Value_StringValue); ok {
				doc.Source = val.StringValue
			}
		}

		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				doc.Content = val.StringValue
			}
		}

		for key, value := range payload {
			doc.Metadata[key] = value
		}

		results = append(results, doc)
	}

	return results, nil
}

// DeleteSource implements QdrantService. Removes every chunk belonging
// to one resume before re-ingestion.
func (q *qdrantService) DeleteSource(ctx context.Context, source string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("source", source),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete source chunks: %w", err)
	}

	return nil
}
