package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"denisetiawan/ai-recruiter/internal/models"
)

type CandidateRepository interface {
	Save(ctx context.Context, source string, identity *models.CandidateIdentity) error
	Find(ctx context.Context, source string) (*models.CandidateIdentity, error)
	UpdateStatus(ctx context.Context, source string, status models.CandidateStatus) error
}

type candidateRepository struct {
	client *redis.Client
}

func NewCandidateRepository(client *redis.Client) CandidateRepository {
	return &candidateRepository{client: client}
}

func candidateKey(source string) string {
	return fmt.Sprintf("candidate:%s", source)
}

// Save implements CandidateRepository. Re-submitting the same source
// overwrites the existing fields (last-writer-wins).
func (c *candidateRepository) Save(ctx context.Context, source string, identity *models.CandidateIdentity) error {
	if err := c.client.HSet(ctx, candidateKey(source), identity.ToFields()).Err(); err != nil {
		return fmt.Errorf("failed to save candidate %s: %w", source, err)
	}
	return nil
}

// Find implements CandidateRepository. An unknown source is not an
// error: the worker still evaluates the resume and labels the
// candidate from its source name.
func (c *candidateRepository) Find(ctx context.Context, source string) (*models.CandidateIdentity, error) {
	fields, err := c.client.HGetAll(ctx, candidateKey(source)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate %s: %w", source, err)
	}

	if len(fields) == 0 {
		return &models.CandidateIdentity{
			Name:   fmt.Sprintf("Unknown (%s)", source),
			Email:  "N/A",
			Status: models.StatusQueued,
		}, nil
	}

	return models.IdentityFromFields(fields), nil
}

// UpdateStatus implements CandidateRepository.
func (c *candidateRepository) UpdateStatus(ctx context.Context, source string, status models.CandidateStatus) error {
	if err := c.client.HSet(ctx, candidateKey(source), "status", string(status)).Err(); err != nil {
		return fmt.Errorf("failed to update status for %s: %w", source, err)
	}
	return nil
}
