package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"denisetiawan/ai-recruiter/internal/models"
	"denisetiawan/ai-recruiter/internal/repositories"
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	docRepo       repositories.DocumentRepository
}

func NewCandidateHandler(candidateRepo repositories.CandidateRepository, docRepo repositories.DocumentRepository) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		docRepo:       docRepo,
	}
}

// HandleGetCandidate handles GET /candidates/:source.
func (h *CandidateHandler) HandleGetCandidate(c *fiber.Ctx) error {
	source := c.Params("source")
	if source == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source is required",
		})
	}

	// The document row is the authority on whether this source was
	// ever submitted; the Redis hash alone synthesizes placeholders.
	if _, err := h.docRepo.FindBySource(source); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "candidate not found",
		})
	}

	identity, err := h.candidateRepo.Find(context.Background(), source)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate identity",
		})
	}

	return c.JSON(models.CandidateStatusResponse{
		Source:      source,
		Name:        identity.Name,
		Email:       identity.Email,
		Status:      string(identity.Status),
		SubmittedAt: identity.SubmittedAt,
	})
}
