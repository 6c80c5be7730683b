package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"denisetiawan/ai-recruiter/internal/models"
	"denisetiawan/ai-recruiter/internal/repositories"
	"denisetiawan/ai-recruiter/internal/services"
)

type ApplyHandler struct {
	docRepo        repositories.DocumentRepository
	candidateRepo  repositories.CandidateRepository
	queue          repositories.WorkQueue
	storageService services.StorageService
	maxFileSize    int64
}

func NewApplyHandler(
	docRepo repositories.DocumentRepository,
	candidateRepo repositories.CandidateRepository,
	queue repositories.WorkQueue,
	storageService services.StorageService,
	maxFileSize int64,
) *ApplyHandler {
	return &ApplyHandler{
		docRepo:        docRepo,
		candidateRepo:  candidateRepo,
		queue:          queue,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleApply handles POST /apply: persists the resume, records the
// candidate identity as queued and enqueues the source name for the
// workers.
func (h *ApplyHandler) HandleApply(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")

	if name == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and email are required",
		})
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv file is required",
		})
	}

	if cvFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filePath, err := h.storageService.SaveToInbox(cvFile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV file: %v", err),
		})
	}

	source := filepath.Base(cvFile.Filename)
	submittedAt := time.Now().Format(time.RFC3339)

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         source,
		OriginalFileName: cvFile.Filename,
		SourceName:       source,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Upsert(&doc); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save document record: %v", err),
		})
	}

	identity := &models.CandidateIdentity{
		Name:        name,
		Email:       email,
		Status:      models.StatusQueued,
		SubmittedAt: submittedAt,
	}

	ctx := context.Background()
	if err := h.candidateRepo.Save(ctx, source, identity); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save candidate identity: %v", err),
		})
	}

	if err := h.queue.Push(ctx, source); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to enqueue application: %v", err),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.ApplyResponse{
		Source:      source,
		Name:        name,
		Status:      string(models.StatusQueued),
		SubmittedAt: submittedAt,
	})
}
