package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"denisetiawan/ai-recruiter/internal/repositories"
	"denisetiawan/ai-recruiter/internal/services"
)

type ReportHandler struct {
	reports       services.ReportService
	candidateRepo repositories.CandidateRepository
}

func NewReportHandler(reports services.ReportService, candidateRepo repositories.CandidateRepository) *ReportHandler {
	return &ReportHandler{
		reports:       reports,
		candidateRepo: candidateRepo,
	}
}

// HandleGetReport handles GET /reports/:source. Reports are keyed by
// candidate name, so the identity store resolves the source first.
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	source := c.Params("source")
	if source == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source is required",
		})
	}

	identity, err := h.candidateRepo.Find(context.Background(), source)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to resolve candidate identity",
		})
	}

	report, err := h.reports.LoadReport(identity.Name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "report not found (evaluation may still be running)",
		})
	}

	return c.JSON(report)
}

// HandleAggregate handles POST /reports/aggregate: rebuilds the master
// report over every persisted candidate report and returns it.
func (h *ReportHandler) HandleAggregate(c *fiber.Ctx) error {
	master, err := h.reports.Aggregate()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to aggregate reports",
		})
	}

	return c.JSON(master)
}
