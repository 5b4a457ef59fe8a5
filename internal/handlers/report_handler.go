package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"logbiz/recruitment-api/internal/repositories"
)

type ReportHandler struct {
	reportRepo repositories.ReportRepository
}

func NewReportHandler(reportRepo repositories.ReportRepository) *ReportHandler {
	return &ReportHandler{reportRepo: reportRepo}
}

// HandleDashboard handles GET /reports/dashboard
func (h *ReportHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.reportRepo.DashboardStats(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute dashboard stats",
		})
	}

	return c.JSON(stats)
}
