package handler

import (
	"time"

	"go-bookstore-api/internal/repository"
	"go-bookstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	now := time.Now().UTC()
	start := now.AddDate(0, -1, 0)
	end := now

	if d := parseDateQuery(c, "start_date"); d != nil {
		start = *d
	}
	if d := parseDateQuery(c, "end_date"); d != nil {
		// Include the whole end day
		end = d.Add(24*time.Hour - time.Nanosecond)
	}

	summary, err := h.service.GetFinancialSummary(start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *ReportHandler) GetTrend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	trend, err := h.service.GetDailyTrend(days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"trend": trend})
}

func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *ReportHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.LedgerFilter{
		Type:      c.Query("type"),
		StartDate: parseDateQuery(c, "start_date"),
		EndDate:   parseDateQuery(c, "end_date"),
		Page:      c.QueryInt("page", 1),
		PerPage:   c.QueryInt("per_page", 20),
	}

	entries, total, err := h.service.ListTransactions(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": entries, "pagination": paginate(c, total)})
}
