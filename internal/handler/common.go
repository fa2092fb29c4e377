package handler

import (
	"errors"
	"strconv"
	"time"

	"go-bookstore-api/internal/apperr"
	"go-bookstore-api/internal/middleware"
	"go-bookstore-api/internal/model"
	"go-bookstore-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// identityFrom reads the Identity set by RequireAuth. Falls back to a zero
// identity, which should never happen behind the middleware.
func identityFrom(c *fiber.Ctx) model.Identity {
	if id, ok := c.Locals(middleware.IdentityKey).(model.Identity); ok {
		return id
	}
	return model.Identity{}
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *fiber.Ctx, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// pagination is the list-response envelope.
type pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

func paginate(c *fiber.Ctx, total int64) pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}
}

// respondError maps taxonomy kinds to HTTP statuses. Anything outside the
// taxonomy is treated as a storage failure and reported generically.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidState):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrInsufficientStock):
		var stockErr *apperr.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(409).JSON(fiber.Map{
				"error":     err.Error(),
				"book_id":   stockErr.BookID,
				"available": stockErr.Available,
				"requested": stockErr.Requested,
				"shortfall": stockErr.Shortfall(),
			})
		}
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.LogError("http", c.Route().Path, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
