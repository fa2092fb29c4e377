package handler

import (
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) CreateBook(c *fiber.Ctx) error {
	var req service.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	book, err := h.service.CreateBook(identityFrom(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Book created", "data": book})
}

func (h *CatalogHandler) GetBooks(c *fiber.Ctx) error {
	filter := repository.BookFilter{
		Query:      c.Query("q"),
		ActiveOnly: c.QueryBool("active_only", false),
		Page:       c.QueryInt("page", 1),
		PerPage:    c.QueryInt("per_page", 20),
	}

	books, total, err := h.service.ListBooks(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"books": books, "pagination": paginate(c, total)})
}

func (h *CatalogHandler) GetBook(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid book ID"})
	}

	book, err := h.service.GetBook(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(book)
}

func (h *CatalogHandler) UpdateBook(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid book ID"})
	}

	var patch service.BookPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	book, err := h.service.UpdateBook(identityFrom(c), id, &patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Book updated", "data": book})
}

func (h *CatalogHandler) DeleteBook(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid book ID"})
	}

	if err := h.service.DeactivateBook(identityFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Book deactivated"})
}
