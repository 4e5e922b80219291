package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/search"
	"github.com/docvault/backend/pkg/logger"
)

type SearchHandler struct {
	service *search.Service
}

func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// HandleSearch answers one free-text query. An index failure is reported as a
// failure; an empty hit list means zero matches.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("failed to parse search request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	result, err := h.service.Search(c.Context(), req.Query)
	if err != nil {
		logger.Error("failed to process search", zap.String("query", req.Query), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to search documents",
		})
	}

	return c.JSON(result)
}
