package dashboard

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/dashboard", h.getSummary)
	router.Get("/dashboard/top-items", h.getTopItems)
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(summary)
}

func (h *Handler) getTopItems(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	items, err := h.service.TopItems(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(items)
}
