package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/selamkitchen/restaurant-backend/internal/menu"
	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

// Handler delegates cart operations to the cart service. Routes accept
// either an authenticated user or an anonymous session id.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/v1/cart/add", h.add)
	app.Get("/api/v1/cart", h.list)
	app.Put("/api/v1/cart/line", h.updateLine)
	app.Delete("/api/v1/cart/line", h.removeLine)
	app.Delete("/api/v1/cart", h.clear)
}

type addRequest struct {
	MenuItemID   int     `json:"menuItemId"`
	Quantity     int     `json:"quantity"`
	Variant      *string `json:"variant,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

func (h *Handler) add(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.MenuItemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid menuItemId"})
	}

	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := h.service.Add(o, payload.MenuItemID, payload.Quantity, payload.Variant, payload.Instructions)
	if err != nil {
		switch err {
		case menu.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
		case menu.ErrUnknownVariant, menu.ErrUnavailable, ErrInvalidQuantity:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"ok": true, "itemName": result.ItemName, "lineQuantity": result.Quantity})
}

func (h *Handler) list(c *fiber.Ctx) error {
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	view, err := h.service.List(o)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(view)
}

type updateLineRequest struct {
	MenuItemID int     `json:"menuItemId"`
	Variant    *string `json:"variant,omitempty"`
	Quantity   int     `json:"quantity"`
}

func (h *Handler) updateLine(c *fiber.Ctx) error {
	payload := new(updateLineRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.MenuItemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid menuItemId"})
	}
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.UpdateQuantity(o, payload.MenuItemID, payload.Variant, payload.Quantity); err != nil {
		switch err {
		case ErrLineNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart line not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

type removeLineRequest struct {
	LineID     int     `json:"lineId,omitempty"`
	MenuItemID int     `json:"menuItemId,omitempty"`
	Variant    *string `json:"variant,omitempty"`
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	payload := new(removeLineRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	switch {
	case payload.LineID > 0:
		err = h.service.RemoveLine(o, payload.LineID)
	case payload.MenuItemID > 0:
		err = h.service.Remove(o, payload.MenuItemID, payload.Variant)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "lineId or menuItemId required"})
	}
	if err != nil {
		switch err {
		case ErrLineNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart line not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) clear(c *fiber.Ctx) error {
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.Clear(o); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
