package menu

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes the public catalog and the admin CRUD surface.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/menu", h.listItems)
	app.Get("/api/v1/menu/:id<[0-9]+>", h.getItem)
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/menu", h.createItem)
	router.Put("/menu/:id<[0-9]+>", h.updateItem)
	router.Delete("/menu/:id<[0-9]+>", h.deleteItem)
	router.Patch("/menu/:id<[0-9]+>/availability", h.setAvailability)
	router.Post("/menu/:id<[0-9]+>/variants", h.addVariant)
	router.Delete("/menu/:id<[0-9]+>/variants/:variantId<[0-9]+>", h.deleteVariant)
}

func (h *Handler) listItems(c *fiber.Ctx) error {
	var categoryID *int
	if q := c.Query("category"); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid category"})
		}
		categoryID = &id
	}
	return c.JSON(h.service.List(categoryID))
}

func (h *Handler) getItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	it, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(it)
}

type itemRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *int            `json:"categoryId"`
	Available   *bool           `json:"available"`
	Image       *string         `json:"image"`
}

func (p itemRequest) toItem() Item {
	available := true
	if p.Available != nil {
		available = *p.Available
	}
	return Item{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Round(2),
		CategoryID:  p.CategoryID,
		Available:   available,
		Image:       p.Image,
	}
}

func (h *Handler) createItem(c *fiber.Ctx) error {
	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name is required"})
	}
	if payload.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "price must be non-negative"})
	}
	created, err := h.service.Create(payload.toItem())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name is required"})
	}
	if payload.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "price must be non-negative"})
	}
	updated, err := h.service.Update(id, payload.toItem())
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) setAvailability(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(struct {
		Available bool `json:"available"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.SetAvailability(id, payload.Available); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}

type variantRequest struct {
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

func (h *Handler) addVariant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(variantRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name is required"})
	}
	created, err := h.service.AddVariant(Variant{ItemID: id, Name: payload.Name, Surcharge: payload.Surcharge.Round(2)})
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) deleteVariant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	variantID, err := strconv.Atoi(c.Params("variantId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid variantId"})
	}
	if err := h.service.DeleteVariant(id, variantID); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "variant not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}
