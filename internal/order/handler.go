package order

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

// Handler exposes checkout and order reads to the storefront, and the
// lifecycle controls to the back office.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes wires the storefront surface; these routes accept either an
// authenticated user or an anonymous session id (guest checkout).
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.checkout)
	app.Get("/api/v1/orders", h.listOwn)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.getOwn)
	app.Get("/api/v1/orders/:id<[0-9]+>/status", h.pollStatus)
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.listAll)
	router.Get("/orders/:id<[0-9]+>", h.getAny)
	router.Put("/orders/:id<[0-9]+>/status", h.updateStatus)
	router.Put("/orders/:id<[0-9]+>/ready-time", h.setReadyTime)
}

type checkoutRequest struct {
	OrderType      string  `json:"orderType"`
	ScheduledAt    *string `json:"scheduledAt,omitempty"`
	Instructions   *string `json:"instructions,omitempty"`
	AddressID      *int    `json:"addressId,omitempty"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	// every checkout field is optional, so a body-less POST is a valid
	// plain pickup order
	payload := new(checkoutRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	draft := Draft{
		Type:           Type(payload.OrderType),
		Instructions:   payload.Instructions,
		AddressID:      payload.AddressID,
		IdempotencyKey: payload.IdempotencyKey,
	}
	if payload.OrderType != "" && !draft.Type.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "orderType must be pickup or delivery"})
	}
	if payload.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *payload.ScheduledAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "scheduledAt must be RFC3339"})
		}
		draft.ScheduledAt = &t
	}

	created, err := h.service.Checkout(o, draft)
	if err != nil {
		switch err {
		case ErrEmptyCart:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cart is empty"})
		case ErrMenuItemGone:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"orderId":     created.ID,
		"totalAmount": created.Total,
		"status":      created.Status,
	})
}

func (h *Handler) listOwn(c *fiber.Ctx) error {
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	orders, err := h.service.ListForOwner(o)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

type orderDetail struct {
	Order
	DisplayStatus string `json:"displayStatus"`
	Lines         []Line `json:"lines"`
}

func (h *Handler) getOwn(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	ord, lines, err := h.service.GetForOwner(o, id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orderDetail{Order: ord, DisplayStatus: ord.DisplayStatus(), Lines: lines})
}

// pollStatus backs the storefront's periodic readiness check. Missing a poll
// has no correctness impact; the stored status is the source of truth.
func (h *Handler) pollStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	o, err := owner.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	ord, _, err := h.service.GetForOwner(o, id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	resp := fiber.Map{"status": ord.Status, "displayStatus": ord.DisplayStatus()}
	if ord.EstimatedReadyAt != nil {
		resp["estimatedReadyAt"] = ord.EstimatedReadyAt
	}
	return c.JSON(resp)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	var status *Status
	if q := c.Query("status"); q != "" {
		s := Status(q)
		if !s.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status filter"})
		}
		status = &s
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	orders, err := h.service.ListAll(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getAny(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	ord, lines, err := h.service.Get(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orderDetail{Order: ord, DisplayStatus: ord.DisplayStatus(), Lines: lines})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(id, Status(payload.Status))
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrTerminalStatus, ErrInvalidTransition:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}

type readyTimeRequest struct {
	EstimatedReadyAt string `json:"estimatedReadyAt"`
}

func (h *Handler) setReadyTime(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(readyTimeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	at, err := time.Parse(time.RFC3339, payload.EstimatedReadyAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "estimatedReadyAt must be RFC3339"})
	}

	updated, err := h.service.SetEstimatedReady(id, at)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrTerminalStatus:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(orderDetail{Order: updated, DisplayStatus: updated.DisplayStatus()})
}
