package favorite

import (
	"github.com/gofiber/fiber/v2"

	"github.com/selamkitchen/restaurant-backend/internal/user"
)

// Handler keeps favorite-specific HTTP routing isolated from the user handler.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/v1/favorites", h.getFavorites)
	app.Post("/api/v1/favorites", h.addFavorite)
	app.Delete("/api/v1/favorites", h.removeFavorite)
}

type favoriteRequest struct {
	MenuItemID int `json:"menuItemId"`
}

func (h *Handler) addFavorite(c *fiber.Ctx) error {
	payload := new(favoriteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.MenuItemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid menuItemId"})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ids, err := h.service.Add(userID, payload.MenuItemID)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
		case ErrAlreadyFavorite:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "item already in favorites"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"menuItemId": payload.MenuItemID, "favoriteIds": ids})
}

func (h *Handler) removeFavorite(c *fiber.Ctx) error {
	payload := new(favoriteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.MenuItemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid menuItemId"})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ids, err := h.service.Remove(userID, payload.MenuItemID)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
		case ErrNotFavorite:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item not in favorites"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"menuItemId": payload.MenuItemID, "favoriteIds": ids})
}

func (h *Handler) getFavorites(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	favs, err := h.service.List(userID)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(favs)
}
