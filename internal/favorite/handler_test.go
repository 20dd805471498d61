package favorite

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
)

func makeApp() *fiber.App {
	catalog := map[int]Item{
		10: {MenuItemID: 10, Name: "Doro Wat", Price: decimal.RequireFromString("10.99"), Available: true},
		11: {MenuItemID: 11, Name: "Sambusa", Price: decimal.RequireFromString("4.50"), Available: true},
	}
	repo := NewInMemoryRepository(func(ids []int) []Item {
		out := make([]Item, 0, len(ids))
		for _, id := range ids {
			if it, ok := catalog[id]; ok {
				out = append(out, it)
			}
		}
		return out
	})
	h := NewHandler(NewService(repo))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestFavoriteLifecycle(t *testing.T) {
	app := makeApp()

	// unauthorized
	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/favorites", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	// add a favorite
	req := httptest.NewRequest("POST", "/api/v1/favorites", strings.NewReader(`{"menuItemId":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "5")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on add, got %d", res.StatusCode)
	}

	// duplicate add conflicts
	req = httptest.NewRequest("POST", "/api/v1/favorites", strings.NewReader(`{"menuItemId":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "5")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", res.StatusCode)
	}

	// list resolves items
	req = httptest.NewRequest("GET", "/api/v1/favorites", nil)
	req.Header.Set("X-User-ID", "5")
	res, _ = app.Test(req)
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Doro Wat") {
		t.Fatalf("list missing item: %s", string(b))
	}

	// another user's list is independent
	req = httptest.NewRequest("GET", "/api/v1/favorites", nil)
	req.Header.Set("X-User-ID", "6")
	res, _ = app.Test(req)
	b, _ = io.ReadAll(res.Body)
	if strings.Contains(string(b), "Doro Wat") {
		t.Fatalf("favorites leaked between users: %s", string(b))
	}

	// remove
	req = httptest.NewRequest("DELETE", "/api/v1/favorites", strings.NewReader(`{"menuItemId":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "5")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on remove, got %d", res.StatusCode)
	}

	// removing again is a 400
	req = httptest.NewRequest("DELETE", "/api/v1/favorites", strings.NewReader(`{"menuItemId":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "5")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on double remove, got %d", res.StatusCode)
	}
}
