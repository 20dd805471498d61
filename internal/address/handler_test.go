package address

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithAddressHandler(a *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	a.RegisterProtectedRoutes(app)
	return app
}

func TestAddressRoutes(t *testing.T) {
	seed := map[int][]Address{
		42: {{ID: 1, UserID: 42, Label: "Home", Details: "123 Main", Phone: "555-1234"}},
	}
	handler := NewHandler(NewService(NewInMemoryRepository(seed)))
	app := makeAppWithAddressHandler(handler)

	// unauthorized
	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/addresses", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	// authorized GET returns the seeded address
	req := httptest.NewRequest("GET", "/api/v1/addresses", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "123 Main") {
		t.Fatalf("unexpected body: %s", string(b))
	}

	// POST a new address
	req = httptest.NewRequest("POST", "/api/v1/addresses", strings.NewReader(`{"label":"Office","details":"45 Bole Rd","phone":"123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 for add, got %d", res.StatusCode)
	}
	b, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Bole") {
		t.Fatalf("add response unexpected: %s", string(b))
	}

	// PATCH the new address
	req = httptest.NewRequest("PATCH", "/api/v1/addresses/2", strings.NewReader(`{"label":"Office","details":"99 Bole Rd"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for patch, got %d", res.StatusCode)
	}
	b, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(b), "99 Bole Rd") {
		t.Fatalf("patch response unexpected: %s", string(b))
	}

	// another user cannot touch it
	req = httptest.NewRequest("DELETE", "/api/v1/addresses/2", nil)
	req.Header.Set("X-User-ID", "7")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", res.StatusCode)
	}

	// the owner can
	req = httptest.NewRequest("DELETE", "/api/v1/addresses/2", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for delete, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/addresses", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	b, _ = io.ReadAll(res.Body)
	if strings.Contains(string(b), "Bole") {
		t.Fatalf("delete did not remove entry: %s", string(b))
	}

	// validation: empty payload rejected
	req = httptest.NewRequest("POST", "/api/v1/addresses", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty payload, got %d", res.StatusCode)
	}
}
