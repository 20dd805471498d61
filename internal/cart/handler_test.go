package cart

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/selamkitchen/restaurant-backend/internal/menu"
	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

func makeApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	catalog := menu.NewService(menu.NewInMemoryRepository([]menu.Item{
		{ID: 10, Name: "Coffee", Price: decimal.RequireFromString("3.99"), Available: true},
		{ID: 20, Name: "Doro Wat", Price: decimal.RequireFromString("10.99"), Available: true,
			Variants: []menu.Variant{{Name: "Black Teff", Surcharge: decimal.RequireFromString("1.99")}}},
	}))
	service := NewService(NewInMemoryRepository(), catalog)
	handler := NewHandler(service)
	app := fiber.New()
	handler.RegisterRoutes(app)
	return app, service
}

func doJSON(t *testing.T, app *fiber.App, method, path, session, body string) (*fiber.App, int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(owner.SessionHeader, session)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	return app, res.StatusCode, string(b)
}

func TestCartRoutes_MissingOwnerIsValidationError(t *testing.T) {
	app, _ := makeApp(t)
	_, code, _ := doJSON(t, app, "GET", "/api/v1/cart", "", "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without owner, got %d", code)
	}
	_, code, _ = doJSON(t, app, "POST", "/api/v1/cart/add", "", `{"menuItemId":10,"quantity":1}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without owner, got %d", code)
	}
}

func TestCartRoutes_AddAndIncrement(t *testing.T) {
	app, _ := makeApp(t)

	// first add creates the line
	_, code, body := doJSON(t, app, "POST", "/api/v1/cart/add", "sess-1", `{"menuItemId":10,"quantity":1}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d: %s", code, body)
	}
	if !strings.Contains(body, `"lineQuantity":1`) || !strings.Contains(body, "Coffee") {
		t.Fatalf("unexpected add response: %s", body)
	}

	_, code, body = doJSON(t, app, "GET", "/api/v1/cart", "sess-1", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for list, got %d", code)
	}
	if !strings.Contains(body, `"subtotal":"3.99"`) || !strings.Contains(body, `"total":"3.99"`) {
		t.Fatalf("unexpected cart view: %s", body)
	}

	// same add again increments quantity, no second line
	_, _, body = doJSON(t, app, "POST", "/api/v1/cart/add", "sess-1", `{"menuItemId":10,"quantity":1}`)
	if !strings.Contains(body, `"lineQuantity":2`) {
		t.Fatalf("expected quantity 2 after second add: %s", body)
	}
	_, _, body = doJSON(t, app, "GET", "/api/v1/cart", "sess-1", "")
	if strings.Count(body, `"menuItemId"`) != 1 {
		t.Fatalf("expected a single line, got: %s", body)
	}
	if !strings.Contains(body, `"total":"7.98"`) {
		t.Fatalf("expected total 7.98: %s", body)
	}
}

func TestCartRoutes_VariantIsPartOfIdentity(t *testing.T) {
	app, _ := makeApp(t)

	doJSON(t, app, "POST", "/api/v1/cart/add", "sess-2", `{"menuItemId":20,"quantity":1}`)
	doJSON(t, app, "POST", "/api/v1/cart/add", "sess-2", `{"menuItemId":20,"quantity":1,"variant":"Black Teff"}`)

	_, _, body := doJSON(t, app, "GET", "/api/v1/cart", "sess-2", "")
	if strings.Count(body, `"menuItemId"`) != 2 {
		t.Fatalf("expected two distinct lines for base and variant, got: %s", body)
	}
	if !strings.Contains(body, `"unitPrice":"12.98"`) {
		t.Fatalf("expected surcharged unit price 12.98: %s", body)
	}
}

func TestCartRoutes_UpdateRemoveClear(t *testing.T) {
	app, _ := makeApp(t)
	doJSON(t, app, "POST", "/api/v1/cart/add", "sess-3", `{"menuItemId":10,"quantity":2}`)

	// update quantity
	_, code, _ := doJSON(t, app, "PUT", "/api/v1/cart/line", "sess-3", `{"menuItemId":10,"quantity":5}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for update, got %d", code)
	}
	_, _, body := doJSON(t, app, "GET", "/api/v1/cart", "sess-3", "")
	if !strings.Contains(body, `"quantity":5`) {
		t.Fatalf("expected quantity 5: %s", body)
	}

	// quantity <= 0 removes the line
	_, code, _ = doJSON(t, app, "PUT", "/api/v1/cart/line", "sess-3", `{"menuItemId":10,"quantity":0}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for zero-quantity update, got %d", code)
	}
	_, _, body = doJSON(t, app, "GET", "/api/v1/cart", "sess-3", "")
	if strings.Contains(body, `"menuItemId"`) {
		t.Fatalf("expected empty cart after zero-quantity update: %s", body)
	}

	// clear an already-empty cart is fine
	_, code, _ = doJSON(t, app, "DELETE", "/api/v1/cart", "sess-3", "")
	if code != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear, got %d", code)
	}
}

func TestCartRoutes_UnknownItemAndVariant(t *testing.T) {
	app, _ := makeApp(t)
	_, code, _ := doJSON(t, app, "POST", "/api/v1/cart/add", "sess-4", `{"menuItemId":999,"quantity":1}`)
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", code)
	}
	_, code, _ = doJSON(t, app, "POST", "/api/v1/cart/add", "sess-4", `{"menuItemId":10,"quantity":1,"variant":"Nope"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown variant, got %d", code)
	}
	_, code, _ = doJSON(t, app, "POST", "/api/v1/cart/add", "sess-4", `{"menuItemId":10,"quantity":0}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", code)
	}
}
