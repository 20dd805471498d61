package order

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/selamkitchen/restaurant-backend/internal/cart"
	"github.com/selamkitchen/restaurant-backend/internal/menu"
	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

func makeApp(t *testing.T) (*fiber.App, *cart.Service) {
	t.Helper()
	menuRepo := menu.NewInMemoryRepository([]menu.Item{
		{ID: 10, Name: "Coffee", Price: decimal.RequireFromString("3.99"), Available: true},
	})
	cartRepo := cart.NewInMemoryRepository()
	cartSvc := cart.NewService(cartRepo, menu.NewService(menuRepo))
	svc := NewService(NewInMemoryRepository(cartRepo))

	app := fiber.New()
	h := NewHandler(svc)
	h.RegisterRoutes(app)
	h.RegisterAdminRoutes(app.Group("/api/v1/admin"))
	return app, cartSvc
}

func doJSON(t *testing.T, app *fiber.App, method, target, sessionID string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(owner.SessionHeader, sessionID)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func seedCart(t *testing.T, carts *cart.Service, sessionID string, qty int) {
	t.Helper()
	o, _ := owner.Resolve(0, sessionID)
	if _, err := carts.Add(o, 10, qty, nil, nil); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "s1", 2)

	resp := doJSON(t, app, "POST", "/api/v1/orders", "s1", fiber.Map{"orderType": "pickup"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		OrderID     int    `json:"orderId"`
		TotalAmount string `json:"totalAmount"`
		Status      string `json:"status"`
	}
	decodeBody(t, resp, &body)
	if body.TotalAmount != "7.98" {
		t.Fatalf("expected total 7.98, got %s", body.TotalAmount)
	}
	if body.Status != "pending" {
		t.Fatalf("expected pending, got %s", body.Status)
	}

	// the cart is empty now, so an immediate second checkout conflicts
	resp = doJSON(t, app, "POST", "/api/v1/orders", "s1", fiber.Map{"orderType": "pickup"})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on empty cart, got %d", resp.StatusCode)
	}
}

func TestCheckoutEndpoint_NoBodyDefaultsToPickup(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "s1", 1)

	// all checkout fields are optional; a bare POST is a plain pickup order
	resp := doJSON(t, app, "POST", "/api/v1/orders", "s1", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 for a body-less checkout, got %d", resp.StatusCode)
	}
	var created struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &created)
	if created.Status != "pending" {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	resp = doJSON(t, app, "GET", "/api/v1/orders/1", "s1", nil)
	var detail struct {
		OrderType string `json:"orderType"`
	}
	decodeBody(t, resp, &detail)
	if detail.OrderType != "pickup" {
		t.Fatalf("expected pickup default, got %q", detail.OrderType)
	}
}

func TestCheckoutEndpoint_BadOrderType(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "s2", 1)

	resp := doJSON(t, app, "POST", "/api/v1/orders", "s2", fiber.Map{"orderType": "teleport"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckoutEndpoint_MissingOwner(t *testing.T) {
	app, _ := makeApp(t)
	resp := doJSON(t, app, "POST", "/api/v1/orders", "", fiber.Map{"orderType": "pickup"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestOrderDetail_ScopedToOwner(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "mine", 1)

	resp := doJSON(t, app, "POST", "/api/v1/orders", "mine", nil)
	var created struct {
		OrderID int `json:"orderId"`
	}
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, "GET", "/api/v1/orders/1", "mine", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for own order, got %d", resp.StatusCode)
	}
	var detail struct {
		DisplayStatus string `json:"displayStatus"`
		Lines         []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
	}
	decodeBody(t, resp, &detail)
	if detail.DisplayStatus != "pending" || len(detail.Lines) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	resp = doJSON(t, app, "GET", "/api/v1/orders/1", "someone-else", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", resp.StatusCode)
	}
}

func TestStatusPolling_ReflectsAdminUpdates(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "s3", 1)
	doJSON(t, app, "POST", "/api/v1/orders", "s3", nil)

	resp := doJSON(t, app, "PUT", "/api/v1/admin/orders/1/status", "", fiber.Map{"status": "confirmed"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on status update, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", "/api/v1/admin/orders/1/ready-time", "", fiber.Map{"estimatedReadyAt": "2026-08-31T18:30:00Z"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on ready time, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/v1/orders/1/status", "s3", nil)
	var poll struct {
		Status           string `json:"status"`
		DisplayStatus    string `json:"displayStatus"`
		EstimatedReadyAt string `json:"estimatedReadyAt"`
	}
	decodeBody(t, resp, &poll)
	if poll.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", poll.Status)
	}
	if poll.DisplayStatus != "ready_time" {
		t.Fatalf("expected ready_time display, got %s", poll.DisplayStatus)
	}
	if poll.EstimatedReadyAt == "" {
		t.Fatal("expected estimatedReadyAt in poll response")
	}
}

func TestAdminStatusUpdate_RejectsBadTransitions(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "s4", 1)
	doJSON(t, app, "POST", "/api/v1/orders", "s4", nil)

	resp := doJSON(t, app, "PUT", "/api/v1/admin/orders/1/status", "", fiber.Map{"status": "ready"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for skipped state, got %d", resp.StatusCode)
	}

	doJSON(t, app, "PUT", "/api/v1/admin/orders/1/status", "", fiber.Map{"status": "cancelled"})
	resp = doJSON(t, app, "PUT", "/api/v1/admin/orders/1/status", "", fiber.Map{"status": "confirmed"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for terminal order, got %d", resp.StatusCode)
	}
}

func TestAdminList_StatusFilter(t *testing.T) {
	app, carts := makeApp(t)
	seedCart(t, carts, "a", 1)
	doJSON(t, app, "POST", "/api/v1/orders", "a", nil)
	seedCart(t, carts, "b", 1)
	doJSON(t, app, "POST", "/api/v1/orders", "b", nil)
	doJSON(t, app, "PUT", "/api/v1/admin/orders/2/status", "", fiber.Map{"status": "confirmed"})

	resp := doJSON(t, app, "GET", "/api/v1/admin/orders?status=confirmed", "", nil)
	var orders []struct {
		ID int `json:"orderId"`
	}
	decodeBody(t, resp, &orders)
	if len(orders) != 1 || orders[0].ID != 2 {
		t.Fatalf("expected only order 2, got %+v", orders)
	}

	resp = doJSON(t, app, "GET", "/api/v1/admin/orders?status=bogus", "", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad filter, got %d", resp.StatusCode)
	}
}
