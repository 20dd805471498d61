package category

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeApp(seed []Category) (*fiber.App, *InMemoryRepository) {
	repo := NewInMemoryRepository(seed)
	h := NewHandler(NewService(repo))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app.Group("/api/v1/admin"))
	return app, repo
}

func TestListCategories(t *testing.T) {
	app, _ := makeApp([]Category{
		{ID: 1, Name: "Mains", SortOrder: 2},
		{ID: 2, Name: "Drinks", SortOrder: 1},
	})

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/menu/categories", nil))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var out []Category
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(out))
	}
}

func TestAdminCategoryCRUD(t *testing.T) {
	app, repo := makeApp(nil)

	body, _ := json.Marshal(Category{Name: "Sides", SortOrder: 5})
	req := httptest.NewRequest("POST", "/api/v1/admin/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	var created Category
	json.NewDecoder(res.Body).Decode(&created)
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	body, _ = json.Marshal(Category{Name: "Starters", SortOrder: 5})
	req = httptest.NewRequest("PUT", "/api/v1/admin/categories/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on update, got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest("DELETE", "/api/v1/admin/categories/1", nil))
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", res.StatusCode)
	}
	if items, _ := repo.List(0); len(items) != 0 {
		t.Fatalf("expected empty repo, got %d", len(items))
	}

	res, _ = app.Test(httptest.NewRequest("DELETE", "/api/v1/admin/categories/1", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 on missing category, got %d", res.StatusCode)
	}

	// empty name rejected
	body, _ = json.Marshal(Category{SortOrder: 1})
	req = httptest.NewRequest("POST", "/api/v1/admin/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", res.StatusCode)
	}
}
