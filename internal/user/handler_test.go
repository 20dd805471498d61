package user

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

type recordingTransferer struct {
	sessionID string
	userID    int
	err       error
}

func (r *recordingTransferer) Transfer(sessionID string, userID int) error {
	r.sessionID = sessionID
	r.userID = userID
	return r.err
}

// helper to build an app with a simple "bootstrap" middleware that injects a
// jwt.Token into locals when the X-User-ID header is provided. This avoids
// pulling in the full jwtware middleware and keeps tests lightweight.
func makeAppWithUserHandler(uHandler *Handler) *fiber.App {
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
	uHandler.RegisterPublicRoutes(app)
	uHandler.RegisterProtectedRoutes(app)
	return app
}

func TestProfileRoute_RegistrationAndAuth(t *testing.T) {
	seed := []User{{ID: 7, Email: "j@example.com", FirstName: "Jenny", LastName: "Test", Phone: "123", Role: RoleCustomer, MainAddressID: func() *int { i := 99; return &i }()}}
	handler := NewHandler(NewService(NewInMemoryRepository(seed)), nil, "secret")
	app := makeAppWithUserHandler(handler)

	// unauthorized request should yield 401
	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected unauthorized status, got %d", res.StatusCode)
	}

	// authorized request using X-User-ID header
	req2 := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req2.Header.Set("X-User-ID", "7")
	res2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("authorized profile request failed: %v", err)
	}
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK for authorized profile, got %d", res2.StatusCode)
	}

	b, _ := io.ReadAll(res2.Body)
	body := string(b)
	if !strings.Contains(body, "j@example.com") {
		t.Fatalf("response body does not contain expected email, got %s", body)
	}
	if !strings.Contains(body, "mainAddressId") {
		t.Fatalf("response body does not include mainAddressId, got %s", body)
	}
	if strings.Contains(body, "password") {
		t.Fatalf("response body should not expose password field")
	}
}

func TestProfileUpdate(t *testing.T) {
	seed := []User{{ID: 15, Email: "u15@example.com", FirstName: "Old", LastName: "Name", Phone: "000", Role: RoleCustomer}}
	repo := NewInMemoryRepository(seed)
	handler := NewHandler(NewService(repo), nil, "secret")
	app := makeAppWithUserHandler(handler)

	// both PUT and PATCH must be accepted
	updateJSON := `{"firstName":"New","lastName":"User","phone":"999"}`
	for _, method := range []string{"PUT", "PATCH"} {
		req := httptest.NewRequest(method, "/api/v1/profile", strings.NewReader(updateJSON))
		req.Header.Set("X-User-ID", "15")
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s update request failed: %v", method, err)
		}
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 OK on %s update, got %d", method, res.StatusCode)
		}
		b, _ := io.ReadAll(res.Body)
		if !strings.Contains(string(b), "New") {
			t.Fatalf("updated response missing new name for %s: %s", method, string(b))
		}
	}

	// partial payloads leave untouched fields alone
	mainJSON := `{"mainAddressId":42}`
	reqMain := httptest.NewRequest("PATCH", "/api/v1/profile", strings.NewReader(mainJSON))
	reqMain.Header.Set("X-User-ID", "15")
	reqMain.Header.Set("Content-Type", "application/json")
	resMain, err := app.Test(reqMain)
	if err != nil {
		t.Fatalf("main address update failed: %v", err)
	}
	if resMain.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK on main address update, got %d", resMain.StatusCode)
	}
	uFinal, _ := repo.GetByID(15)
	if uFinal.MainAddressID == nil || *uFinal.MainAddressID != 42 {
		t.Fatalf("mainAddressId not persisted: %+v", uFinal)
	}
	if uFinal.FirstName != "New" {
		t.Fatalf("partial update clobbered firstName: %+v", uFinal)
	}
}

func TestSignUpThenSignIn(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	handler := NewHandler(NewService(repo), nil, "secret")
	app := makeAppWithUserHandler(handler)

	signUp := `{"email":"new@example.com","password":"pw12345","firstName":"Alem","lastName":"T","phone":"555"}`
	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUp))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 on sign-up, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"role":"customer"`) {
		t.Fatalf("self sign-up must create a customer, got %s", string(b))
	}

	// duplicate email conflicts
	req = httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUp))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d", res.StatusCode)
	}

	signIn := `{"email":"new@example.com","password":"pw12345"}`
	req = httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(signIn))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on sign-in, got %d", res.StatusCode)
	}
	b, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(b), "token") {
		t.Fatalf("sign-in response missing token: %s", string(b))
	}

	badSignIn := `{"email":"new@example.com","password":"wrong"}`
	req = httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(badSignIn))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 on bad password, got %d", res.StatusCode)
	}
}

func TestSignIn_TransfersSessionCart(t *testing.T) {
	seed := []User{{ID: 3, Email: "c@example.com", Password: "$2a$10$invalidhash", Role: RoleCustomer}}
	repo := NewInMemoryRepository(seed)
	service := NewService(repo)
	// register through the service so the stored password is a real hash
	created, err := service.Register(User{Email: "t@example.com", Password: "pw12345", FirstName: "T", LastName: "T"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	transfers := &recordingTransferer{}
	handler := NewHandler(service, transfers, "secret")
	app := makeAppWithUserHandler(handler)

	req := httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(`{"email":"t@example.com","password":"pw12345"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(owner.SessionHeader, "guest-session-9")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if transfers.sessionID != "guest-session-9" || transfers.userID != created.ID {
		t.Fatalf("cart transfer not triggered correctly: %+v", transfers)
	}
}

func TestSignIn_TransferFailureDoesNotBlockLogin(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	service.Register(User{Email: "t@example.com", Password: "pw12345", FirstName: "T", LastName: "T"})

	transfers := &recordingTransferer{err: fiber.ErrInternalServerError}
	handler := NewHandler(service, transfers, "secret")
	app := makeAppWithUserHandler(handler)

	req := httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(`{"email":"t@example.com","password":"pw12345"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(owner.SessionHeader, "guest-session-9")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("login must survive a failed cart transfer, got %d", res.StatusCode)
	}
}
