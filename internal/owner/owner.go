package owner

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrMissingOwner = errors.New("no user or session identity supplied")
)

// SessionHeader carries the client-generated anonymous session id. The
// frontend creates one per browser and sends it on every cart/order call.
const SessionHeader = "X-Session-ID"

// Owner is the resolved identity a cart line or order belongs to: either an
// authenticated user or an anonymous browser session, never both.
type Owner struct {
	UserID    int
	SessionID string
}

// Resolve picks the authoritative identity. A logged-in user always wins over
// the session id; a request carrying neither is a validation error.
func Resolve(userID int, sessionID string) (Owner, error) {
	if userID > 0 {
		return Owner{UserID: userID}, nil
	}
	if sessionID != "" {
		return Owner{SessionID: sessionID}, nil
	}
	return Owner{}, ErrMissingOwner
}

// IsUser reports whether the owner is an authenticated user.
func (o Owner) IsUser() bool { return o.UserID > 0 }

// Key returns the storage key used for cart lines and orders. User and
// session identities address the same tables through this single key.
func (o Owner) Key() string {
	if o.IsUser() {
		return UserKey(o.UserID)
	}
	return SessionKey(o.SessionID)
}

func UserKey(userID int) string          { return "user:" + strconv.Itoa(userID) }
func SessionKey(sessionID string) string { return "sess:" + sessionID }

// FromCtx resolves the owner for the current request: the user_id JWT claim
// when the request is authenticated, otherwise the session header.
func FromCtx(c *fiber.Ctx) (Owner, error) {
	return Resolve(userIDFromCtx(c), c.Get(SessionHeader))
}

// userIDFromCtx extracts the user_id claim from the JWT token stored in
// c.Locals("user") by the auth middleware. Returns 0 when the request is
// unauthenticated or the claim is malformed.
func userIDFromCtx(c *fiber.Ctx) int {
	u := c.Locals("user")
	if u == nil {
		return 0
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return 0
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return 0
}

// Handler serves the session bootstrap endpoint for clients that have not
// generated a session id yet.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/session", h.newSession)
}

func (h *Handler) newSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sessionId": uuid.NewString()})
}
