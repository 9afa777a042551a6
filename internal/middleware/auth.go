package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"careconnect/internal/db"
	"careconnect/internal/models"
)

// AuthMiddleware resolves the session's user and enforces access levels.
type AuthMiddleware struct {
	store *session.Store
	db    *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, db *db.DB) *AuthMiddleware {
	return &AuthMiddleware{store: store, db: db}
}

// RequireAuth ensures the request carries an authenticated session.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.resolveUser(c)
	if user == nil {
		return unauthorized(c)
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireCoordinator ensures the authenticated user holds the coordinator or
// admin role.
func (m *AuthMiddleware) RequireCoordinator(c fiber.Ctx) error {
	user := m.resolveUser(c)
	if user == nil {
		return unauthorized(c)
	}
	if !user.IsCoordinator() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error",
			"error":  "coordinator access required",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require
// authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.resolveUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

// resolveUser maps the session's subject to a user record. A session whose
// subject no longer resolves is destroyed.
func (m *AuthMiddleware) resolveUser(c fiber.Ctx) *models.User {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		return nil
	}

	sub, ok := userSub.(string)
	if !ok {
		return nil
	}

	user, err := m.db.GetUserBySub(c.Context(), sub)
	if err != nil {
		sess.Destroy()
		return nil
	}
	return user
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "unauthorized",
	})
}
