package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
)

func testApp(t *testing.T) (*fiber.App, *AuthMiddleware) {
	t.Helper()
	sessionMiddleware, store := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
	})
	app := fiber.New()
	app.Use(sessionMiddleware)
	return app, NewAuthMiddleware(store, nil)
}

func TestRequireAuth_Anonymous(t *testing.T) {
	app, m := testApp(t)
	app.Get("/private", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	req, _ := http.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "error" || body.Error == "" {
		t.Errorf("body = %+v, want error envelope", body)
	}
}

func TestRequireCoordinator_Anonymous(t *testing.T) {
	app, m := testApp(t)
	app.Get("/moderation", m.RequireCoordinator, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	req, _ := http.NewRequest("GET", "/moderation", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	app, m := testApp(t)
	app.Get("/public", m.OptionalAuth, func(c fiber.Ctx) error {
		if c.Locals("user") != nil {
			return c.Status(500).SendString("unexpected user")
		}
		return c.SendString("ok")
	})

	req, _ := http.NewRequest("GET", "/public", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
