package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"careconnect/internal/db"
)

// HealthHandler reports service health for load balancer probes.
type HealthHandler struct {
	db  *db.DB
	rdb *redis.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(database *db.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: database, rdb: rdb}
}

// Check pings the database and the affinity store. The database is required;
// redis degrades gracefully throughout the service, so an unreachable redis
// is reported but does not fail the probe.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}

	redisStatus := "ok"
	if h.rdb == nil {
		redisStatus = "disabled"
	} else if err := h.rdb.Ping(c.Context()).Err(); err != nil {
		redisStatus = "unreachable"
	}

	return jsonSuccess(c, fiber.Map{
		"database": "ok",
		"redis":    redisStatus,
	})
}
