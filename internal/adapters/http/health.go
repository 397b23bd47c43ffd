package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process liveness and uptime.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler reports whether the API can serve traffic. The database,
// NATS, and the cache are each checked; a missing NATS or cache is reported
// but tolerated only when it was never configured.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		ready := true
		fail := func(name, detail string) {
			checks[name] = detail
			ready = false
		}

		if deps.DB == nil {
			fail("database", "not configured")
		} else if err := deps.DB.Pool.Ping(ctx); err != nil {
			fail("database", "error: "+err.Error())
		} else {
			checks["database"] = "ok"
		}

		if deps.NATS == nil {
			checks["nats"] = "not configured"
		} else if !deps.NATS.IsConnected() {
			fail("nats", "disconnected")
		} else {
			checks["nats"] = "ok"
		}

		if deps.Cache == nil {
			checks["cache"] = "not configured"
		} else if _, err := deps.Cache.Get(ctx, "__health_check__"); err != nil && err.Error() != "valkey nil message" {
			// a miss on the sentinel key means the round trip worked
			fail("cache", "error: "+err.Error())
		} else {
			checks["cache"] = "ok"
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
