package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck reports whether the store answers a ping.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(healthResponse{Status: "unavailable", Store: "down"})
	}
	return c.JSON(healthResponse{Status: "ok", Store: "up"})
}
