package api

import (
	"github.com/gofiber/fiber/v3"

	"recshare/internal/store"
)

// HealthHandler reports service and storage liveness.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz pings the store and reports readiness.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, KindInternal, "storage unavailable")
	}

	return jsonSuccess(c, fiber.Map{
		"healthy": true,
	})
}
