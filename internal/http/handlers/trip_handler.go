package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jibal/internal/domain"
	"jibal/internal/services"
)

type TripHandler struct {
	Trips *services.TripService
}

// List handles GET /api/trips: every active trip with its departures
// attached. Continent/difficulty filters are applied client-side.
func (h *TripHandler) List(c *fiber.Ctx) error {
	trips, err := h.Trips.Active(c.Context())
	if err != nil {
		return respondError(c, "trips.list", err)
	}
	return c.JSON(fiber.Map{
		"data": trips,
		"meta": fiber.Map{"total": len(trips)},
	})
}

// Detail handles GET /api/trips/:slug with departures and guides
// expanded.
func (h *TripHandler) Detail(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return respondError(c, "trips.detail", domain.NotFound("Trip"))
	}

	trip, err := h.Trips.BySlug(c.Context(), slug)
	if err != nil {
		return respondError(c, "trips.detail", err)
	}
	if trip == nil {
		return respondError(c, "trips.detail", domain.NotFound("Trip"))
	}
	return c.JSON(fiber.Map{"data": trip})
}
