package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "jibal/internal/log"
	"jibal/internal/services"
)

// PageHandler renders the server-side marketing pages. Pages reuse the
// same services as the JSON API; there is no internal HTTP round trip.
type PageHandler struct {
	Trips          *services.TripService
	CalBookingLink string
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	trips, err := h.Trips.Active(c.Context())
	if err != nil {
		// The homepage still renders without the featured strip.
		applog.Error(c, "page.home.trips", err, nil)
		trips = nil
	}
	featured := trips
	if len(featured) > 3 {
		featured = featured[:3]
	}
	return render(c, "home", fiber.Map{"Featured": featured})
}

func (h *PageHandler) TripsPage(c *fiber.Ctx) error {
	trips, err := h.Trips.Active(c.Context())
	if err != nil {
		applog.Error(c, "page.trips", err, nil)
		return renderError(c)
	}
	return render(c, "trips", fiber.Map{"Trips": trips})
}

func (h *PageHandler) TripDetail(c *fiber.Ctx) error {
	trip, err := h.Trips.BySlug(c.Context(), c.Params("slug"))
	if err != nil {
		applog.Error(c, "page.trip", err, nil)
		return renderError(c)
	}
	if trip == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Trip not found"})
	}
	return render(c, "trip", fiber.Map{"Trip": trip})
}

// Apply renders the application form with the trip's open departures.
func (h *PageHandler) Apply(c *fiber.Ctx) error {
	trip, err := h.Trips.BySlug(c.Context(), c.Params("slug"))
	if err != nil {
		applog.Error(c, "page.apply", err, nil)
		return renderError(c)
	}
	if trip == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Trip not found"})
	}
	open := trip.Departures[:0:0]
	for _, d := range trip.Departures {
		if d.Accepting() {
			open = append(open, d)
		}
	}
	return render(c, "apply", fiber.Map{
		"Trip":           trip,
		"OpenDepartures": open,
		"CalBookingLink": h.CalBookingLink,
	})
}

func (h *PageHandler) ApplySuccess(c *fiber.Ctx) error {
	return render(c, "success", fiber.Map{
		"Slug":           c.Params("slug"),
		"CalBookingLink": h.CalBookingLink,
	})
}

func (h *PageHandler) About(c *fiber.Ctx) error   { return render(c, "about", nil) }
func (h *PageHandler) Contact(c *fiber.Ctx) error { return render(c, "contact", nil) }
func (h *PageHandler) Privacy(c *fiber.Ctx) error { return render(c, "privacy", nil) }
func (h *PageHandler) Terms(c *fiber.Ctx) error   { return render(c, "terms", nil) }

func renderError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	})
}
