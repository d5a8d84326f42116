package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jibal/internal/domain"
	applog "jibal/internal/log"
	"jibal/internal/services"
	"jibal/internal/validate"
)

type NewsletterHandler struct {
	Subs *services.NewsletterService
}

// Subscribe handles POST /api/newsletter. The response is identical
// whether or not the address was already subscribed, so the endpoint
// cannot be used to probe the list.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "newsletter.subscribe", domain.BadRequest("Invalid email address"))
	}

	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "newsletter.validation.fail", nil)
		return respondError(c, "newsletter.subscribe", domain.BadRequest("Invalid email address"))
	}

	created, err := h.Subs.Subscribe(c.Context(), email, req.Source)
	if err != nil {
		return respondError(c, "newsletter.subscribe", err)
	}
	if created {
		applog.Audit(c, "newsletter.subscribe", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully subscribed to newsletter",
	})
}
