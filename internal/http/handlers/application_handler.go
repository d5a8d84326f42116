package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jibal/internal/domain"
	applog "jibal/internal/log"
	"jibal/internal/services"
	"jibal/internal/validate"
)

type ApplicationHandler struct {
	Apps *services.ApplicationService
}

// applicationRequest is the POST body: the validated payload plus the
// optional base64 passport document, which bypasses validation and is
// uploaded separately after the record exists.
type applicationRequest struct {
	validate.ApplicationInput
	PassportPhoto string `json:"passportPhoto"`
}

// Submit handles POST /api/applications.
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var req applicationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "application.submit", domain.BadRequest("Invalid request body"))
	}

	input, fieldErrs := validate.Application(req.ApplicationInput)
	if len(fieldErrs) > 0 {
		applog.Security(c, "application.validation.fail", map[string]any{"fields": keys(fieldErrs)})
		return respondError(c, "application.submit", domain.ValidationError(fieldErrs))
	}

	receipt, err := h.Apps.Submit(c.Context(), input, req.PassportPhoto)
	if err != nil {
		return respondError(c, "application.submit", err)
	}

	applog.Audit(c, "application.submit", map[string]any{
		"application_id": receipt.ID,
		"trip":           receipt.TripName,
		"departure":      receipt.DepartureName,
		"email_sent":     receipt.EmailSent,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":            receipt.ID,
			"message":       "Application submitted successfully",
			"tripName":      receipt.TripName,
			"departureName": receipt.DepartureName,
			"emailSent":     receipt.EmailSent,
		},
	})
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
