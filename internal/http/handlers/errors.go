package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jibal/internal/domain"
	applog "jibal/internal/log"
)

// errorBody is the uniform envelope every failed API call returns.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// respondError is the single place API errors become HTTP responses.
// Typed errors keep their status and code; anything else is an
// upstream failure answered with a generic 500 so internals never
// leak.
func respondError(c *fiber.Ctx, action string, err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 500 {
			applog.Error(c, action, err, nil)
		} else {
			applog.Security(c, action, map[string]any{"code": apiErr.Code, "reason": apiErr.Message})
		}
		return c.Status(apiErr.Status).JSON(errorBody{Error: errorDetail{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}})
	}

	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: errorDetail{
		Code:    domain.CodeInternalError,
		Message: "Something went wrong",
	}})
}
