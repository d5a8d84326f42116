package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// render wraps c.Render with the data every template expects.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Year"] = time.Now().Year()
	return c.Render(tmpl, data)
}
