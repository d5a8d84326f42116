package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"jibal/internal/airtable"
	"jibal/internal/config"
	"jibal/internal/email"
	"jibal/internal/http/handlers"
	applog "jibal/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Required keys missing: refuse to start.
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	// Process-wide clients, built once and passed down explicitly.
	at := airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID)
	mailer := email.NewMailer(cfg.ResendAPIKey, cfg.AdminEmail, cfg.CalBookingLink, cfg.AirtableBaseID, cfg.BaseURL)

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Base64 passport uploads are the largest bodies we accept.
	app.Server().MaxRequestBodySize = 8 << 20 // 8 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Static assets ----------
	app.Static("/static", "./web/static")

	// ---------- App handlers ----------
	deps := handlers.NewDeps(at, cfg, mailer)

	// Public pages
	app.Get("/", deps.PageHandler.Home)
	app.Get("/trips", deps.PageHandler.TripsPage)
	app.Get("/trips/:slug", deps.PageHandler.TripDetail)
	app.Get("/trips/:slug/apply", deps.PageHandler.Apply)
	app.Get("/trips/:slug/apply/success", deps.PageHandler.ApplySuccess)
	app.Get("/about", deps.PageHandler.About)
	app.Get("/contact", deps.PageHandler.Contact)
	app.Get("/privacy", deps.PageHandler.Privacy)
	app.Get("/terms", deps.PageHandler.Terms)

	// API
	api := app.Group("/api")
	api.Get("/trips", deps.TripHandler.List)
	api.Get("/trips/:slug", deps.TripHandler.Detail)

	// Submissions are throttled harder than reads.
	submitLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.submit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/applications", submitLimiter, deps.ApplicationHandler.Submit)
	api.Post("/newsletter", submitLimiter, deps.NewsletterHandler.Subscribe)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
