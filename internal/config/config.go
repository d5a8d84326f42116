// Package config loads configuration from the environment. Missing
// required values abort startup before the server binds a port.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Record store credentials. The process refuses to start without
	// them; a site that cannot read trips is not worth serving.
	AirtableAPIKey string `env:"AIRTABLE_API_KEY,required"`
	AirtableBaseID string `env:"AIRTABLE_BASE_ID,required"`

	// Email provider key, same fail-fast treatment.
	ResendAPIKey string `env:"RESEND_API_KEY,required"`

	// AdminEmail receives the internal new-application alert.
	AdminEmail string `env:"ADMIN_EMAIL" envDefault:"bookings@jibal.example"`

	// CalBookingLink is the external consultation scheduler offered to
	// customers who did not pick a call time in the form.
	CalBookingLink string `env:"CAL_BOOKING_LINK" envDefault:"https://cal.com/jibal/consultation"`

	// BaseURL is the public origin of the site, used in emails and
	// absolute links.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	LogFile     string `env:"LOG_FILE"`
}

// Load reads .env (when present) then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
