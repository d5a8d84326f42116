package handlers

import (
	"jibal/internal/airtable"
	"jibal/internal/config"
	"jibal/internal/repos"
	"jibal/internal/services"
)

type Deps struct {
	TripHandler        *TripHandler
	ApplicationHandler *ApplicationHandler
	NewsletterHandler  *NewsletterHandler
	PageHandler        *PageHandler
}

// NewDeps wires repos → services → handlers off the shared record
// store client. The mailer is injected rather than built here so
// tests can substitute a recorder.
func NewDeps(at *airtable.Client, cfg config.Config, mail services.ApplicationMailer) *Deps {
	tripRepo := repos.NewTripRepo(at)
	departureRepo := repos.NewDepartureRepo(at)
	guideRepo := repos.NewGuideRepo(at)
	appRepo := repos.NewApplicationRepo(at)
	subsRepo := repos.NewNewsletterRepo(at)
	expander := repos.NewExpander(departureRepo, guideRepo)

	tripSvc := services.NewTripService(tripRepo, expander)
	appSvc := services.NewApplicationService(appRepo, tripRepo, departureRepo, mail)
	subsSvc := services.NewNewsletterService(subsRepo)

	return &Deps{
		TripHandler:        &TripHandler{Trips: tripSvc},
		ApplicationHandler: &ApplicationHandler{Apps: appSvc},
		NewsletterHandler:  &NewsletterHandler{Subs: subsSvc},
		PageHandler:        &PageHandler{Trips: tripSvc, CalBookingLink: cfg.CalBookingLink},
	}
}
