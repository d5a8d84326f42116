package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jibal/internal/domain"
	"jibal/internal/email"
	applog "jibal/internal/log"
	"jibal/internal/repos"
	"jibal/internal/validate"
)

// ApplicationMailer is what the service needs from the email layer.
type ApplicationMailer interface {
	SendApplicationEmails(ctx context.Context, p email.ApplicationEmailProps) email.Result
}

// ApplicationService runs the submission pipeline:
// validated input → departure check → trip check → persist →
// attachment upload → notify. The record write is never undone: a
// failed passport upload aborts the request with the record left
// behind, and email failures are logged without failing anything.
type ApplicationService struct {
	Apps       *repos.ApplicationRepo
	Trips      *repos.TripRepo
	Departures *repos.DepartureRepo
	Mail       ApplicationMailer
}

func NewApplicationService(apps *repos.ApplicationRepo, trips *repos.TripRepo, departures *repos.DepartureRepo, mail ApplicationMailer) *ApplicationService {
	return &ApplicationService{Apps: apps, Trips: trips, Departures: departures, Mail: mail}
}

// Receipt is what a successful submission reports back. EmailSent
// reflects only the customer confirmation; the admin alert outcome is
// internal.
type Receipt struct {
	ID            string
	TripName      string
	DepartureName string
	EmailSent     bool
}

// Submit takes an already-validated payload plus the optional base64
// passport document and runs it to completion. Business-rule
// rejections come back as *domain.APIError; anything else is an
// upstream failure.
func (s *ApplicationService) Submit(ctx context.Context, in validate.ApplicationInput, passportB64 string) (Receipt, error) {
	// Availability is re-read on every submission. The store is the
	// sole authority on spotsLeft; nothing is cached.
	departure, err := s.Departures.ByID(ctx, in.DepartureID)
	if err != nil {
		return Receipt{}, err
	}
	if departure == nil {
		return Receipt{}, domain.NotFound("Departure")
	}
	if departure.Status != domain.DepartureStatusOpen && departure.Status != domain.DepartureStatusLimited {
		return Receipt{}, domain.BadRequest("This departure is not accepting applications")
	}
	if departure.SpotsLeft <= 0 {
		return Receipt{}, domain.BadRequest("This departure is fully booked")
	}

	var trip *domain.Trip
	if departure.TripID != "" {
		trip, err = s.Trips.ByID(ctx, departure.TripID)
		if err != nil {
			return Receipt{}, err
		}
	}
	if trip == nil {
		return Receipt{}, domain.NotFound("Trip")
	}
	if trip.Status != domain.TripStatusActive {
		return Receipt{}, domain.BadRequest("This trip is not accepting applications")
	}

	app, err := s.Apps.Create(ctx, map[string]any{
		"Trip":                     []string{trip.ID},
		"departure":                []string{departure.ID},
		"Customer Name":            in.CustomerName,
		"Email":                    in.Email,
		"Phone":                    in.Phone,
		"dateOfBirth":              in.DateOfBirth,
		"nationality":              in.Nationality,
		"Fitness Level":            in.FitnessLevel,
		"Experience":               in.Experience,
		"emergencyContactName":     in.EmergencyContactName,
		"emergencyContactPhone":    in.EmergencyContactPhone,
		"emergencyContactRelation": in.EmergencyContactRelation,
		"Allergies":                in.Allergies,
		"Medications":              in.Medications,
		"dietaryRestrictions":      in.DietaryRestrictions,
		"howDidYouHear":            in.HowDidYouHear,
		"termsSignature":           in.TermsSignature,
		"termsAcceptedAt":          time.Now().UTC().Format(time.RFC3339),
		"calendarBookingTime":      in.CalendarBookingTime,
		"Status":                   domain.ApplicationStatusApplied,
	})
	if err != nil {
		return Receipt{}, err
	}

	// The record now exists and is never rolled back. A failed upload
	// still fails the request, leaving the record without the document.
	if passportB64 != "" {
		contentType, ext := detectPassportType(passportB64)
		filename := fmt.Sprintf("passport_%s_%s.%s",
			strings.Join(strings.Fields(in.CustomerName), "_"), uuid.NewString(), ext)
		if err := s.Apps.AttachPassport(ctx, app.ID, passportB64, filename, contentType); err != nil {
			applog.Error(nil, "application.passport.upload.fail", err, map[string]any{"application_id": app.ID})
			return Receipt{}, err
		}
	}

	mail := s.Mail.SendApplicationEmails(ctx, email.ApplicationEmailProps{
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.Email,
		CustomerPhone:       in.Phone,
		TripName:            trip.Name,
		DepartureName:       departure.Name,
		DepartureDate:       departure.StartDate,
		CalendarBookingTime: in.CalendarBookingTime,
		ApplicationID:       app.ID,
	})

	return Receipt{
		ID:            app.ID,
		TripName:      trip.Name,
		DepartureName: departure.Name,
		EmailSent:     mail.CustomerSent,
	}, nil
}

// detectPassportType picks a content type from the data-URL marker in
// the base64 payload. Anything unrecognized is treated as JPEG.
func detectPassportType(b64 string) (contentType, ext string) {
	switch {
	case strings.Contains(b64, "image/png"):
		return "image/png", "png"
	case strings.Contains(b64, "application/pdf"):
		return "application/pdf", "pdf"
	default:
		return "image/jpeg", "jpg"
	}
}
