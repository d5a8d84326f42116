package repos

import (
	"context"

	"jibal/internal/airtable"
	"jibal/internal/domain"
)

type ApplicationRepo struct{ at *airtable.Client }

func NewApplicationRepo(at *airtable.Client) *ApplicationRepo { return &ApplicationRepo{at: at} }

// Create inserts the application record. The passport attachment is a
// separate secondary write (AttachPassport) keyed by the id returned
// here.
func (r *ApplicationRepo) Create(ctx context.Context, fields map[string]any) (domain.Application, error) {
	rec, err := r.at.Create(ctx, TableApps, fields)
	if err != nil {
		return domain.Application{}, err
	}
	return toApplication(*rec), nil
}

// AttachPassport uploads the base64 passport document onto an already
// created application. If this fails the record still exists without
// the attachment.
func (r *ApplicationRepo) AttachPassport(ctx context.Context, applicationID, base64Data, filename, contentType string) error {
	return r.at.UploadAttachment(ctx, applicationID, "passportPhoto", base64Data, filename, contentType)
}

// ByID returns nil (no error) when the application does not exist.
func (r *ApplicationRepo) ByID(ctx context.Context, id string) (*domain.Application, error) {
	rec, err := r.at.Get(ctx, TableApps, id)
	if err != nil || rec == nil {
		return nil, err
	}
	a := toApplication(*rec)
	return &a, nil
}

// ByTrip lists applications linked to a trip, newest first.
func (r *ApplicationRepo) ByTrip(ctx context.Context, tripID string) ([]domain.Application, error) {
	return r.list(ctx, linkedFilter("trip", tripID))
}

// ByDeparture lists applications linked to a departure, newest first.
func (r *ApplicationRepo) ByDeparture(ctx context.Context, departureID string) ([]domain.Application, error) {
	return r.list(ctx, linkedFilter("departure", departureID))
}

// ByStatus lists applications in one lifecycle state, newest first.
func (r *ApplicationRepo) ByStatus(ctx context.Context, status string) ([]domain.Application, error) {
	return r.list(ctx, "{status} = '"+airtable.EscapeFormulaString(status)+"'")
}

func (r *ApplicationRepo) list(ctx context.Context, formula string) ([]domain.Application, error) {
	recs, err := r.at.List(ctx, TableApps, airtable.ListOptions{
		FilterByFormula: formula,
		Sort:            []airtable.Sort{{Field: "Applied Date", Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Application, len(recs))
	for i, rec := range recs {
		out[i] = toApplication(rec)
	}
	return out, nil
}

func (r *ApplicationRepo) Update(ctx context.Context, id string, fields map[string]any) (domain.Application, error) {
	rec, err := r.at.Update(ctx, TableApps, id, fields)
	if err != nil {
		return domain.Application{}, err
	}
	return toApplication(*rec), nil
}

func toApplication(rec airtable.Record) domain.Application {
	appliedDate := rec.Str("appliedDate")
	if appliedDate == "" {
		appliedDate = rec.CreatedTime
	}

	return domain.Application{
		ID:                       rec.ID,
		TripID:                   rec.FirstRef("Trip", "trip"),
		DepartureID:              rec.FirstRef("departure"),
		CustomerName:             rec.Str("Customer Name", "customerName"),
		Email:                    rec.Str("Email", "email"),
		Phone:                    rec.Str("Phone", "phone"),
		DateOfBirth:              rec.Str("dateOfBirth"),
		Nationality:              rec.Str("nationality"),
		Passport:                 toDomainAttachment(rec.FirstAttachment("passportPhoto")),
		FitnessLevel:             rec.StrOr("intermediate", "Fitness Level", "fitnessLevel"),
		Experience:               rec.Str("Experience", "experience"),
		EmergencyContactName:     rec.Str("emergencyContactName"),
		EmergencyContactPhone:    rec.Str("emergencyContactPhone"),
		EmergencyContactRelation: rec.Str("emergencyContactRelation"),
		Allergies:                rec.Str("Allergies", "allergies"),
		Medications:              rec.Str("Medications", "medications"),
		DietaryRestrictions:      rec.Str("dietaryRestrictions"),
		HowDidYouHear:            rec.Str("howDidYouHear"),
		TermsSignature:           rec.Str("termsSignature"),
		TermsAcceptedAt:          rec.Str("termsAcceptedAt"),
		Status:                   rec.StrOr(domain.ApplicationStatusApplied, "Status", "status"),
		CalendarBookingLink:      rec.Str("calendar booking link", "calendarBookingLink"),
		CalendarBookingTime:      rec.Str("calendarBookingTime"),
		AppliedDate:              appliedDate,
		AdminNotes:               rec.Str("adminNotes"),
	}
}
