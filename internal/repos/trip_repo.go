package repos

import (
	"context"

	"jibal/internal/airtable"
	"jibal/internal/domain"
)

type TripRepo struct{ at *airtable.Client }

func NewTripRepo(at *airtable.Client) *TripRepo { return &TripRepo{at: at} }

// Active lists publicly visible trips, sorted by name.
func (r *TripRepo) Active(ctx context.Context) ([]domain.Trip, error) {
	recs, err := r.at.List(ctx, TableTrips, airtable.ListOptions{
		FilterByFormula: "{Status} = 'active'",
		Sort:            []airtable.Sort{{Field: "Name", Direction: "asc"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Trip, len(recs))
	for i, rec := range recs {
		out[i] = toTrip(rec)
	}
	return out, nil
}

// BySlug looks a trip up by its unique URL slug. Returns nil when the
// slug is unknown.
func (r *TripRepo) BySlug(ctx context.Context, slug string) (*domain.Trip, error) {
	recs, err := r.at.List(ctx, TableTrips, airtable.ListOptions{
		FilterByFormula: "{Slug} = '" + airtable.EscapeFormulaString(slug) + "'",
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	t := toTrip(recs[0])
	return &t, nil
}

// ByID returns nil (no error) when the record does not exist.
func (r *TripRepo) ByID(ctx context.Context, id string) (*domain.Trip, error) {
	rec, err := r.at.Get(ctx, TableTrips, id)
	if err != nil || rec == nil {
		return nil, err
	}
	t := toTrip(*rec)
	return &t, nil
}

// Create passes fields through unvalidated; validation is the
// caller's job.
func (r *TripRepo) Create(ctx context.Context, fields map[string]any) (domain.Trip, error) {
	rec, err := r.at.Create(ctx, TableTrips, fields)
	if err != nil {
		return domain.Trip{}, err
	}
	return toTrip(*rec), nil
}

func (r *TripRepo) Update(ctx context.Context, id string, fields map[string]any) (domain.Trip, error) {
	rec, err := r.at.Update(ctx, TableTrips, id, fields)
	if err != nil {
		return domain.Trip{}, err
	}
	return toTrip(*rec), nil
}

func (r *TripRepo) Delete(ctx context.Context, id string) error {
	return r.at.Delete(ctx, TableTrips, id)
}

// toTrip normalizes a raw trip record. Each field probes the current
// key then the legacy-cased one; absent values take the documented
// defaults.
func toTrip(rec airtable.Record) domain.Trip {
	createdAt := rec.CreatedTime

	departureIDs := rec.StrList("Departures", "Trip Dates")
	if departureIDs == nil {
		departureIDs = []string{}
	}
	guideIDs := rec.StrList("Guides", "guides")
	if guideIDs == nil {
		guideIDs = []string{}
	}

	return domain.Trip{
		ID:            rec.ID,
		Name:          rec.Str("Name", "name"),
		Slug:          rec.Str("Slug", "slug"),
		Description:   rec.Str("Description", "description"),
		Overview:      rec.Str("Overview", "overview"),
		Price:         rec.Num("Price", "price"),
		DepositAmount: rec.Num("Deposit Amount", "depositAmount"),
		Photos:        toDomainAttachments(rec.Attachments("Photos", "photos")),
		Difficulty:    rec.StrOr("moderate", "Difficulty", "difficulty"),
		Continent:     rec.StrOr("Asia", "Continent", "continent"),
		Duration:      rec.Int("Duration", "duration"),
		FitnessLevel:  rec.StrOr("intermediate", "Fitness Level", "fitnessLevel"),
		Itinerary:     rec.Str("Itinerary", "itinerary"),
		Included:      rec.Str("Included", "included"),
		NotIncluded:   rec.Str("Not Included", "notIncluded"),
		Type:          rec.Str("Type", "type"),
		Status:        rec.StrOr(domain.TripStatusDraft, "Status", "status"),
		CreatedAt:     createdAt,
		GuideIDs:      guideIDs,
		DepartureIDs:  departureIDs,
	}
}
