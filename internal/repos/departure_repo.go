package repos

import (
	"context"

	"jibal/internal/airtable"
	"jibal/internal/domain"
)

type DepartureRepo struct{ at *airtable.Client }

func NewDepartureRepo(at *airtable.Client) *DepartureRepo { return &DepartureRepo{at: at} }

// ByID returns nil (no error) when the departure does not exist.
func (r *DepartureRepo) ByID(ctx context.Context, id string) (*domain.Departure, error) {
	rec, err := r.at.Get(ctx, TableDepartures, id)
	if err != nil || rec == nil {
		return nil, err
	}
	d := toDeparture(*rec)
	return &d, nil
}

// ByIDs batch-fetches departures with a single OR-of-equality filter.
// The result comes back in store order; callers that care about the
// original id order reassemble it themselves (see Expander).
func (r *DepartureRepo) ByIDs(ctx context.Context, ids []string) ([]domain.Departure, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	recs, err := r.at.List(ctx, TableDepartures, airtable.ListOptions{
		FilterByFormula: recordIDFilter(ids),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Departure, len(recs))
	for i, rec := range recs {
		out[i] = toDeparture(rec)
	}
	return out, nil
}

// ByTrip lists every departure linked to a trip, earliest first.
func (r *DepartureRepo) ByTrip(ctx context.Context, tripID string) ([]domain.Departure, error) {
	return r.list(ctx, linkedFilter("Trip", tripID))
}

// OpenByTrip lists only departures that are open or limited.
func (r *DepartureRepo) OpenByTrip(ctx context.Context, tripID string) ([]domain.Departure, error) {
	formula := "AND(" + linkedFilter("Trip", tripID) + ", OR({Status} = 'open', {Status} = 'limited'))"
	return r.list(ctx, formula)
}

func (r *DepartureRepo) list(ctx context.Context, formula string) ([]domain.Departure, error) {
	recs, err := r.at.List(ctx, TableDepartures, airtable.ListOptions{
		FilterByFormula: formula,
		Sort:            []airtable.Sort{{Field: "Start Date", Direction: "asc"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Departure, len(recs))
	for i, rec := range recs {
		out[i] = toDeparture(rec)
	}
	return out, nil
}

func (r *DepartureRepo) Create(ctx context.Context, fields map[string]any) (domain.Departure, error) {
	rec, err := r.at.Create(ctx, TableDepartures, fields)
	if err != nil {
		return domain.Departure{}, err
	}
	return toDeparture(*rec), nil
}

func (r *DepartureRepo) Update(ctx context.Context, id string, fields map[string]any) (domain.Departure, error) {
	rec, err := r.at.Update(ctx, TableDepartures, id, fields)
	if err != nil {
		return domain.Departure{}, err
	}
	return toDeparture(*rec), nil
}

func (r *DepartureRepo) Delete(ctx context.Context, id string) error {
	return r.at.Delete(ctx, TableDepartures, id)
}

func toDeparture(rec airtable.Record) domain.Departure {
	return domain.Departure{
		ID:               rec.ID,
		Name:             rec.Str("Name", "name"),
		TripID:           rec.FirstRef("Trip", "trip"),
		StartDate:        rec.Str("Start Date", "startDate"),
		EndDate:          rec.Str("End Date", "endDate"),
		GuideID:          rec.FirstRef("Guide", "guide"),
		MaxCapacity:      rec.Int("Max Capacity", "maxCapacity"),
		SpotsLeft:        rec.Int("Spots Left", "spotsLeft"),
		Price:            rec.Num("Price", "price"),
		Status:           rec.StrOr(domain.DepartureStatusOpen, "Status", "status"),
		ApplicationCount: rec.Int("Application Count", "applicationCount"),
	}
}
