package repos

import (
	"context"

	"jibal/internal/domain"
)

// Expander resolves id-list relationships into embedded objects. The
// store returns relations as bare id arrays, so list and detail pages
// need the joins done here. Batching matters: a trips list page must
// issue one departures query and one guides query for the whole list,
// never one per trip.
type Expander struct {
	departures *DepartureRepo
	guides     *GuideRepo
}

func NewExpander(departures *DepartureRepo, guides *GuideRepo) *Expander {
	return &Expander{departures: departures, guides: guides}
}

// TripWithDepartures attaches the trip's departures, each with its
// guide resolved. Ordering follows the trip's departure-id list, not
// the store's natural order; ids with no surviving record are dropped
// silently.
func (e *Expander) TripWithDepartures(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trips, err := e.TripsWithDepartures(ctx, []domain.Trip{trip})
	if err != nil {
		return trip, err
	}
	return trips[0], nil
}

// TripsWithDepartures is the list-page variant: it de-duplicates the
// union of departure and guide ids across every trip before fetching,
// so the whole page costs two queries regardless of trip count.
func (e *Expander) TripsWithDepartures(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error) {
	departureIDs := dedupe(func(yield func(string)) {
		for _, t := range trips {
			for _, id := range t.DepartureIDs {
				yield(id)
			}
		}
	})
	if len(departureIDs) == 0 {
		return trips, nil
	}

	departures, err := e.departures.ByIDs(ctx, departureIDs)
	if err != nil {
		return nil, err
	}

	guideIDs := dedupe(func(yield func(string)) {
		for _, d := range departures {
			if d.GuideID != "" {
				yield(d.GuideID)
			}
		}
	})
	guidesByID, err := e.fetchGuides(ctx, guideIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Departure, len(departures))
	for _, d := range departures {
		if g, ok := guidesByID[d.GuideID]; ok {
			gc := g
			d.Guide = &gc
		}
		byID[d.ID] = d
	}

	out := make([]domain.Trip, len(trips))
	for i, t := range trips {
		attached := make([]domain.Departure, 0, len(t.DepartureIDs))
		for _, id := range t.DepartureIDs {
			if d, ok := byID[id]; ok {
				attached = append(attached, d)
			}
		}
		t.Departures = attached
		out[i] = t
	}
	return out, nil
}

// TripWithGuides attaches the trip's own guides (distinct from a
// departure's guide), preserving the reference-list order.
func (e *Expander) TripWithGuides(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if len(trip.GuideIDs) == 0 {
		return trip, nil
	}
	guidesByID, err := e.fetchGuides(ctx, trip.GuideIDs)
	if err != nil {
		return trip, err
	}
	attached := make([]domain.Guide, 0, len(trip.GuideIDs))
	for _, id := range trip.GuideIDs {
		if g, ok := guidesByID[id]; ok {
			attached = append(attached, g)
		}
	}
	trip.Guides = attached
	return trip, nil
}

func (e *Expander) fetchGuides(ctx context.Context, ids []string) (map[string]domain.Guide, error) {
	if len(ids) == 0 {
		return map[string]domain.Guide{}, nil
	}
	guides, err := e.guides.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Guide, len(guides))
	for _, g := range guides {
		byID[g.ID] = g
	}
	return byID, nil
}

// dedupe collects unique values in first-seen order.
func dedupe(walk func(yield func(string))) []string {
	seen := make(map[string]struct{})
	var out []string
	walk(func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	})
	return out
}
