package services

import (
	"context"

	"jibal/internal/domain"
	"jibal/internal/repos"
)

// TripService serves the public read paths: the trips listing and the
// per-slug detail, both with their relations expanded.
type TripService struct {
	Trips  *repos.TripRepo
	Expand *repos.Expander
}

func NewTripService(trips *repos.TripRepo, expand *repos.Expander) *TripService {
	return &TripService{Trips: trips, Expand: expand}
}

// Active returns all active trips with departures (and departure
// guides) attached. Continent/difficulty filtering is a client
// concern; the API always serves the full list.
func (s *TripService) Active(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.Trips.Active(ctx)
	if err != nil {
		return nil, err
	}
	return s.Expand.TripsWithDepartures(ctx, trips)
}

// BySlug returns one trip expanded with departures and guides, or nil
// when the slug is unknown.
func (s *TripService) BySlug(ctx context.Context, slug string) (*domain.Trip, error) {
	trip, err := s.Trips.BySlug(ctx, slug)
	if err != nil || trip == nil {
		return nil, err
	}
	expanded, err := s.Expand.TripWithDepartures(ctx, *trip)
	if err != nil {
		return nil, err
	}
	expanded, err = s.Expand.TripWithGuides(ctx, expanded)
	if err != nil {
		return nil, err
	}
	return &expanded, nil
}
