package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibal/internal/airtable"
	"jibal/internal/airtable/airtabletest"
	"jibal/internal/repos"
)

func newTripService(t *testing.T) (*airtabletest.Server, *TripService) {
	t.Helper()
	srv := airtabletest.New()
	t.Cleanup(srv.Close)
	c := airtable.NewClient("test-key", airtabletest.BaseID,
		airtable.WithBaseURL(srv.URL+"/v0"),
		airtable.WithContentURL(srv.URL+"/v0"))

	trips := repos.NewTripRepo(c)
	expand := repos.NewExpander(repos.NewDepartureRepo(c), repos.NewGuideRepo(c))
	return srv, NewTripService(trips, expand)
}

func seedCatalog(srv *airtabletest.Server) {
	srv.Seed(repos.TableTrips,
		airtabletest.Rec{ID: "recTrip1", Fields: map[string]any{
			"Name": "Everest Base Camp", "Slug": "everest-base-camp",
			"Status": "active", "Departures": []any{"recDep1"}, "Guides": []any{"recGuide1"},
		}},
		airtabletest.Rec{ID: "recTrip2", Fields: map[string]any{
			"Name": "Secret Recce", "Slug": "secret-recce", "Status": "draft",
		}},
	)
	srv.Seed(repos.TableDepartures, airtabletest.Rec{
		ID: "recDep1",
		Fields: map[string]any{
			"Name": "September 2026", "Trip": []any{"recTrip1"},
			"Status": "open", "Spots Left": float64(4), "Guide": []any{"recGuide1"},
		},
	})
	srv.Seed(repos.TableGuides, airtabletest.Rec{
		ID: "recGuide1", Fields: map[string]any{"Name": "Pemba Sherpa"},
	})
}

func TestTripServiceActiveExpandsAndFiltersDrafts(t *testing.T) {
	srv, svc := newTripService(t)
	seedCatalog(srv)

	trips, err := svc.Active(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 1, "draft trips are never listed")

	trip := trips[0]
	assert.Equal(t, "Everest Base Camp", trip.Name)
	require.Len(t, trip.Departures, 1)
	assert.Equal(t, "September 2026", trip.Departures[0].Name)
	require.NotNil(t, trip.Departures[0].Guide)
	assert.Equal(t, "Pemba Sherpa", trip.Departures[0].Guide.Name)
}

func TestTripServiceBySlug(t *testing.T) {
	srv, svc := newTripService(t)
	seedCatalog(srv)

	trip, err := svc.BySlug(context.Background(), "everest-base-camp")
	require.NoError(t, err)
	require.NotNil(t, trip)
	require.Len(t, trip.Guides, 1)
	assert.Equal(t, "Pemba Sherpa", trip.Guides[0].Name)
	require.Len(t, trip.Departures, 1)

	missing, err := svc.BySlug(context.Background(), "no-such-trip")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
