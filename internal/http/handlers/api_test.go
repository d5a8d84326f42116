package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibal/internal/airtable"
	"jibal/internal/airtable/airtabletest"
	"jibal/internal/config"
	"jibal/internal/email"
	"jibal/internal/http/handlers"
	"jibal/internal/repos"
)

type stubMailer struct {
	result email.Result
	calls  int
}

func (m *stubMailer) SendApplicationEmails(_ context.Context, _ email.ApplicationEmailProps) email.Result {
	m.calls++
	return m.result
}

// newAPI stands up the JSON API over a fake record store, mirroring
// the route table the server binary registers.
func newAPI(t *testing.T) (*fiber.App, *airtabletest.Server, *stubMailer) {
	t.Helper()
	srv := airtabletest.New()
	t.Cleanup(srv.Close)

	at := airtable.NewClient("test-key", airtabletest.BaseID,
		airtable.WithBaseURL(srv.URL+"/v0"),
		airtable.WithContentURL(srv.URL+"/v0"))
	mailer := &stubMailer{result: email.Result{CustomerSent: true, AdminSent: true}}
	deps := handlers.NewDeps(at, config.Config{}, mailer)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/trips", deps.TripHandler.List)
	api.Get("/trips/:slug", deps.TripHandler.Detail)
	api.Post("/applications", deps.ApplicationHandler.Submit)
	api.Post("/newsletter", deps.NewsletterHandler.Subscribe)
	return app, srv, mailer
}

func seedCatalog(srv *airtabletest.Server) {
	srv.Seed(repos.TableTrips, airtabletest.Rec{
		ID: "recTrip1",
		Fields: map[string]any{
			"Name": "Everest Base Camp", "Slug": "everest-base-camp",
			"Status": "active", "Departures": []any{"recDep1"},
		},
	})
	srv.Seed(repos.TableDepartures, airtabletest.Rec{
		ID: "recDep1",
		Fields: map[string]any{
			"Name": "September 2026", "Trip": []any{"recTrip1"},
			"Start Date": "2026-09-05", "Status": "open", "Spots Left": float64(4),
		},
	})
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	return resp, decoded
}

func validApplication() map[string]any {
	return map[string]any{
		"departureId":              "recDep1",
		"customerName":             "Lena Petrova",
		"email":                    "lena@example.com",
		"phone":                    "+965 12345678",
		"dateOfBirth":              "1992-04-17",
		"nationality":              "Kuwaiti",
		"fitnessLevel":             "Intermediate",
		"emergencyContactName":     "Boris Petrov",
		"emergencyContactPhone":    "+7 9161234567",
		"emergencyContactRelation": "Father",
		"allergies":                "N/A",
		"medications":              "N/A",
		"dietaryRestrictions":      "N/A",
		"howDidYouHear":            "Instagram",
		"termsAccepted":            true,
		"termsSignature":           "Lena Petrova",
	}
}

func TestTripsListEndpoint(t *testing.T) {
	app, srv, _ := newAPI(t)
	seedCatalog(srv)

	resp, body := doJSON(t, app, http.MethodGet, "/api/trips", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	trip := data[0].(map[string]any)
	assert.Equal(t, "Everest Base Camp", trip["name"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["total"])
}

func TestTripDetailEndpoint(t *testing.T) {
	app, srv, _ := newAPI(t)
	seedCatalog(srv)

	resp, body := doJSON(t, app, http.MethodGet, "/api/trips/everest-base-camp", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	trip := body["data"].(map[string]any)
	assert.Equal(t, "everest-base-camp", trip["slug"])
	departures := trip["departures"].([]any)
	require.Len(t, departures, 1)
}

func TestTripDetailUnknownSlug(t *testing.T) {
	app, srv, _ := newAPI(t)
	seedCatalog(srv)

	resp, body := doJSON(t, app, http.MethodGet, "/api/trips/no-such-trip", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
	assert.Equal(t, "Trip not found", errObj["message"])
}

func TestApplicationSubmitEndpoint(t *testing.T) {
	app, srv, mailer := newAPI(t)
	seedCatalog(srv)

	resp, body := doJSON(t, app, http.MethodPost, "/api/applications", validApplication())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Application submitted successfully", data["message"])
	assert.Equal(t, "Everest Base Camp", data["tripName"])
	assert.Equal(t, "September 2026", data["departureName"])
	assert.Equal(t, true, data["emailSent"])

	assert.Equal(t, 1, srv.Count(repos.TableApps))
	assert.Equal(t, 1, mailer.calls)
}

func TestApplicationSubmitValidationFailure(t *testing.T) {
	app, srv, mailer := newAPI(t)
	seedCatalog(srv)

	payload := validApplication()
	payload["email"] = "not-an-email"
	payload["phone"] = "12345"

	resp, body := doJSON(t, app, http.MethodPost, "/api/applications", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Equal(t, "Validation failed", errObj["message"])

	fields := errObj["details"].(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, "Please enter a valid email address", fields["email"])
	assert.Contains(t, fields["phone"], "country code")

	assert.Equal(t, 0, srv.Count(repos.TableApps), "nothing persists on validation failure")
	assert.Equal(t, 0, mailer.calls)
}

func TestApplicationSubmitFullDeparture(t *testing.T) {
	app, srv, _ := newAPI(t)
	seedCatalog(srv)
	srv.Seed(repos.TableDepartures, airtabletest.Rec{
		ID: "recDep1",
		Fields: map[string]any{
			"Name": "September 2026", "Trip": []any{"recTrip1"},
			"Status": "open", "Spots Left": float64(0),
		},
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/applications", validApplication())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "BAD_REQUEST", errObj["code"])
	assert.Equal(t, "This departure is fully booked", errObj["message"])
}

func TestApplicationSubmitUploadFailureIsInternalError(t *testing.T) {
	app, srv, _ := newAPI(t)
	seedCatalog(srv)
	srv.FailUploads = true

	payload := validApplication()
	payload["passportPhoto"] = "data:image/png;base64,cGFzc3BvcnQ="

	resp, body := doJSON(t, app, http.MethodPost, "/api/applications", payload)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "INTERNAL_ERROR", errObj["code"])
	assert.Equal(t, "Something went wrong", errObj["message"])
	assert.Equal(t, 1, srv.Count(repos.TableApps), "the record stays behind")
}

func TestApplicationSubmitMalformedBody(t *testing.T) {
	app, _, _ := newAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNewsletterEndpointIdempotent(t *testing.T) {
	app, srv, _ := newAPI(t)

	for i := 0; i < 2; i++ {
		resp, body := doJSON(t, app, http.MethodPost, "/api/newsletter",
			map[string]any{"email": "reader@example.com", "source": "footer"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Successfully subscribed to newsletter", body["message"])
	}
	assert.Equal(t, 1, srv.Count(repos.TableNewsletter))
}

func TestNewsletterEndpointRejectsBadEmail(t *testing.T) {
	app, srv, _ := newAPI(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/newsletter",
		map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "BAD_REQUEST", errObj["code"])
	assert.Equal(t, "Invalid email address", errObj["message"])
	assert.Equal(t, 0, srv.Count(repos.TableNewsletter))
}
