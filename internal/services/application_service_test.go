package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibal/internal/airtable"
	"jibal/internal/airtable/airtabletest"
	"jibal/internal/domain"
	"jibal/internal/email"
	"jibal/internal/repos"
	"jibal/internal/validate"
)

// fakeMailer records the props it was asked to send.
type fakeMailer struct {
	calls  []email.ApplicationEmailProps
	result email.Result
}

func (m *fakeMailer) SendApplicationEmails(_ context.Context, p email.ApplicationEmailProps) email.Result {
	m.calls = append(m.calls, p)
	return m.result
}

type fixture struct {
	srv    *airtabletest.Server
	mailer *fakeMailer
	apps   *ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := airtabletest.New()
	t.Cleanup(srv.Close)
	c := airtable.NewClient("test-key", airtabletest.BaseID,
		airtable.WithBaseURL(srv.URL+"/v0"),
		airtable.WithContentURL(srv.URL+"/v0"))

	mailer := &fakeMailer{result: email.Result{CustomerSent: true, AdminSent: true}}
	svc := NewApplicationService(
		repos.NewApplicationRepo(c),
		repos.NewTripRepo(c),
		repos.NewDepartureRepo(c),
		mailer,
	)
	return &fixture{srv: srv, mailer: mailer, apps: svc}
}

func (f *fixture) seedTripAndDeparture(tripStatus, depStatus string, spotsLeft int) {
	f.srv.Seed(repos.TableTrips, airtabletest.Rec{
		ID: "recTrip1",
		Fields: map[string]any{
			"Name": "Everest Base Camp", "Slug": "everest-base-camp", "Status": tripStatus,
		},
	})
	f.srv.Seed(repos.TableDepartures, airtabletest.Rec{
		ID: "recDep1",
		Fields: map[string]any{
			"Name":       "September 2026",
			"Trip":       []any{"recTrip1"},
			"Start Date": "2026-09-05",
			"Status":     depStatus,
			"Spots Left": float64(spotsLeft),
		},
	})
}

func submission() validate.ApplicationInput {
	return validate.ApplicationInput{
		DepartureID:              "recDep1",
		CustomerName:             "Lena Petrova",
		Email:                    "lena@example.com",
		Phone:                    "+965 12345678",
		DateOfBirth:              "1992-04-17",
		Nationality:              "Kuwaiti",
		FitnessLevel:             "Intermediate",
		EmergencyContactName:     "Boris Petrov",
		EmergencyContactPhone:    "+7 9161234567",
		EmergencyContactRelation: "Father",
		Allergies:                "N/A",
		Medications:              "N/A",
		DietaryRestrictions:      "N/A",
		HowDidYouHear:            "Instagram",
		TermsAccepted:            true,
		TermsSignature:           "Lena Petrova",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("active", "open", 5)

	receipt, err := f.apps.Submit(context.Background(), submission(), "")
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, "Everest Base Camp", receipt.TripName)
	assert.Equal(t, "September 2026", receipt.DepartureName)
	assert.True(t, receipt.EmailSent)

	rec := f.srv.Record(repos.TableApps, receipt.ID)
	require.NotNil(t, rec)
	assert.Equal(t, "Lena Petrova", rec.Fields["Customer Name"])
	assert.Equal(t, "applied", rec.Fields["Status"])
	assert.NotEmpty(t, rec.Fields["termsAcceptedAt"])

	require.Len(t, f.mailer.calls, 1)
	assert.Equal(t, receipt.ID, f.mailer.calls[0].ApplicationID)
	assert.Equal(t, "2026-09-05", f.mailer.calls[0].DepartureDate)
}

func TestSubmitUnknownDeparture(t *testing.T) {
	f := newFixture(t)

	_, err := f.apps.Submit(context.Background(), submission(), "")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Departure not found", apiErr.Message)
	assert.Empty(t, f.mailer.calls)
}

func TestSubmitClosedDeparture(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("active", "sold_out", 3)

	_, err := f.apps.Submit(context.Background(), submission(), "")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "This departure is not accepting applications", apiErr.Message)
	assert.Equal(t, 0, f.srv.Count(repos.TableApps))
}

func TestSubmitFullyBookedDeparture(t *testing.T) {
	f := newFixture(t)
	// Status still says open but no spots remain; the count wins.
	f.seedTripAndDeparture("active", "open", 0)

	_, err := f.apps.Submit(context.Background(), submission(), "")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "This departure is fully booked", apiErr.Message)
}

func TestSubmitInactiveTrip(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("draft", "open", 5)

	_, err := f.apps.Submit(context.Background(), submission(), "")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "This trip is not accepting applications", apiErr.Message)
	assert.Equal(t, 0, f.srv.Count(repos.TableApps))
}

func TestSubmitOrphanedDeparture(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed(repos.TableDepartures, airtabletest.Rec{
		ID:     "recDep1",
		Fields: map[string]any{"Status": "open", "Spots Left": float64(2)},
	})

	_, err := f.apps.Submit(context.Background(), submission(), "")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Trip not found", apiErr.Message)
}

func TestSubmitUploadsPassport(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("active", "limited", 1)

	receipt, err := f.apps.Submit(context.Background(), submission(),
		"data:image/png;base64,cGFzc3BvcnQ=")
	require.NoError(t, err)

	uploads := f.srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, receipt.ID, uploads[0].RecordID)
	assert.Equal(t, "passportPhoto", uploads[0].Field)
	assert.Equal(t, "image/png", uploads[0].ContentType)
	assert.True(t, strings.HasPrefix(uploads[0].Filename, "passport_Lena_Petrova_"))
	assert.True(t, strings.HasSuffix(uploads[0].Filename, ".png"))
	assert.Equal(t, "cGFzc3BvcnQ=", uploads[0].File, "data-URL prefix is stripped before upload")
}

func TestSubmitPassportUploadFailureFailsWithRecordLeftBehind(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("active", "open", 5)
	f.srv.FailUploads = true

	_, err := f.apps.Submit(context.Background(), submission(),
		"data:image/png;base64,cGFzc3BvcnQ=")
	require.Error(t, err)
	var apiErr *domain.APIError
	assert.False(t, errors.As(err, &apiErr), "upload failures are upstream errors, not business rejections")

	assert.Equal(t, 1, f.srv.Count(repos.TableApps), "the record is never rolled back")
	assert.Empty(t, f.mailer.calls, "no emails go out for a failed submission")
}

func TestSubmitEmailSentReflectsCustomerOnly(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("active", "open", 5)
	f.mailer.result = email.Result{CustomerSent: false, AdminSent: true}

	receipt, err := f.apps.Submit(context.Background(), submission(), "")
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
	assert.Equal(t, 1, f.srv.Count(repos.TableApps), "a lost email never undoes the record")
}

func TestSubmitCreateFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.seedTripAndDeparture("active", "open", 5)
	f.srv.FailCreates = true

	_, err := f.apps.Submit(context.Background(), submission(), "")
	require.Error(t, err)
	var apiErr *domain.APIError
	assert.False(t, errors.As(err, &apiErr), "store failures surface as upstream errors, not business rejections")
	assert.Empty(t, f.mailer.calls)
}

func TestDetectPassportType(t *testing.T) {
	cases := []struct {
		in, contentType, ext string
	}{
		{"data:image/png;base64,xx", "image/png", "png"},
		{"data:application/pdf;base64,xx", "application/pdf", "pdf"},
		{"data:image/jpeg;base64,xx", "image/jpeg", "jpg"},
		{"bare-base64-no-marker", "image/jpeg", "jpg"},
	}
	for _, c := range cases {
		ct, ext := detectPassportType(c.in)
		assert.Equal(t, c.contentType, ct)
		assert.Equal(t, c.ext, ext)
	}
}
