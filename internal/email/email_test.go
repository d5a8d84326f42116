package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationEmailWithoutBookedCall(t *testing.T) {
	msg := ConfirmationEmail(ConfirmationProps{
		CustomerName:  "Lena Petrova",
		TripName:      "Everest Base Camp",
		DepartureDate: "September 2026 (Sep 5 - Sep 19)",
		CalendarLink:  "https://cal.example/jibal/consultation",
	})

	assert.Equal(t, "Application Received - Everest Base Camp", msg.Subject)
	assert.Contains(t, msg.HTML, "Book Your Call")
	assert.Contains(t, msg.HTML, "https://cal.example/jibal/consultation")
	assert.Contains(t, msg.Text, "Book a quick consultation call")
	assert.NotContains(t, msg.HTML, "scheduled")
}

func TestConfirmationEmailWithBookedCall(t *testing.T) {
	msg := ConfirmationEmail(ConfirmationProps{
		CustomerName:        "Lena Petrova",
		TripName:            "Everest Base Camp",
		DepartureDate:       "September 2026",
		CalendarLink:        "https://cal.example/jibal/consultation",
		CalendarBookingTime: "Tuesday, June 2 at 4:00 PM",
	})

	assert.Equal(t, "Call Confirmed - Everest Base Camp", msg.Subject)
	assert.Contains(t, msg.HTML, "Tuesday, June 2 at 4:00 PM")
	assert.NotContains(t, msg.HTML, "Book Your Call", "booked calls must not get a second booking link")
}

func TestConfirmationEmailFooterLinksSite(t *testing.T) {
	msg := ConfirmationEmail(ConfirmationProps{
		CustomerName: "Lena Petrova",
		TripName:     "Everest Base Camp",
		SiteURL:      "https://jibal.example",
	})
	assert.Contains(t, msg.HTML, `<a href="https://jibal.example">`)
	assert.Contains(t, msg.Text, "https://jibal.example")

	plain := ConfirmationEmail(ConfirmationProps{TripName: "Everest Base Camp"})
	assert.NotContains(t, plain.HTML, `class="footer"><p><a`)
}

func TestConfirmationEmailEscapesHTML(t *testing.T) {
	msg := ConfirmationEmail(ConfirmationProps{
		CustomerName: `<script>alert("x")</script>`,
		TripName:     "K2 & Broad Peak",
	})
	assert.NotContains(t, msg.HTML, "<script>alert")
	assert.Contains(t, msg.HTML, "K2 &amp; Broad Peak")
}

func TestAdminAlertEmail(t *testing.T) {
	msg := AdminAlertEmail(AdminAlertProps{
		CustomerName:  "Lena Petrova",
		CustomerEmail: "lena@example.com",
		CustomerPhone: "+965 1234 5678",
		TripName:      "Everest Base Camp",
		DepartureDate: "September 2026",
		ApplicationID: "recApp42",
		BaseID:        "appBASE",
	})

	assert.Equal(t, "New Application - Everest Base Camp", msg.Subject)
	assert.Contains(t, msg.HTML, "https://airtable.com/appBASE/tblApplications/recApp42")
	assert.Contains(t, msg.HTML, "Not booked yet")
	assert.Contains(t, msg.Text, "Call: not booked yet")

	booked := AdminAlertEmail(AdminAlertProps{
		TripName:            "Everest Base Camp",
		CalendarBookingTime: "Tuesday at 4 PM",
	})
	assert.Contains(t, booked.HTML, "Booked: Tuesday at 4 PM")
}

// recordingSender captures requests and fails for addresses in failFor.
type recordingSender struct {
	sent    []*resend.SendEmailRequest
	failFor map[string]bool
}

func (s *recordingSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if len(params.To) == 1 && s.failFor[params.To[0]] {
		return nil, errors.New("provider rejected")
	}
	s.sent = append(s.sent, params)
	return &resend.SendEmailResponse{Id: "email_1"}, nil
}

func TestSendApplicationEmailsSendsBoth(t *testing.T) {
	rec := &recordingSender{}
	m := NewMailerWithSender(rec, "bookings@jibal.example", "https://cal.example/c", "appBASE", "https://jibal.example")

	res := m.SendApplicationEmails(context.Background(), ApplicationEmailProps{
		CustomerName:  "Lena Petrova",
		CustomerEmail: "lena@example.com",
		TripName:      "Everest Base Camp",
		ApplicationID: "recApp1",
	})

	assert.True(t, res.CustomerSent)
	assert.True(t, res.AdminSent)
	require.Len(t, rec.sent, 2)
	assert.Equal(t, []string{"lena@example.com"}, rec.sent[0].To)
	assert.Equal(t, []string{"bookings@jibal.example"}, rec.sent[1].To)
	assert.True(t, strings.HasPrefix(rec.sent[0].Subject, "Application Received"))
	assert.True(t, strings.HasPrefix(rec.sent[1].Subject, "New Application"))
}

func TestSendApplicationEmailsFailuresAreIndependent(t *testing.T) {
	rec := &recordingSender{failFor: map[string]bool{"lena@example.com": true}}
	m := NewMailerWithSender(rec, "bookings@jibal.example", "https://cal.example/c", "appBASE", "https://jibal.example")

	res := m.SendApplicationEmails(context.Background(), ApplicationEmailProps{
		CustomerEmail: "lena@example.com",
		TripName:      "Everest Base Camp",
	})

	assert.False(t, res.CustomerSent)
	assert.True(t, res.AdminSent, "admin alert goes out even when the customer send fails")
	require.Len(t, rec.sent, 1)
}

func TestSendSkipsEmptyRecipient(t *testing.T) {
	rec := &recordingSender{}
	m := NewMailerWithSender(rec, "", "https://cal.example/c", "appBASE", "https://jibal.example")

	res := m.SendApplicationEmails(context.Background(), ApplicationEmailProps{
		CustomerEmail: "lena@example.com",
	})

	assert.True(t, res.CustomerSent)
	assert.False(t, res.AdminSent)
	require.Len(t, rec.sent, 1)
}
