package email

import (
	"context"

	"github.com/resend/resend-go/v2"

	applog "jibal/internal/log"
)

// Sender is the provider call the Mailer depends on. Satisfied by
// resend's Emails service; tests substitute a recorder.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Mailer sends the two post-application emails. Send failures are
// logged and folded into the Result, never returned: the application
// record is the source of truth, a lost email must not fail the
// request that created it.
type Mailer struct {
	sender       Sender
	adminEmail   string
	calendarLink string
	baseID       string
	siteURL      string
}

// Result reports which of the two independent sends went through.
type Result struct {
	CustomerSent bool
	AdminSent    bool
}

// NewMailer builds a Mailer over a resend client. siteURL is the
// public origin linked from email footers.
func NewMailer(apiKey, adminEmail, calendarLink, baseID, siteURL string) *Mailer {
	client := resend.NewClient(apiKey)
	return &Mailer{
		sender:       client.Emails,
		adminEmail:   adminEmail,
		calendarLink: calendarLink,
		baseID:       baseID,
		siteURL:      siteURL,
	}
}

// NewMailerWithSender is the test hook.
func NewMailerWithSender(s Sender, adminEmail, calendarLink, baseID, siteURL string) *Mailer {
	return &Mailer{sender: s, adminEmail: adminEmail, calendarLink: calendarLink, baseID: baseID, siteURL: siteURL}
}

// ApplicationEmailProps describe one accepted application.
type ApplicationEmailProps struct {
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	TripName            string
	DepartureName       string
	DepartureDate       string
	CalendarBookingTime string
	ApplicationID       string
}

// SendApplicationEmails dispatches the customer confirmation and the
// admin alert independently. Neither failure affects the other.
func (m *Mailer) SendApplicationEmails(ctx context.Context, p ApplicationEmailProps) Result {
	var res Result

	customer := ConfirmationEmail(ConfirmationProps{
		CustomerName:        p.CustomerName,
		TripName:            p.TripName,
		DepartureName:       p.DepartureName,
		DepartureDate:       p.DepartureDate,
		CalendarLink:        m.calendarLink,
		CalendarBookingTime: p.CalendarBookingTime,
		SiteURL:             m.siteURL,
	})
	res.CustomerSent = m.send(ctx, "email.customer.send", p.CustomerEmail, customer)

	admin := AdminAlertEmail(AdminAlertProps{
		CustomerName:        p.CustomerName,
		CustomerEmail:       p.CustomerEmail,
		CustomerPhone:       p.CustomerPhone,
		TripName:            p.TripName,
		DepartureName:       p.DepartureName,
		DepartureDate:       p.DepartureDate,
		CalendarBookingTime: p.CalendarBookingTime,
		ApplicationID:       p.ApplicationID,
		BaseID:              m.baseID,
	})
	res.AdminSent = m.send(ctx, "email.admin.send", m.adminEmail, admin)

	return res
}

func (m *Mailer) send(ctx context.Context, action, to string, msg Message) bool {
	if to == "" {
		return false
	}
	_, err := m.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fromName + " <" + fromEmail + ">",
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		applog.Error(nil, action+".fail", err, map[string]any{"to": to, "subject": msg.Subject})
		return false
	}
	return true
}
