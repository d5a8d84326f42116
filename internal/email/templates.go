// Package email renders and dispatches the two transactional emails
// sent after a successful application write. Templates are pure
// functions; only the Mailer talks to the provider.
package email

import (
	"fmt"
	"html"
	"strings"
)

const (
	fromEmail = "onboarding@resend.dev"
	fromName  = "Jibal Adventures"
	tagline   = "Exhilarating yet safe. Exotic yet reliable."
)

// Message is a rendered email ready for dispatch.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// ConfirmationProps feed the customer confirmation template.
type ConfirmationProps struct {
	CustomerName        string
	TripName            string
	DepartureName       string
	DepartureDate       string
	CalendarLink        string
	CalendarBookingTime string
	SiteURL             string
}

// ConfirmationEmail renders the customer-facing confirmation. The
// subject and body branch on whether a consultation call was already
// booked during the form.
func ConfirmationEmail(p ConfirmationProps) Message {
	hasBooked := p.CalendarBookingTime != ""

	subject := "Application Received - " + p.TripName
	if hasBooked {
		subject = "Call Confirmed - " + p.TripName
	}

	name := html.EscapeString(p.CustomerName)
	trip := html.EscapeString(p.TripName)
	date := html.EscapeString(p.DepartureDate)

	var callHTML, callText string
	if hasBooked {
		when := html.EscapeString(p.CalendarBookingTime)
		callHTML = fmt.Sprintf(`
      <p><strong>Your consultation call is scheduled:</strong></p>
      <p style="font-size: 18px; background: #f0f0f0; padding: 15px; border-radius: 6px; text-align: center;">%s</p>
      <p>We'll discuss your trip details, answer questions, and go over next steps.</p>`, when)
		callText = fmt.Sprintf("Your consultation call is scheduled:\n%s\n\nWe'll discuss your trip details, answer questions, and go over next steps.", p.CalendarBookingTime)
	} else {
		link := html.EscapeString(p.CalendarLink)
		callHTML = fmt.Sprintf(`
      <p><strong>Next step:</strong> Book a quick consultation call with our team:</p>
      <p style="text-align: center;"><a href="%[1]s" class="button">Book Your Call</a></p>
      <p>During this call, we'll:</p>
      <ul>
        <li>Answer any questions you have about the trip</li>
        <li>Discuss your experience and fitness level</li>
        <li>Go over payment and next steps</li>
      </ul>
      <p>If the button doesn't work, copy this link:<br><a href="%[1]s">%[1]s</a></p>`, link)
		callText = fmt.Sprintf("Next step: Book a quick consultation call with our team:\n%s\n\nDuring this call, we'll:\n- Answer any questions you have about the trip\n- Discuss your experience and fitness level\n- Go over payment and next steps", p.CalendarLink)
	}

	footerHTML := fromName + "<br>" + tagline
	footerText := fromName + "\n" + tagline
	if p.SiteURL != "" {
		footerHTML = fmt.Sprintf(`<a href="%s">%s</a><br>%s`, html.EscapeString(p.SiteURL), fromName, tagline)
		footerText += "\n" + p.SiteURL
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { text-align: center; margin-bottom: 30px; }
      .header h1 { color: #121E1E; margin: 0; }
      .content { background: #f9f9f9; padding: 30px; border-radius: 8px; }
      .trip-details { background: #e8e8e8; padding: 15px; border-radius: 6px; margin: 20px 0; }
      .button { display: inline-block; background: #121E1E; color: white; padding: 14px 28px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
      .footer { text-align: center; margin-top: 30px; color: #666; font-size: 14px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header"><h1>%s</h1></div>
      <div class="content">
        <p>Hi %s,</p>
        <p>Thank you for applying to <strong>%s</strong>!</p>
        <div class="trip-details">
          <p style="margin: 0;"><strong>Your selected departure:</strong></p>
          <p style="margin: 5px 0 0 0; font-size: 16px;">%s</p>
        </div>
        <p>We've received your application and are excited to learn more about you.</p>
        %s
      </div>
      <div class="footer"><p>%s</p></div>
    </div>
  </body>
</html>`, html.EscapeString(subject), fromName, name, trip, date, callHTML, footerHTML)

	text := fmt.Sprintf(`Hi %s,

Thank you for applying to %s!

Your selected departure: %s

We've received your application and are excited to learn more about you.

%s

See you soon!

%s`, p.CustomerName, p.TripName, p.DepartureDate, callText, footerText)

	return Message{Subject: subject, HTML: htmlBody, Text: text}
}

// AdminAlertProps feed the internal notification template.
type AdminAlertProps struct {
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	TripName            string
	DepartureName       string
	DepartureDate       string
	CalendarBookingTime string
	ApplicationID       string
	BaseID              string
}

// AdminAlertEmail renders the internal new-application alert with a
// deep link into the record store.
func AdminAlertEmail(p AdminAlertProps) Message {
	subject := "New Application - " + p.TripName

	recordLink := fmt.Sprintf("https://airtable.com/%s/tblApplications/%s", p.BaseID, p.ApplicationID)

	callStatus := `<span class="status pending">Not booked yet - will get email link</span>`
	callStatusText := "Call: not booked yet"
	if p.CalendarBookingTime != "" {
		callStatus = fmt.Sprintf(`<span class="status booked">Booked: %s</span>`, html.EscapeString(p.CalendarBookingTime))
		callStatusText = "Call booked: " + p.CalendarBookingTime
	}

	field := func(label, value string) string {
		return fmt.Sprintf(`<div class="field"><div class="label">%s</div><div class="value">%s</div></div>`,
			label, value)
	}

	rows := strings.Join([]string{
		field("Trip", html.EscapeString(p.TripName)),
		field("Departure", html.EscapeString(p.DepartureDate)),
		field("Name", html.EscapeString(p.CustomerName)),
		field("Email", fmt.Sprintf(`<a href="mailto:%[1]s">%[1]s</a>`, html.EscapeString(p.CustomerEmail))),
		field("Phone", fmt.Sprintf(`<a href="tel:%[1]s">%[1]s</a>`, html.EscapeString(p.CustomerPhone))),
		field("Consultation Call", callStatus),
	}, "\n            ")

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: #121E1E; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
      .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 8px 8px; }
      .field { margin-bottom: 15px; }
      .label { font-weight: bold; color: #666; font-size: 12px; text-transform: uppercase; }
      .value { font-size: 16px; margin-top: 4px; }
      .status { display: inline-block; padding: 6px 12px; border-radius: 4px; font-size: 14px; }
      .status.booked { background: #d4edda; color: #155724; }
      .status.pending { background: #fff3cd; color: #856404; }
      .button { display: inline-block; background: #121E1E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 20px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header"><h2 style="margin: 0;">New Application!</h2></div>
      <div class="content">
            %s
        <a href="%s" class="button">Open in Airtable</a>
      </div>
    </div>
  </body>
</html>`, html.EscapeString(subject), rows, recordLink)

	text := fmt.Sprintf(`New application!

Trip: %s
Departure: %s
Name: %s
Email: %s
Phone: %s
%s

Open in Airtable: %s`,
		p.TripName, p.DepartureDate, p.CustomerName, p.CustomerEmail,
		p.CustomerPhone, callStatusText, recordLink)

	return Message{Subject: subject, HTML: htmlBody, Text: text}
}
