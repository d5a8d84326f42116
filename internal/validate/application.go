// Package validate gates application submissions before anything is
// persisted. It does no I/O: input goes in, and either a normalized
// payload or a field-keyed map of the first error per field comes out.
package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	// Leading + and country code required, e.g. "+965 1234 5678".
	rePhone = regexp.MustCompile(`^\+[1-9]\d{0,3}[\s\-]?\d{4,14}$`)
)

var fitnessLevels = []string{"Beginner", "Intermediate", "Advanced", "Athlete"}

var hearChannels = []string{
	"Instagram", "TikTok", "Friend/Family referral",
	"Google search", "YouTube", "Other",
}

const phoneHint = "Please enter a valid phone number with country code (e.g., +965 1234 5678)"

// ApplicationInput is the submitted payload minus server-computed
// fields (id, status, appliedDate). PassportPhoto is extracted by the
// handler before validation and handled as a separate upload.
type ApplicationInput struct {
	DepartureID              string `json:"departureId"`
	CustomerName             string `json:"customerName"`
	Email                    string `json:"email"`
	Phone                    string `json:"phone"`
	DateOfBirth              string `json:"dateOfBirth"`
	Nationality              string `json:"nationality"`
	FitnessLevel             string `json:"fitnessLevel"`
	Experience               string `json:"experience"`
	EmergencyContactName     string `json:"emergencyContactName"`
	EmergencyContactPhone    string `json:"emergencyContactPhone"`
	EmergencyContactRelation string `json:"emergencyContactRelation"`
	Allergies                string `json:"allergies"`
	Medications              string `json:"medications"`
	DietaryRestrictions      string `json:"dietaryRestrictions"`
	HowDidYouHear            string `json:"howDidYouHear"`
	TermsAccepted            bool   `json:"termsAccepted"`
	TermsSignature           string `json:"termsSignature"`
	CalendarBookingTime      string `json:"calendarBookingTime"`
}

// Application checks every field of in and returns the trimmed payload
// plus a map of the first error message per invalid field. The map is
// empty when the payload is acceptable.
func Application(in ApplicationInput) (ApplicationInput, map[string]string) {
	errs := map[string]string{}
	fail := func(field, msg string) {
		if _, taken := errs[field]; !taken {
			errs[field] = msg
		}
	}

	in.DepartureID = strings.TrimSpace(in.DepartureID)
	if in.DepartureID == "" {
		fail("departureId", "Please select a departure date")
	}

	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if len(in.CustomerName) < 2 {
		fail("customerName", "Name must be at least 2 characters")
	} else if len(in.CustomerName) > 100 {
		fail("customerName", "Name must be less than 100 characters")
	}

	in.Email = strings.TrimSpace(in.Email)
	if !reEmail.MatchString(in.Email) {
		fail("email", "Please enter a valid email address")
	}

	in.Phone = strings.TrimSpace(in.Phone)
	if !rePhone.MatchString(in.Phone) {
		fail("phone", phoneHint)
	}

	if strings.TrimSpace(in.DateOfBirth) == "" {
		fail("dateOfBirth", "Date of birth is required")
	}

	in.Nationality = strings.TrimSpace(in.Nationality)
	if len(in.Nationality) < 2 {
		fail("nationality", "Nationality is required")
	} else if len(in.Nationality) > 100 {
		fail("nationality", "Nationality must be less than 100 characters")
	}

	if !oneOf(in.FitnessLevel, fitnessLevels) {
		fail("fitnessLevel", "Please select your fitness level")
	}

	if len(in.Experience) > 2000 {
		fail("experience", "Experience must be less than 2000 characters")
	}

	in.EmergencyContactName = strings.TrimSpace(in.EmergencyContactName)
	if len(in.EmergencyContactName) < 2 {
		fail("emergencyContactName", "Emergency contact name is required")
	} else if len(in.EmergencyContactName) > 100 {
		fail("emergencyContactName", "Name must be less than 100 characters")
	}

	in.EmergencyContactPhone = strings.TrimSpace(in.EmergencyContactPhone)
	if !rePhone.MatchString(in.EmergencyContactPhone) {
		fail("emergencyContactPhone", phoneHint)
	}

	in.EmergencyContactRelation = strings.TrimSpace(in.EmergencyContactRelation)
	if len(in.EmergencyContactRelation) < 2 {
		fail("emergencyContactRelation", "Please specify your relation to emergency contact")
	} else if len(in.EmergencyContactRelation) > 50 {
		fail("emergencyContactRelation", "Relation must be less than 50 characters")
	}

	// Health fields are mandatory but a literal "N/A" is fine.
	checkHealth(fail, "allergies", in.Allergies, "Please enter allergies or N/A", "Allergies must be less than 1000 characters")
	checkHealth(fail, "medications", in.Medications, "Please enter medications or N/A", "Medications must be less than 1000 characters")
	checkHealth(fail, "dietaryRestrictions", in.DietaryRestrictions, "Please enter dietary restrictions or N/A", "Dietary restrictions must be less than 1000 characters")

	if !oneOf(in.HowDidYouHear, hearChannels) {
		fail("howDidYouHear", "Please select how you heard about us")
	}

	if !in.TermsAccepted {
		fail("termsAccepted", "You must accept the Terms & Conditions")
	}

	in.TermsSignature = strings.TrimSpace(in.TermsSignature)
	if len(in.TermsSignature) < 2 {
		fail("termsSignature", "Please type your full name as signature")
	} else if len(in.TermsSignature) > 100 {
		fail("termsSignature", "Signature must be less than 100 characters")
	}

	return in, errs
}

// Email reports whether s looks like a deliverable address. Used by
// the newsletter endpoint, which validates nothing else.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func checkHealth(fail func(field, msg string), field, value, missingMsg, longMsg string) {
	if strings.TrimSpace(value) == "" {
		fail(field, missingMsg)
		return
	}
	if len(value) > 1000 {
		fail(field, longMsg)
	}
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
