package domain

// Trip lifecycle statuses. Only active trips are publicly listable
// and accept applications.
const (
	TripStatusDraft    = "draft"
	TripStatusActive   = "active"
	TripStatusArchived = "archived"
)

// Departure statuses. Applications are accepted only while the
// departure is open or limited and has spots left.
const (
	DepartureStatusOpen      = "open"
	DepartureStatusLimited   = "limited"
	DepartureStatusSoldOut   = "sold_out"
	DepartureStatusCancelled = "cancelled"
)

// Application lifecycle. A linear progression with two absorbing
// failure states reachable from "applied". Only "applied" is ever
// written by this system; the rest belong to the back office.
const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusCalled      = "called"
	ApplicationStatusApproved    = "approved"
	ApplicationStatusPaidDeposit = "paid_deposit"
	ApplicationStatusPaidFull    = "paid_full"
	ApplicationStatusCancelled   = "cancelled"
	ApplicationStatusRejected    = "rejected"
)

// Attachment is a normalized record-store file reference.
type Attachment struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Trip is an itinerary customers browse and apply to. Departures and
// Guides are attached by the expander; the record store only gives us
// the id lists.
type Trip struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	Overview      string       `json:"overview,omitempty"`
	Price         float64      `json:"price"`
	DepositAmount float64      `json:"depositAmount"`
	Photos        []Attachment `json:"photos"`
	Difficulty    string       `json:"difficulty"` // easy | moderate | challenging | extreme
	Continent     string       `json:"continent"`
	Duration      int          `json:"duration"` // days
	FitnessLevel  string       `json:"fitnessLevel"`
	Itinerary     string       `json:"itinerary,omitempty"`
	Included      string       `json:"included,omitempty"`    // comma-delimited line items
	NotIncluded   string       `json:"notIncluded,omitempty"` // comma-delimited line items
	Type          string       `json:"type,omitempty"`
	Status        string       `json:"status"`
	CreatedAt     string       `json:"createdAt"`

	GuideIDs     []string `json:"guideIds"`
	DepartureIDs []string `json:"departureIds"`

	Departures []Departure `json:"departures,omitempty"`
	Guides     []Guide     `json:"guides,omitempty"`
}

// Departure is a dated occurrence of a Trip with its own capacity and
// status. Capacity is authoritative in the record store; we never
// compute or cache it locally.
type Departure struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	TripID           string  `json:"tripId,omitempty"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	GuideID          string  `json:"guideId,omitempty"`
	MaxCapacity      int     `json:"maxCapacity"`
	SpotsLeft        int     `json:"spotsLeft"`
	Price            float64 `json:"price,omitempty"` // overrides the trip price when set
	Status           string  `json:"status"`
	ApplicationCount int     `json:"applicationCount"`

	Guide *Guide `json:"guide,omitempty"`
}

// Accepting reports whether the departure can take another application.
func (d Departure) Accepting() bool {
	return (d.Status == DepartureStatusOpen || d.Status == DepartureStatusLimited) && d.SpotsLeft > 0
}

// Guide leads trips.
type Guide struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Photo   *Attachment `json:"photo,omitempty"`
	Bio     string      `json:"bio,omitempty"`
	TripIDs []string    `json:"tripIds,omitempty"`
}

// Application is a customer's submission against a departure. Created
// exactly once here; mutated afterwards only by back-office status
// transitions; never deleted.
type Application struct {
	ID                       string      `json:"id"`
	TripID                   string      `json:"tripId,omitempty"`
	DepartureID              string      `json:"departureId,omitempty"`
	CustomerName             string      `json:"customerName"`
	Email                    string      `json:"email"`
	Phone                    string      `json:"phone"`
	DateOfBirth              string      `json:"dateOfBirth"`
	Nationality              string      `json:"nationality"`
	Passport                 *Attachment `json:"passport,omitempty"`
	FitnessLevel             string      `json:"fitnessLevel"`
	Experience               string      `json:"experience,omitempty"`
	EmergencyContactName     string      `json:"emergencyContactName"`
	EmergencyContactPhone    string      `json:"emergencyContactPhone"`
	EmergencyContactRelation string      `json:"emergencyContactRelation"`
	Allergies                string      `json:"allergies"`
	Medications              string      `json:"medications"`
	DietaryRestrictions      string      `json:"dietaryRestrictions"`
	HowDidYouHear            string      `json:"howDidYouHear"`
	TermsSignature           string      `json:"termsSignature"`
	TermsAcceptedAt          string      `json:"termsAcceptedAt"`
	Status                   string      `json:"status"`
	CalendarBookingLink      string      `json:"calendarBookingLink,omitempty"`
	CalendarBookingTime      string      `json:"calendarBookingTime,omitempty"`
	AppliedDate              string      `json:"appliedDate"`
	AdminNotes               string      `json:"adminNotes,omitempty"`
}

// NewsletterSubscriber is one email on the list. Uniqueness is a
// business rule enforced by a pre-insert existence check, not a
// store-level constraint.
type NewsletterSubscriber struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	SubscribedAt string `json:"subscribedAt"`
	Source       string `json:"source,omitempty"`
}
