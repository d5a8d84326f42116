// Package repos holds the per-entity gateways between the record
// store's raw field bags and the normalized domain entities. All
// formula strings are built here and nowhere else, and every dynamic
// value passes through airtable.EscapeFormulaString before it is
// interpolated.
package repos

import (
	"strings"

	"jibal/internal/airtable"
	"jibal/internal/domain"
)

// Table ids of the production base. Opaque ids rather than display
// names so renaming a table in the store does not break the site.
const (
	TableTrips      = "tbl6IJFt8MKiHTAmd"
	TableDepartures = "tblkqdYgXNNKaGcaD"
	TableGuides     = "tblLUcPjGAaNHsFZf"
	TableApps       = "tblRUSu0KDU5eYk6e"
	TableNewsletter = "tblELGvEpPTALzpwJ"
)

// recordIDFilter builds OR(RECORD_ID() = 'a', RECORD_ID() = 'b', ...)
// so a batch of ids resolves in a single query instead of N lookups.
func recordIDFilter(ids []string) string {
	terms := make([]string, len(ids))
	for i, id := range ids {
		terms[i] = "RECORD_ID() = '" + airtable.EscapeFormulaString(id) + "'"
	}
	return "OR(" + strings.Join(terms, ", ") + ")"
}

// linkedFilter matches records whose linked field contains id.
// ARRAYJOIN flattens the link array so FIND can substring-match it.
func linkedFilter(field, id string) string {
	return "FIND('" + airtable.EscapeFormulaString(id) + "', ARRAYJOIN({" + field + "})) > 0"
}

func toDomainAttachments(atts []airtable.Attachment) []domain.Attachment {
	if len(atts) == 0 {
		return []domain.Attachment{}
	}
	out := make([]domain.Attachment, len(atts))
	for i, a := range atts {
		out[i] = domain.Attachment{
			URL:          a.URL,
			Filename:     a.Filename,
			Width:        a.Width,
			Height:       a.Height,
			ThumbnailURL: a.ThumbnailURL,
		}
	}
	return out
}

func toDomainAttachment(a *airtable.Attachment) *domain.Attachment {
	if a == nil {
		return nil
	}
	d := toDomainAttachments([]airtable.Attachment{*a})
	return &d[0]
}
