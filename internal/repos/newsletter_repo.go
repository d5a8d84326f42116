package repos

import (
	"context"

	"jibal/internal/airtable"
	"jibal/internal/domain"
)

type NewsletterRepo struct{ at *airtable.Client }

func NewNewsletterRepo(at *airtable.Client) *NewsletterRepo { return &NewsletterRepo{at: at} }

// ByEmail returns nil when the address is not on the list. Used as the
// pre-insert existence check; the store itself has no unique
// constraint on Email.
func (r *NewsletterRepo) ByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	recs, err := r.at.List(ctx, TableNewsletter, airtable.ListOptions{
		FilterByFormula: "{Email} = '" + airtable.EscapeFormulaString(email) + "'",
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	s := toSubscriber(recs[0])
	return &s, nil
}

func (r *NewsletterRepo) Create(ctx context.Context, email, source string) (domain.NewsletterSubscriber, error) {
	fields := map[string]any{"Email": email}
	if source != "" {
		fields["Source"] = source
	}
	rec, err := r.at.Create(ctx, TableNewsletter, fields)
	if err != nil {
		return domain.NewsletterSubscriber{}, err
	}
	return toSubscriber(*rec), nil
}

// All lists subscribers, newest first.
func (r *NewsletterRepo) All(ctx context.Context) ([]domain.NewsletterSubscriber, error) {
	recs, err := r.at.List(ctx, TableNewsletter, airtable.ListOptions{
		Sort: []airtable.Sort{{Field: "Subscribed At", Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.NewsletterSubscriber, len(recs))
	for i, rec := range recs {
		out[i] = toSubscriber(rec)
	}
	return out, nil
}

func toSubscriber(rec airtable.Record) domain.NewsletterSubscriber {
	subscribedAt := rec.Str("Subscribed At", "subscribedAt")
	if subscribedAt == "" {
		subscribedAt = rec.CreatedTime
	}
	return domain.NewsletterSubscriber{
		ID:           rec.ID,
		Email:        rec.Str("Email", "email"),
		SubscribedAt: subscribedAt,
		Source:       rec.Str("Source", "source"),
	}
}
