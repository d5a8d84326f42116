package repos

import (
	"context"

	"jibal/internal/airtable"
	"jibal/internal/domain"
)

type GuideRepo struct{ at *airtable.Client }

func NewGuideRepo(at *airtable.Client) *GuideRepo { return &GuideRepo{at: at} }

func (r *GuideRepo) All(ctx context.Context) ([]domain.Guide, error) {
	recs, err := r.at.List(ctx, TableGuides, airtable.ListOptions{})
	if err != nil {
		return nil, err
	}
	return toGuides(recs), nil
}

// ByID returns nil (no error) when the guide does not exist.
func (r *GuideRepo) ByID(ctx context.Context, id string) (*domain.Guide, error) {
	rec, err := r.at.Get(ctx, TableGuides, id)
	if err != nil || rec == nil {
		return nil, err
	}
	g := toGuide(*rec)
	return &g, nil
}

// ByIDs batch-fetches guides with a single OR-of-equality filter.
func (r *GuideRepo) ByIDs(ctx context.Context, ids []string) ([]domain.Guide, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	recs, err := r.at.List(ctx, TableGuides, airtable.ListOptions{
		FilterByFormula: recordIDFilter(ids),
	})
	if err != nil {
		return nil, err
	}
	return toGuides(recs), nil
}

func (r *GuideRepo) Create(ctx context.Context, fields map[string]any) (domain.Guide, error) {
	rec, err := r.at.Create(ctx, TableGuides, fields)
	if err != nil {
		return domain.Guide{}, err
	}
	return toGuide(*rec), nil
}

func (r *GuideRepo) Update(ctx context.Context, id string, fields map[string]any) (domain.Guide, error) {
	rec, err := r.at.Update(ctx, TableGuides, id, fields)
	if err != nil {
		return domain.Guide{}, err
	}
	return toGuide(*rec), nil
}

func (r *GuideRepo) Delete(ctx context.Context, id string) error {
	return r.at.Delete(ctx, TableGuides, id)
}

func toGuides(recs []airtable.Record) []domain.Guide {
	out := make([]domain.Guide, len(recs))
	for i, rec := range recs {
		out[i] = toGuide(rec)
	}
	return out
}

func toGuide(rec airtable.Record) domain.Guide {
	return domain.Guide{
		ID:      rec.ID,
		Name:    rec.Str("Name", "name"),
		Photo:   toDomainAttachment(rec.FirstAttachment("Photo", "photo")),
		Bio:     rec.Str("Bio", "bio"),
		TripIDs: rec.StrList("Trips Assigned", "trips assigned"),
	}
}
