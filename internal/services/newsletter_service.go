package services

import (
	"context"

	"jibal/internal/repos"
)

// NewsletterService handles list signups. Subscribing an address that
// is already on the list succeeds without creating a second record,
// so the endpoint never reveals whether an address was subscribed.
type NewsletterService struct {
	Subs *repos.NewsletterRepo
}

func NewNewsletterService(subs *repos.NewsletterRepo) *NewsletterService {
	return &NewsletterService{Subs: subs}
}

// Subscribe adds email to the list if it is not already on it.
// Returns whether a new record was created.
func (s *NewsletterService) Subscribe(ctx context.Context, email, source string) (bool, error) {
	existing, err := s.Subs.ByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.Subs.Create(ctx, email, source); err != nil {
		return false, err
	}
	return true, nil
}
