package listings

import (
	"context"
)

type Service interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	FindListings(ctx context.Context, filters *Filters, limit int) ([]*Listing, error)
	ImportListings(ctx context.Context, batch []*Listing) (*ImportSummary, error)
	CleanupListings(ctx context.Context) (*CleanupSummary, error)
}

// ImportSummary reports what happened to an imported batch.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// CleanupSummary reports what a maintenance sweep removed and how many
// listings survived it.
type CleanupSummary struct {
	IncompleteRemoved int64 `json:"incompleteRemoved"`
	DuplicatesRemoved int64 `json:"duplicatesRemoved"`
	Remaining         int64 `json:"remaining"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetListing(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetListing(ctx, id)
}

func (s *service) FindListings(ctx context.Context, filters *Filters, limit int) ([]*Listing, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.repo.FindListings(ctx, filters, limit)
}

// ImportListings stores a scraped batch, skipping listings that fail the
// completeness contract so they never reach the matcher.
func (s *service) ImportListings(ctx context.Context, batch []*Listing) (*ImportSummary, error) {
	summary := &ImportSummary{}

	for _, listing := range batch {
		if !listing.IsComplete() {
			summary.Skipped++
			continue
		}
		if err := s.repo.UpsertListing(ctx, listing); err != nil {
			summary.Failed++
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

func (s *service) CleanupListings(ctx context.Context) (*CleanupSummary, error) {
	incomplete, err := s.repo.DeleteIncomplete(ctx)
	if err != nil {
		return nil, err
	}

	duplicates, err := s.repo.DeleteDuplicateLinks(ctx)
	if err != nil {
		return nil, err
	}

	remaining, err := s.repo.CountListings(ctx)
	if err != nil {
		return nil, err
	}

	return &CleanupSummary{
		IncompleteRemoved: incomplete,
		DuplicatesRemoved: duplicates,
		Remaining:         remaining,
	}, nil
}
