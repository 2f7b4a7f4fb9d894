package saved

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

var ErrMissingIDs = errors.New("missing user id or listing id")

type Service interface {
	SaveListing(ctx context.Context, userID string, listing *listings.Listing) (*SavedListing, error)
	UnsaveListing(ctx context.Context, userID, listingID string) error
	GetSavedListings(ctx context.Context, userID string) ([]*SavedListing, error)
	IsListingSaved(ctx context.Context, userID, listingID string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SaveListing(ctx context.Context, userID string, listing *listings.Listing) (*SavedListing, error) {
	if userID == "" || listing == nil || listing.ID == "" {
		return nil, ErrMissingIDs
	}

	saved := &SavedListing{
		// Composite id keeps one bookmark per (user, listing) pair
		ID:        fmt.Sprintf("%s_%s", userID, listing.ID),
		UserID:    userID,
		ListingID: listing.ID,
		Listing:   ListingSnapshot{Listing: *listing},
	}

	if err := s.repo.Save(ctx, saved); err != nil {
		return nil, err
	}

	return saved, nil
}

func (s *service) UnsaveListing(ctx context.Context, userID, listingID string) error {
	if userID == "" || listingID == "" {
		return ErrMissingIDs
	}
	return s.repo.Unsave(ctx, userID, listingID)
}

func (s *service) GetSavedListings(ctx context.Context, userID string) ([]*SavedListing, error) {
	if userID == "" {
		return nil, ErrMissingIDs
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) IsListingSaved(ctx context.Context, userID, listingID string) (bool, error) {
	if userID == "" || listingID == "" {
		return false, nil
	}
	return s.repo.IsSaved(ctx, userID, listingID)
}
