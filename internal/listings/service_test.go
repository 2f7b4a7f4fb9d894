package listings

import (
	"context"
	"errors"
	"testing"
)

type stubRepo struct {
	upserts    []*Listing
	upsertErr  error
	incomplete int64
	duplicates int64
	total      int64
}

func (s *stubRepo) GetListing(ctx context.Context, id string) (*Listing, error) {
	return nil, ErrListingNotFound
}

func (s *stubRepo) FindListings(ctx context.Context, filters *Filters, limit int) ([]*Listing, error) {
	return nil, nil
}

func (s *stubRepo) UpsertListing(ctx context.Context, listing *Listing) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, listing)
	return nil
}

func (s *stubRepo) DeleteIncomplete(ctx context.Context) (int64, error) {
	return s.incomplete, nil
}

func (s *stubRepo) DeleteDuplicateLinks(ctx context.Context) (int64, error) {
	return s.duplicates, nil
}

func (s *stubRepo) CountListings(ctx context.Context) (int64, error) { return s.total, nil }

func completeListing(link string) *Listing {
	return &Listing{
		Link:         link,
		Title:        "2 rooms in Neukölln",
		District:     "Neukölln",
		Type:         "Altbau",
		ColdRent:     850,
		Rooms:        2,
		SquareMeters: 58,
	}
}

func TestIsComplete(t *testing.T) {
	if !completeListing("https://example.com/1").IsComplete() {
		t.Error("listing with all required fields must be complete")
	}

	broken := []*Listing{
		{},
		{Link: "x", Title: "t", District: "d", Type: "ty", Rooms: 2, SquareMeters: 50},            // no rent
		{Link: "x", Title: "t", District: "d", Type: "ty", ColdRent: 800, SquareMeters: 50},       // no rooms
		{Link: "x", Title: "t", District: "d", ColdRent: 800, Rooms: 2, SquareMeters: 50},         // no type
		{Title: "t", District: "d", Type: "ty", ColdRent: 800, Rooms: 2, SquareMeters: 50},        // no link
		{Link: "x", Title: "t", District: "d", Type: "ty", ColdRent: 800, Rooms: 2},               // no size
	}
	for i, l := range broken {
		if l.IsComplete() {
			t.Errorf("case %d should be incomplete: %+v", i, l)
		}
	}
}

func TestImportListingsSkipsIncomplete(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	batch := []*Listing{
		completeListing("https://example.com/1"),
		{Link: "https://example.com/2"}, // missing everything else
		completeListing("https://example.com/3"),
	}

	summary, err := svc.ImportListings(context.Background(), batch)
	if err != nil {
		t.Fatalf("ImportListings failed: %v", err)
	}

	if summary.Imported != 2 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(repo.upserts) != 2 {
		t.Errorf("expected 2 upserts, got %d", len(repo.upserts))
	}
}

func TestImportListingsCountsFailures(t *testing.T) {
	repo := &stubRepo{upsertErr: errors.New("constraint violation")}
	svc := NewService(repo)

	summary, err := svc.ImportListings(context.Background(), []*Listing{completeListing("https://example.com/1")})
	if err != nil {
		t.Fatalf("ImportListings failed: %v", err)
	}
	if summary.Failed != 1 || summary.Imported != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestCleanupListings(t *testing.T) {
	repo := &stubRepo{incomplete: 3, duplicates: 2, total: 47}
	svc := NewService(repo)

	summary, err := svc.CleanupListings(context.Background())
	if err != nil {
		t.Fatalf("CleanupListings failed: %v", err)
	}
	if summary.IncompleteRemoved != 3 || summary.DuplicatesRemoved != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Remaining != 47 {
		t.Errorf("summary should report the surviving listing count, got %d", summary.Remaining)
	}
}
