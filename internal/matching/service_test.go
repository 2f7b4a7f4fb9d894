package matching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kiezswap/kiezswap-backend/internal/ai"
	"github.com/kiezswap/kiezswap-backend/internal/config"
	"github.com/kiezswap/kiezswap-backend/internal/listings"
	"github.com/kiezswap/kiezswap-backend/internal/profile"
)

type stubUsers struct {
	user *profile.UserProfile
	err  error
}

func (s *stubUsers) GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUsers) UpsertProfile(ctx context.Context, p *profile.UserProfile) error { return nil }

type stubListings struct {
	pool      []*listings.Listing
	err       error
	lastLimit int
}

func (s *stubListings) GetListing(ctx context.Context, id string) (*listings.Listing, error) {
	return nil, listings.ErrListingNotFound
}

func (s *stubListings) FindListings(ctx context.Context, filters *listings.Filters, limit int) ([]*listings.Listing, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.pool, nil
}

func (s *stubListings) UpsertListing(ctx context.Context, l *listings.Listing) error { return nil }
func (s *stubListings) DeleteIncomplete(ctx context.Context) (int64, error)          { return 0, nil }
func (s *stubListings) DeleteDuplicateLinks(ctx context.Context) (int64, error)      { return 0, nil }
func (s *stubListings) CountListings(ctx context.Context) (int64, error)             { return 0, nil }

// chatStub records prompts so tests can assert which model calls happened.
type chatStub struct {
	prompts []string
}

func (c *chatStub) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return "{}", nil
}

func (c *chatStub) batchCalls() int {
	n := 0
	for _, p := range c.prompts {
		if strings.Contains(p, "PART 1") {
			n++
		}
	}
	return n
}

func serviceConfig() *config.Config {
	return &config.Config{
		MinMatchScore:      5,
		DefaultMatchLimit:  20,
		SemanticBatchSize:  8,
		SemanticBatchDelay: time.Millisecond,
		UserTextLimit:      500,
		ListingTextLimit:   400,
		MinSemanticText:    20,
	}
}

func newTestService(users *stubUsers, pool *stubListings, chat ai.ChatClient) Service {
	cfg := serviceConfig()
	return NewService(
		users,
		pool,
		ai.NewExtractor(chat, nil, cfg),
		ai.NewSemanticScorer(chat, cfg),
		NewRegexInference(),
		cfg,
	)
}

func structuredOnlyUser() *profile.UserProfile {
	return &profile.UserProfile{
		ID: "user-1",
		MyApartment: profile.OfferedApartment{
			Rooms:    fp(2),
			ColdRent: fp(800),
		},
		LookingFor: profile.LookingFor{
			MinRooms:    fp(2),
			MaxColdRent: fp(1000),
			Districts:   []string{"Mitte"},
		},
	}
}

func TestFindMatchesUnknownUserReturnsEmpty(t *testing.T) {
	users := &stubUsers{err: profile.ErrUserNotFound}
	svc := newTestService(users, &stubListings{}, &chatStub{})

	results, err := svc.FindMatches(context.Background(), &FindMatchesRequest{UserID: "ghost"})
	if err != nil {
		t.Fatalf("unknown user must not be an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestFindMatchesListingStorageFailureSurfaces(t *testing.T) {
	users := &stubUsers{user: structuredOnlyUser()}
	pool := &stubListings{err: errors.New("connection refused")}
	svc := newTestService(users, pool, &chatStub{})

	_, err := svc.FindMatches(context.Background(), &FindMatchesRequest{UserID: "user-1"})
	if err == nil {
		t.Fatal("listing storage failure must surface as an error")
	}
}

func TestFindMatchesEmptyPoolReturnsEmpty(t *testing.T) {
	users := &stubUsers{user: structuredOnlyUser()}
	svc := newTestService(users, &stubListings{}, &chatStub{})

	results, err := svc.FindMatches(context.Background(), &FindMatchesRequest{UserID: "user-1"})
	if err != nil {
		t.Fatalf("empty pool must not be an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestFindMatchesOverFetchesCandidates(t *testing.T) {
	users := &stubUsers{user: structuredOnlyUser()}
	pool := &stubListings{}
	svc := newTestService(users, pool, &chatStub{})

	svc.FindMatches(context.Background(), &FindMatchesRequest{UserID: "user-1", Limit: 10})
	if pool.lastLimit != 30 {
		t.Errorf("limit 10 should fetch the 30-candidate floor, got %d", pool.lastLimit)
	}

	svc.FindMatches(context.Background(), &FindMatchesRequest{UserID: "user-1", Limit: 25})
	if pool.lastLimit != 50 {
		t.Errorf("limit 25 should fetch 50 candidates, got %d", pool.lastLimit)
	}
}

func TestFindMatchesStructuredOnlyWhenNoFreeText(t *testing.T) {
	// User and listings carry only structured fields: the model must never be
	// called and every result falls back to the semantic floor score.
	users := &stubUsers{user: structuredOnlyUser()}
	pool := &stubListings{pool: []*listings.Listing{
		{
			ID:       "good",
			Link:     "https://example.com/good",
			Title:    "2 rooms in Mitte",
			District: "Mitte",
			Type:     "Altbau",
			ColdRent: 950,
			Rooms:    2,
		},
		{
			ID:       "bad",
			Link:     "https://example.com/bad",
			Title:    "Tiny flat in Spandau",
			District: "Spandau",
			Type:     "Neubau",
			ColdRent: 1600,
			Rooms:    1,
		},
	}}
	chat := &chatStub{}
	svc := newTestService(users, pool, chat)

	results, err := svc.FindMatches(context.Background(), &FindMatchesRequest{UserID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("FindMatches failed: %v", err)
	}

	// The one allowed call is preference extraction on the synthesized
	// description; no scoring batch may go out.
	if got := chat.batchCalls(); got != 0 {
		t.Errorf("expected zero semantic batch calls without free text, got %d", got)
	}
	if len(chat.prompts) > 1 {
		t.Errorf("expected at most the preference extraction call, got %d calls", len(chat.prompts))
	}

	if len(results) != 1 {
		t.Fatalf("expected only the good listing to clear the threshold, got %d results", len(results))
	}
	got := results[0]
	if got.Listing.ID != "good" {
		t.Errorf("wrong listing ranked first: %s", got.Listing.ID)
	}
	if got.SemanticScore != ai.FloorScore {
		t.Errorf("semantic score must default to the floor, got %d", got.SemanticScore)
	}
	if got.StructuredScore < 9 {
		t.Errorf("strong structured match expected, got %d", got.StructuredScore)
	}
	if len(got.Reasons.TheirApartment.Structured) == 0 {
		t.Error("expected structured reasons for the good listing")
	}
	if len(got.Reasons.TheirApartment.Semantic) != 0 {
		t.Error("no semantic reasons expected when the model was skipped")
	}
}

func TestFindMatchesInlineProfileSkipsLookup(t *testing.T) {
	users := &stubUsers{err: errors.New("storage must not be queried")}
	pool := &stubListings{pool: []*listings.Listing{
		{
			ID:       "good",
			Link:     "https://example.com/good",
			Title:    "2 rooms in Mitte",
			District: "Mitte",
			Type:     "Altbau",
			ColdRent: 950,
			Rooms:    2,
		},
	}}
	svc := newTestService(users, pool, &chatStub{})

	results, err := svc.FindMatches(context.Background(), &FindMatchesRequest{
		Profile: structuredOnlyUser(),
		Limit:   5,
	})
	if err != nil {
		t.Fatalf("inline profile must bypass the user store: %v", err)
	}
	if len(results) != 1 || results[0].Listing.ID != "good" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestFindMatchesMissingUserIDRejected(t *testing.T) {
	svc := newTestService(&stubUsers{}, &stubListings{}, &chatStub{})

	_, err := svc.FindMatches(context.Background(), &FindMatchesRequest{})
	if !errors.Is(err, ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
}
