package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

type stubMatchService struct {
	results []MatchResult
	err     error
	lastReq *FindMatchesRequest
}

func (s *stubMatchService) FindMatches(ctx context.Context, req *FindMatchesRequest) ([]MatchResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newTestRouter(svc Service) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(svc))
	return router
}

func TestFindMatchesHandlerSuccess(t *testing.T) {
	svc := &stubMatchService{results: []MatchResult{
		{Listing: listings.Listing{ID: "l1"}, CombinedScore: 7, StructuredScore: 8, SemanticScore: 6},
	}}
	router := newTestRouter(svc)

	body := `{"userId":"user-1","limit":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/find", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool          `json:"success"`
		Data    []MatchResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !envelope.Success || len(envelope.Data) != 1 {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
	if svc.lastReq.UserID != "user-1" || svc.lastReq.Limit != 5 {
		t.Errorf("request not passed through: %+v", svc.lastReq)
	}
}

func TestFindMatchesHandlerRejectsBadPayload(t *testing.T) {
	router := newTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/find", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestFindMatchesHandlerRequiresUserOrProfile(t *testing.T) {
	router := newTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/find", strings.NewReader(`{"limit":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without userId or profile, got %d", rec.Code)
	}
}

func TestFindMatchesHandlerHidesInternalErrors(t *testing.T) {
	router := newTestRouter(&stubMatchService{err: errors.New("pq: connection refused")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/find", strings.NewReader(`{"userId":"user-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Errorf("internal error detail leaked to the caller: %s", rec.Body.String())
	}
}
