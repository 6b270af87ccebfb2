package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"marketdz/internal/models"
	"marketdz/internal/services"
)

type stubListings struct {
	listings []models.Listing
	count    int
}

func (s *stubListings) SearchListings(ctx context.Context, req models.SearchRequest, strategy string) ([]models.Listing, error) {
	return s.listings, nil
}

func (s *stubListings) CountListings(ctx context.Context, req models.SearchRequest, strategy string, exact bool) (int, error) {
	return s.count, nil
}

type stubProfiles struct{}

func (stubProfiles) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.SellerProfile, error) {
	return map[uuid.UUID]models.SellerProfile{}, nil
}

func newSearchHandler(listings *stubListings) *SearchHandler {
	return &SearchHandler{
		Service: &services.SearchService{
			Listings:   listings,
			Profiles:   stubProfiles{},
			Strategies: services.StrategyConfig{FullText: true, Substring: true, Trigram: true},
		},
	}
}

func TestSearchHandlerOK(t *testing.T) {
	listings := &stubListings{listings: []models.Listing{
		{ID: uuid.New(), UserID: uuid.New(), Title: "iphone 13", Category: models.CategoryForSale, Status: models.StatusActive},
	}}
	h := newSearchHandler(listings)

	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodGet, "/api/search?q=iphone&category=for_sale", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if cc := rr.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=30") {
		t.Fatalf("expected cacheable response, got Cache-Control %q", cc)
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(resp.Listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(resp.Listings))
	}
	if resp.Performance.SearchStrategy != models.StrategyFullText {
		t.Fatalf("expected fulltext strategy, got %s", resp.Performance.SearchStrategy)
	}
}

func TestSearchHandlerRejectsMalformedNumbers(t *testing.T) {
	h := newSearchHandler(&stubListings{})

	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodGet, "/api/search?category=for_sale&minPrice=abc&page=x", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(resp.Details) != 2 {
		t.Fatalf("expected both parse errors reported, got %v", resp.Details)
	}
}

func TestSearchHandlerRejectsInvalidRange(t *testing.T) {
	h := newSearchHandler(&stubListings{})

	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodGet,
		"/api/search?category=for_sale&minPrice=100000&maxPrice=50000", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Error != "Invalid search parameters" {
		t.Fatalf("unexpected error message %q", resp.Error)
	}
	found := false
	for _, d := range resp.Details {
		if strings.Contains(d, "minPrice") && strings.Contains(d, "maxPrice") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected inverted price range detail, got %v", resp.Details)
	}
}

func TestSearchHandlerRejectsUnconstrainedRequest(t *testing.T) {
	h := newSearchHandler(&stubListings{})

	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "at least one filter") {
		t.Fatalf("expected guidance in body, got %s", rr.Body.String())
	}
}

func TestCountHandlerIgnoresPagination(t *testing.T) {
	listings := &stubListings{count: 42}
	h := newSearchHandler(listings)

	rr := httptest.NewRecorder()
	h.Count(rr, httptest.NewRequest(http.MethodGet, "/api/search/count?category=for_sale&page=9999", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if cc := rr.Header().Get("Cache-Control"); !strings.Contains(cc, "s-maxage=300") {
		t.Fatalf("expected count cache header, got %q", cc)
	}

	var resp models.CountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Count != 42 {
		t.Fatalf("expected count 42, got %d", resp.Count)
	}
}
