package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketdz/internal/models"
)

// ListingSource is the listing data access needed by search. Implemented
// by repositories.ListingRepository; every query behind it carries the
// security constraints.
type ListingSource interface {
	SearchListings(ctx context.Context, req models.SearchRequest, strategy string) ([]models.Listing, error)
	CountListings(ctx context.Context, req models.SearchRequest, strategy string, exact bool) (int, error)
}

// ProfileSource batch-loads public seller profiles.
type ProfileSource interface {
	GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.SellerProfile, error)
}

// CountCache stores filter-keyed result counts. Counts tolerate more
// staleness than listing content, so they get a longer TTL than any
// response caching in front of the service.
type CountCache interface {
	Get(ctx context.Context, key string) (int, bool)
	Set(ctx context.Context, key string, count int)
}

// StrategyConfig flags which matching strategies have their backing
// indexes in place. A disabled strategy is a hard error when selected,
// never a silent downgrade: the search role has no statement timeout.
type StrategyConfig struct {
	FullText  bool
	Substring bool
	Trigram   bool
}

// ValidationError carries the full list of parameter problems so the
// caller can report everything wrong in one round trip.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid search parameters: " + strings.Join(e.Details, "; ")
}

type SearchService struct {
	Listings   ListingSource
	Profiles   ProfileSource
	Counts     CountCache
	Strategies StrategyConfig
	InfoLog    *log.Logger
	ErrorLog   *log.Logger
}

const (
	countStrategyNone            = "none"
	countStrategyExact           = "exact"
	countStrategyEstimated       = "estimated"
	countStrategyEstimatedCached = "estimated_cached"
)

// Search runs the full pipeline: normalize, validate, select a strategy,
// execute the bounded query, enrich with seller profiles and shape
// pagination metadata.
func (s *SearchService) Search(ctx context.Context, req models.SearchRequest) (models.SearchResponse, error) {
	start := time.Now()

	req.Query = models.NormalizeQuery(req.Query)
	if errs := req.Validate(); len(errs) > 0 {
		return models.SearchResponse{}, &ValidationError{Details: errs}
	}
	if req.Query == "" && !req.HasFilter() {
		return models.SearchResponse{}, models.ErrEmptySearch
	}

	strategy, indexes, err := s.selectStrategy(req)
	if err != nil {
		return models.SearchResponse{}, err
	}

	listings, err := s.Listings.SearchListings(ctx, req, strategy)
	if err != nil {
		return models.SearchResponse{}, err
	}

	listings, err = s.enrich(ctx, listings)
	if err != nil {
		return models.SearchResponse{}, err
	}

	pagination, countStrategy := s.paginate(ctx, req, strategy, len(listings))

	resp := models.SearchResponse{
		Listings:   listings,
		Pagination: pagination,
		Filters:    req,
		Performance: models.Performance{
			ResultsCount:    len(listings),
			SearchStrategy:  strategy,
			IndexesUsed:     indexes,
			CountStrategy:   countStrategy,
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		},
	}

	// Audit trail for every query issued under the RLS-bypassing role.
	if s.InfoLog != nil {
		s.InfoLog.Printf("service role query: endpoint=search strategy=%s category=%q wilaya=%q query=%q results=%d time=%dms",
			strategy, req.Category, req.Wilaya, req.Query, len(listings), resp.Performance.ExecutionTimeMs)
	}

	return resp, nil
}

// Count serves the dedicated count endpoint. Estimated counts are cached;
// exact counts always hit the database.
func (s *SearchService) Count(ctx context.Context, req models.SearchRequest, exact bool) (models.CountResponse, error) {
	req.Query = models.NormalizeQuery(req.Query)
	if errs := req.Validate(); len(errs) > 0 {
		return models.CountResponse{}, &ValidationError{Details: errs}
	}
	if req.Query == "" && !req.HasFilter() {
		return models.CountResponse{}, models.ErrEmptySearch
	}

	strategy, _, err := s.selectStrategy(req)
	if err != nil {
		return models.CountResponse{}, err
	}

	if !exact && s.Counts != nil {
		if count, ok := s.Counts.Get(ctx, countCacheKey(req)); ok {
			return models.CountResponse{Count: count, Exact: false, Filters: req}, nil
		}
	}

	count, err := s.Listings.CountListings(ctx, req, strategy, exact)
	if err != nil {
		return models.CountResponse{}, err
	}
	if !exact && s.Counts != nil {
		s.Counts.Set(ctx, countCacheKey(req), count)
	}
	return models.CountResponse{Count: count, Exact: exact, Filters: req}, nil
}

// selectStrategy picks the matching technique for the request. Free text
// prefers the precomputed full-text vectors; substring stays available as
// an exact-phrase fallback when vectors are disabled; trigram serves only
// explicit fuzzy requests. An unavailable selected strategy fails loudly.
func (s *SearchService) selectStrategy(req models.SearchRequest) (string, []string, error) {
	if req.Query == "" {
		return models.StrategyNone, []string{"idx_listings_compound"}, nil
	}
	if req.Fuzzy {
		if !s.Strategies.Trigram {
			return "", nil, models.ErrStrategyUnavailable
		}
		return models.StrategyTrigram, []string{"idx_listings_compound", "idx_listings_title_trgm", "idx_listings_description_trgm"}, nil
	}
	if s.Strategies.FullText {
		return models.StrategyFullText, []string{"idx_listings_compound", "idx_listings_fts_ar", "idx_listings_fts_fr"}, nil
	}
	if s.Strategies.Substring {
		return models.StrategySubstring, []string{"idx_listings_compound", "idx_listings_title_trgm", "idx_listings_description_trgm"}, nil
	}
	return "", nil, models.ErrStrategyUnavailable
}

// enrich attaches seller profiles with exactly one batch lookup for the
// page's distinct sellers. A missing profile never drops a listing; its
// seller field stays null.
func (s *SearchService) enrich(ctx context.Context, listings []models.Listing) ([]models.Listing, error) {
	if len(listings) == 0 {
		return listings, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(listings))
	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.UserID]; ok {
			continue
		}
		seen[l.UserID] = struct{}{}
		ids = append(ids, l.UserID)
	}

	profiles, err := s.Profiles.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		if p, ok := profiles[listings[i].UserID]; ok {
			profile := p
			listings[i].Seller = &profile
		}
	}
	return listings, nil
}

// paginate shapes the paging metadata. All pages infer hasNextPage from
// whether the page came back full; this can show a phantom next page at
// an exact boundary, which is the documented cost/accuracy tradeoff. Page
// 1 additionally attaches totals from a cached estimated count, except
// when the first page is short, where the total is already known exactly.
func (s *SearchService) paginate(ctx context.Context, req models.SearchRequest, strategy string, got int) (models.Pagination, string) {
	p := models.Pagination{
		CurrentPage:     req.Page,
		PageSize:        req.PageSize,
		HasNextPage:     got == req.PageSize,
		HasPreviousPage: req.Page > 1,
	}
	if req.Page != 1 {
		return p, countStrategyNone
	}

	if got < req.PageSize {
		total := got
		p.TotalItems = &total
		pages := 1
		if got == 0 {
			pages = 0
		}
		p.TotalPages = &pages
		return p, countStrategyExact
	}

	countStrategy := countStrategyEstimated
	var total int
	cached := false
	if s.Counts != nil {
		if v, ok := s.Counts.Get(ctx, countCacheKey(req)); ok {
			total, cached = v, true
			countStrategy = countStrategyEstimatedCached
		}
	}
	if !cached {
		v, err := s.Listings.CountListings(ctx, req, strategy, false)
		if err != nil {
			// Totals are best effort on page 1; the page itself already
			// succeeded.
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("count estimate failed: %v", err)
			}
			return p, countStrategyNone
		}
		total = v
		if s.Counts != nil {
			s.Counts.Set(ctx, countCacheKey(req), total)
		}
	}

	if total < got {
		total = got
	}
	pages := (total + req.PageSize - 1) / req.PageSize
	p.TotalItems = &total
	p.TotalPages = &pages
	return p, countStrategy
}

// countCacheKey mirrors the full filter set that shapes a count result.
// Every field the query builder can turn into a predicate must appear
// here, including the category-specific filters; omitting one would make
// distinct filter sets share a cached count.
func countCacheKey(req models.SearchRequest) string {
	parts := []string{
		"search:count",
		req.Query,
		req.Category,
		req.Subcategory,
		req.Wilaya,
		req.City,
		floatPart(req.MinPrice),
		floatPart(req.MaxPrice),
		req.AvailableFrom,
		req.AvailableTo,
		req.RentalPeriod,
		floatPart(req.MinSalary),
		floatPart(req.MaxSalary),
		req.JobType,
		req.CompanyName,
		req.Condition,
		strconv.FormatBool(req.Fuzzy),
	}
	return strings.Join(parts, ":")
}

func floatPart(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
