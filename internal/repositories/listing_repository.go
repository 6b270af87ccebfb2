package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"marketdz/internal/models"
)

type ListingRepository struct {
	DB *sql.DB
}

// applyFilters adds the request's filter predicates in decreasing
// index selectivity: the compound index covers
// (status, category, location_wilaya, price, created_at), so the cheap
// equality predicates go first and the text match goes last.
func applyFilters(q *listingQuery, req models.SearchRequest) {
	if req.Category != "" {
		q.addCondition("l.category = %s", req.Category)
	}
	if req.Subcategory != "" {
		q.addCondition("l.subcategory = %s", req.Subcategory)
	}
	if req.Wilaya != "" {
		q.addCondition("l.location_wilaya = %s", req.Wilaya)
	}
	if req.City != "" {
		q.addCondition("l.location_city = %s", req.City)
	}
	if req.MinPrice != nil {
		q.addCondition("l.price >= %s", *req.MinPrice)
	}
	if req.MaxPrice != nil {
		q.addCondition("l.price <= %s", *req.MaxPrice)
	}

	switch req.Category {
	case models.CategoryForRent:
		if req.AvailableFrom != "" {
			q.addCondition("l.available_from >= %s", req.AvailableFrom)
		}
		if req.AvailableTo != "" {
			q.addCondition("l.available_to <= %s", req.AvailableTo)
		}
		if req.RentalPeriod != "" {
			q.addCondition("l.rental_period = %s", req.RentalPeriod)
		}
	case models.CategoryJob:
		if req.MinSalary != nil {
			q.addCondition("l.salary_min >= %s", *req.MinSalary)
		}
		if req.MaxSalary != nil {
			q.addCondition("l.salary_max <= %s", *req.MaxSalary)
		}
		if req.JobType != "" {
			q.addCondition("l.job_type = %s", req.JobType)
		}
		if req.CompanyName != "" {
			q.addCondition("l.company_name ILIKE %s", "%"+models.EscapeLike(req.CompanyName)+"%")
		}
	case models.CategoryForSale:
		if req.Condition != "" {
			q.addCondition("l.condition = %s", req.Condition)
		}
	}
}

// applyTextPredicate adds the matching predicate for the chosen strategy.
// Each variant is backed by its own index (GIN on the precomputed vectors,
// pg_trgm on title/description); nothing here may ever produce an
// unindexed scan over free text.
func applyTextPredicate(q *listingQuery, strategy, query string) error {
	if query == "" {
		return nil
	}
	switch strategy {
	case models.StrategyFullText:
		// Bilingual match across both precomputed vector columns.
		q.addCondition(
			"(l.search_vector_ar @@ websearch_to_tsquery('arabic', %s) OR l.search_vector_fr @@ websearch_to_tsquery('french', %s))",
			query, query,
		)
	case models.StrategySubstring:
		pattern := "%" + models.EscapeLike(query) + "%"
		q.addCondition("(l.title ILIKE %s OR l.description ILIKE %s)", pattern, pattern)
	case models.StrategyTrigram:
		q.addCondition("(l.title %% %s OR l.description %% %s)", query, query)
	default:
		return fmt.Errorf("unknown search strategy %q", strategy)
	}
	return nil
}

// orderSQL maps a sort key to a deterministic ORDER BY. The id tie-break
// keeps pagination stable when many rows share the sort value.
func orderSQL(sortBy string) string {
	switch sortBy {
	case models.SortPriceLow:
		return " ORDER BY l.price ASC NULLS LAST, l.id ASC"
	case models.SortPriceHigh:
		return " ORDER BY l.price DESC NULLS LAST, l.id DESC"
	case models.SortOldest:
		return " ORDER BY l.created_at ASC, l.id ASC"
	case models.SortPopular:
		return " ORDER BY l.favorites_count DESC, l.id DESC"
	default:
		return " ORDER BY l.created_at DESC, l.id DESC"
	}
}

func (r *ListingRepository) SearchListings(ctx context.Context, req models.SearchRequest, strategy string) ([]models.Listing, error) {
	q := newListingQuery()
	applyFilters(q, req)
	if err := applyTextPredicate(q, strategy, req.Query); err != nil {
		return nil, err
	}

	query := "SELECT " + listingSelectColumns() + " FROM listings l" + q.whereSQL() + orderSQL(req.SortBy)
	query += " LIMIT " + q.addParam(req.PageSize) + " OFFSET " + q.addParam((req.Page-1)*req.PageSize)

	rows, err := r.DB.QueryContext(ctx, query, q.params...)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0, req.PageSize)
	for rows.Next() {
		var (
			l      models.Listing
			photos []byte
		)
		err := rows.Scan(
			&l.ID, &l.Title, &l.Description, &l.Price, &l.Category, &l.Subcategory,
			&l.Status, &l.UserID, &l.LocationWilaya, &l.LocationCity, &photos,
			&l.Condition, &l.AvailableFrom, &l.AvailableTo, &l.RentalPeriod,
			&l.SalaryMin, &l.SalaryMax, &l.JobType, &l.CompanyName,
			&l.FavoritesCount, &l.ViewsCount, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if len(photos) > 0 {
			if err := json.Unmarshal(photos, &l.Photos); err != nil {
				return nil, fmt.Errorf("decode photos for listing %s: %w", l.ID, err)
			}
		}
		if l.Photos == nil {
			l.Photos = []string{}
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// CountListings runs the same predicate as SearchListings without
// fetching rows. Exact counts do a real COUNT(*); estimated counts read
// the planner's row estimate, which is much cheaper on a large, mutable
// table and accurate enough for "X results" copy.
func (r *ListingRepository) CountListings(ctx context.Context, req models.SearchRequest, strategy string, exact bool) (int, error) {
	q := newListingQuery()
	applyFilters(q, req)
	if err := applyTextPredicate(q, strategy, req.Query); err != nil {
		return 0, err
	}

	if exact {
		var count int
		query := "SELECT COUNT(*) FROM listings l" + q.whereSQL()
		if err := r.DB.QueryRowContext(ctx, query, q.params...).Scan(&count); err != nil {
			return 0, fmt.Errorf("count listings: %w", err)
		}
		return count, nil
	}

	query := "EXPLAIN (FORMAT JSON) SELECT 1 FROM listings l" + q.whereSQL()
	var doc []byte
	if err := r.DB.QueryRowContext(ctx, query, q.params...).Scan(&doc); err != nil {
		return 0, fmt.Errorf("estimate listings count: %w", err)
	}

	var plans []struct {
		Plan struct {
			PlanRows float64 `json:"Plan Rows"`
		} `json:"Plan"`
	}
	if err := json.Unmarshal(doc, &plans); err != nil {
		return 0, fmt.Errorf("decode plan estimate: %w", err)
	}
	if len(plans) == 0 {
		return 0, fmt.Errorf("empty plan estimate")
	}
	return int(plans[0].Plan.PlanRows), nil
}

// TitleSuggestions returns distinct active-listing titles starting with
// the given prefix. The pattern is anchored to keep matching cheap; since
// ILIKE cannot use a plain btree index, the trigram GIN index on title is
// what serves it.
func (r *ListingRepository) TitleSuggestions(ctx context.Context, prefix, category string, limit int) ([]string, error) {
	q := newListingQuery()
	if category != "" {
		q.addCondition("l.category = %s", category)
	}
	q.addCondition("l.title ILIKE %s", models.EscapeLike(prefix)+"%")

	query := "SELECT DISTINCT l.title FROM listings l" + q.whereSQL() +
		" ORDER BY l.title ASC LIMIT " + q.addParam(limit)

	rows, err := r.DB.QueryContext(ctx, query, q.params...)
	if err != nil {
		return nil, fmt.Errorf("title suggestions: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// HasSearchVectors reports whether both precomputed vector columns exist.
// The full-text strategy is a hard external contract; the health endpoint
// surfaces a missing column before it turns into failing searches.
func (r *ListingRepository) HasSearchVectors(ctx context.Context) (bool, error) {
	const query = `
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_name = 'listings'
		  AND column_name IN ('search_vector_ar', 'search_vector_fr')
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return false, err
	}
	return count == 2, nil
}
