package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sort keys accepted by the search endpoint.
const (
	SortCreatedAt = "created_at"
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortPopular   = "popular"
)

// Search strategies. Selection policy lives in services.SearchService.
const (
	StrategyFullText  = "fulltext"
	StrategySubstring = "substring"
	StrategyTrigram   = "trigram"
	StrategyNone      = "filter_only"
)

const (
	MaxQueryLength  = 500
	MaxFilterLength = 100
	MaxPage         = 1000
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// AllowedSortKeys returns the set of valid sort values.
func AllowedSortKeys() map[string]struct{} {
	return map[string]struct{}{
		SortCreatedAt: {},
		SortNewest:    {},
		SortOldest:    {},
		SortPriceLow:  {},
		SortPriceHigh: {},
		SortPopular:   {},
	}
}

// SearchRequest is built per call from query parameters. Query is expected
// to already be normalized via NormalizeQuery.
type SearchRequest struct {
	Query       string   `json:"query"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Wilaya      string   `json:"wilaya,omitempty"`
	City        string   `json:"city,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`

	// Category-specific filters, applied only when the matching category
	// is selected.
	AvailableFrom string   `json:"available_from,omitempty"`
	AvailableTo   string   `json:"available_to,omitempty"`
	RentalPeriod  string   `json:"rental_period,omitempty"`
	MinSalary     *float64 `json:"min_salary,omitempty"`
	MaxSalary     *float64 `json:"max_salary,omitempty"`
	JobType       string   `json:"job_type,omitempty"`
	CompanyName   string   `json:"company_name,omitempty"`
	Condition     string   `json:"condition,omitempty"`

	SortBy   string `json:"sort_by"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`

	// Fuzzy requests the trigram strategy explicitly.
	Fuzzy bool `json:"fuzzy,omitempty"`
}

// Validate checks every parameter and collects all problems instead of
// stopping at the first, so a caller can fix everything in one round trip.
func (r SearchRequest) Validate() []string {
	var errs []string

	if utf8.RuneCountInString(r.Query) > MaxQueryLength {
		errs = append(errs, fmt.Sprintf("query too long (max %d characters)", MaxQueryLength))
	}
	if r.Category != "" {
		if _, ok := AllowedCategories()[r.Category]; !ok {
			errs = append(errs, "invalid category: "+r.Category)
		}
	}
	if r.SortBy != "" {
		if _, ok := AllowedSortKeys()[r.SortBy]; !ok {
			errs = append(errs, "invalid sortBy: "+r.SortBy)
		}
	}
	if r.Page < 1 || r.Page > MaxPage {
		errs = append(errs, fmt.Sprintf("invalid page: must be between 1 and %d", MaxPage))
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		errs = append(errs, fmt.Sprintf("invalid pageSize: must be between 1 and %d", MaxPageSize))
	}
	if r.MinPrice != nil && *r.MinPrice < 0 {
		errs = append(errs, "invalid minPrice: must be non-negative")
	}
	if r.MaxPrice != nil && *r.MaxPrice < 0 {
		errs = append(errs, "invalid maxPrice: must be non-negative")
	}
	if r.MinPrice != nil && r.MaxPrice != nil && *r.MinPrice > *r.MaxPrice {
		errs = append(errs, "minPrice cannot be greater than maxPrice")
	}
	if r.MinSalary != nil && *r.MinSalary < 0 {
		errs = append(errs, "invalid minSalary: must be non-negative")
	}
	if r.MaxSalary != nil && *r.MaxSalary < 0 {
		errs = append(errs, "invalid maxSalary: must be non-negative")
	}
	if r.MinSalary != nil && r.MaxSalary != nil && *r.MinSalary > *r.MaxSalary {
		errs = append(errs, "minSalary cannot be greater than maxSalary")
	}

	for name, value := range map[string]string{
		"subcategory": r.Subcategory,
		"wilaya":      r.Wilaya,
		"city":        r.City,
		"jobType":     r.JobType,
		"companyName": r.CompanyName,
		"condition":   r.Condition,
	} {
		if utf8.RuneCountInString(value) > MaxFilterLength {
			errs = append(errs, name+" too long")
		}
	}

	return errs
}

// HasFilter reports whether at least one concrete filter constrains the
// request. A request with no filter and no query must never reach the
// query builder (full-table scan protection).
func (r SearchRequest) HasFilter() bool {
	return r.Category != "" || r.Subcategory != "" || r.Wilaya != "" || r.City != "" ||
		r.MinPrice != nil || r.MaxPrice != nil
}

// NormalizeQuery cleans raw free-text input: trims, lowercases, collapses
// whitespace runs, strips everything outside letters, digits, spaces and
// the Arabic block (U+0600..U+06FF), then truncates to MaxQueryLength
// characters. Limits count characters, not bytes, so Arabic input gets
// the same budget as Latin input.
func NormalizeQuery(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || (r >= 0x0600 && r <= 0x06FF):
			b.WriteRune(r)
			lastSpace = false
		}
	}

	out := strings.TrimRight(b.String(), " ")
	if utf8.RuneCountInString(out) > MaxQueryLength {
		runes := []rune(out)
		out = strings.TrimRight(string(runes[:MaxQueryLength]), " ")
	}
	return out
}

// EscapeLike escapes %, _ and \ so normalized user input can be embedded
// in an ILIKE pattern without acting as wildcards.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Pagination describes response paging metadata. TotalItems and TotalPages
// are nil unless a count was computed for this request.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalItems      *int `json:"totalItems"`
	TotalPages      *int `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Performance carries diagnostic metadata about how a search was served.
type Performance struct {
	ResultsCount    int      `json:"resultsCount"`
	SearchStrategy  string   `json:"searchStrategy"`
	IndexesUsed     []string `json:"indexesUsed"`
	CountStrategy   string   `json:"countStrategy"`
	ExecutionTimeMs int64    `json:"executionTimeMs"`
}

// SearchResponse is the body of a successful search request.
type SearchResponse struct {
	Listings    []Listing     `json:"listings"`
	Pagination  Pagination    `json:"pagination"`
	Filters     SearchRequest `json:"filters"`
	Performance Performance   `json:"performance"`
}

// CountResponse is the body of the dedicated count endpoint.
type CountResponse struct {
	Count   int           `json:"count"`
	Exact   bool          `json:"exact"`
	Filters SearchRequest `json:"filters"`
}
