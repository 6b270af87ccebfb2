package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"marketdz/internal/models"
	"marketdz/internal/services"
)

type SearchHandler struct {
	Service  *services.SearchService
	ErrorLog *log.Logger
}

// parseSearchRequest builds a SearchRequest from query parameters,
// collecting malformed-number errors instead of silently defaulting them.
func parseSearchRequest(r *http.Request) (models.SearchRequest, []string) {
	var errs []string
	params := r.URL.Query()

	req := models.SearchRequest{
		Query:         strings.TrimSpace(params.Get("q")),
		Category:      strings.TrimSpace(params.Get("category")),
		Subcategory:   strings.TrimSpace(params.Get("subcategory")),
		Wilaya:        strings.TrimSpace(params.Get("wilaya")),
		City:          strings.TrimSpace(params.Get("city")),
		AvailableFrom: strings.TrimSpace(params.Get("availableFrom")),
		AvailableTo:   strings.TrimSpace(params.Get("availableTo")),
		RentalPeriod:  strings.TrimSpace(params.Get("rentalPeriod")),
		JobType:       strings.TrimSpace(params.Get("jobType")),
		CompanyName:   strings.TrimSpace(params.Get("companyName")),
		Condition:     strings.TrimSpace(params.Get("condition")),
		SortBy:        strings.TrimSpace(params.Get("sortBy")),
		Fuzzy:         params.Get("fuzzy") == "true",
	}

	var ok bool
	if req.MinPrice, ok = parseFloatParam(params.Get("minPrice")); !ok {
		errs = append(errs, "invalid minPrice: not a number")
	}
	if req.MaxPrice, ok = parseFloatParam(params.Get("maxPrice")); !ok {
		errs = append(errs, "invalid maxPrice: not a number")
	}
	if req.MinSalary, ok = parseFloatParam(params.Get("minSalary")); !ok {
		errs = append(errs, "invalid minSalary: not a number")
	}
	if req.MaxSalary, ok = parseFloatParam(params.Get("maxSalary")); !ok {
		errs = append(errs, "invalid maxSalary: not a number")
	}
	if req.Page, ok = parseIntParam(params.Get("page"), 1); !ok {
		errs = append(errs, "invalid page: not an integer")
	}
	if req.PageSize, ok = parseIntParam(params.Get("pageSize"), models.DefaultPageSize); !ok {
		errs = append(errs, "invalid pageSize: not an integer")
	}
	return req, errs
}

// Search serves GET /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, errs := parseSearchRequest(r)
	if len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	resp, err := h.Service.Search(r.Context(), req)
	if err != nil {
		h.respondSearchError(w, r, err)
		return
	}

	// Public responses are briefly cacheable at the edge.
	w.Header().Set("Cache-Control", "public, max-age=30, s-maxage=60, stale-while-revalidate=120")
	writeJSON(w, http.StatusOK, resp)
}

// Count serves GET /api/search/count. It accepts the same filters minus
// pagination and tolerates ?exact=true for a precise total.
func (h *SearchHandler) Count(w http.ResponseWriter, r *http.Request) {
	req, errs := parseSearchRequest(r)
	if len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}
	req.Page = 1
	req.PageSize = models.DefaultPageSize

	resp, err := h.Service.Count(r.Context(), req, r.URL.Query().Get("exact") == "true")
	if err != nil {
		h.respondSearchError(w, r, err)
		return
	}

	// Counts change slower than content; cache them longer.
	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=60")
	writeJSON(w, http.StatusOK, resp)
}

// respondSearchError translates pipeline errors into client responses.
// Internal error detail never reaches untrusted callers.
func (h *SearchHandler) respondSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeValidationError(w, validationErr.Details)
	case errors.Is(err, models.ErrEmptySearch):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":      "Please select at least one filter (category, location, or price) or enter a search term",
			"suggestion": "Try selecting a category or location first",
		})
	case errors.Is(err, models.ErrStrategyUnavailable):
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("%s %s: %v", r.Method, r.URL.RequestURI(), err)
		}
		writeError(w, http.StatusInternalServerError, "Search is temporarily unavailable")
	default:
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("%s %s: %v", r.Method, r.URL.RequestURI(), err)
		}
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
