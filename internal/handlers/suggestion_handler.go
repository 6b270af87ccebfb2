package handlers

import (
	"log"
	"net/http"
	"strings"

	"marketdz/internal/models"
	"marketdz/internal/services"
)

type SuggestionHandler struct {
	Service  *services.SuggestionService
	ErrorLog *log.Logger
}

// Suggestions serves GET /api/search/suggestions.
func (h *SuggestionHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	category := strings.TrimSpace(params.Get("category"))
	if category != "" {
		if _, ok := models.AllowedCategories()[category]; !ok {
			writeError(w, http.StatusBadRequest, "invalid category: "+category)
			return
		}
	}

	limit, ok := parseIntParam(params.Get("limit"), models.DefaultSuggestionLimit)
	if !ok || limit < 1 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	req := models.SuggestionRequest{
		Query:    strings.TrimSpace(params.Get("q")),
		Category: category,
		Limit:    limit,
	}

	resp, err := h.Service.Suggest(r.Context(), req)
	if err != nil {
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("%s %s: %v", r.Method, r.URL.RequestURI(), err)
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}

	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=60")
	writeJSON(w, http.StatusOK, resp)
}
