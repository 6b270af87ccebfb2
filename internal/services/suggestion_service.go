package services

import (
	"context"
	"sort"
	"strings"

	"marketdz/internal/models"
)

// SuggestionSource serves live title-prefix matches for autocomplete.
type SuggestionSource interface {
	TitleSuggestions(ctx context.Context, prefix, category string, limit int) ([]string, error)
}

// categoryVocabulary holds the curated per-category terms. Static data,
// not backend-derived.
var categoryVocabulary = map[string][]string{
	models.CategoryForSale: {
		"smartphone", "laptop", "voiture", "appartement", "meuble",
		"télévision", "ordinateur", "tablette", "vêtements", "chaussures",
	},
	models.CategoryJob: {
		"développeur", "manager", "professeur", "chauffeur", "ingénieur",
		"commercial", "comptable", "médecin", "architecte", "technicien",
	},
	models.CategoryService: {
		"nettoyage", "réparation", "cours", "design", "photographie",
		"plomberie", "électricité", "jardinage", "peinture", "massage",
	},
	models.CategoryForRent: {
		"appartement", "maison", "voiture", "bureau", "équipement",
		"villa", "studio", "garage", "magasin", "terrain",
	},
}

// trendingSearches by category. Placeholder until analytics feed it.
var trendingSearches = map[string][]string{
	models.CategoryForSale: {"iPhone", "laptop", "voiture", "appartement", "meuble"},
	models.CategoryJob:     {"développeur", "manager", "professeur", "chauffeur", "ingénieur"},
	models.CategoryService: {"nettoyage", "réparation", "cours", "design", "photographie"},
	models.CategoryForRent: {"appartement", "maison", "voiture", "bureau", "équipement"},
}

type SuggestionService struct {
	Listings SuggestionSource
}

// Suggest combines live title matches, the curated vocabulary and
// trending terms into one deduplicated, ranked list. Queries shorter
// than the minimum never reach the backend.
func (s *SuggestionService) Suggest(ctx context.Context, req models.SuggestionRequest) (models.SuggestionResponse, error) {
	query := models.NormalizeQuery(req.Query)
	resp := models.SuggestionResponse{Suggestions: []string{}, Query: query}

	if len([]rune(query)) < models.MinSuggestionQueryLength {
		return resp, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = models.DefaultSuggestionLimit
	}
	if limit > models.MaxSuggestionLimit {
		limit = models.MaxSuggestionLimit
	}

	seen := make(map[string]struct{})
	var candidates []string
	add := func(term string) {
		trimmed := strings.TrimSpace(term)
		if len([]rune(trimmed)) < 3 {
			return
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, trimmed)
	}

	titles, err := s.Listings.TitleSuggestions(ctx, query, req.Category, limit)
	if err != nil {
		return models.SuggestionResponse{}, err
	}
	for _, title := range titles {
		add(title)
	}

	if req.Category != "" {
		for _, term := range categoryVocabulary[req.Category] {
			lower := strings.ToLower(term)
			if strings.Contains(lower, query) || strings.Contains(query, lower) {
				add(term)
			}
		}
	}

	for _, term := range trendingSearches[req.Category] {
		if strings.Contains(strings.ToLower(term), query) {
			add(term)
		}
	}

	rankSuggestions(candidates, query)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	resp.Suggestions = candidates
	return resp, nil
}

// rankSuggestions orders exact-prefix matches first, then shorter terms,
// then lexically for a deterministic tail.
func rankSuggestions(terms []string, query string) {
	sort.SliceStable(terms, func(i, j int) bool {
		a, b := strings.ToLower(terms[i]), strings.ToLower(terms[j])
		aPrefix := strings.HasPrefix(a, query)
		bPrefix := strings.HasPrefix(b, query)
		if aPrefix != bPrefix {
			return aPrefix
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
}
