package models

const (
	MinSuggestionQueryLength = 2
	DefaultSuggestionLimit   = 10
	MaxSuggestionLimit       = 20
)

// SuggestionRequest describes an autocomplete lookup.
type SuggestionRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit"`
}

// SuggestionResponse is the body of the suggestions endpoint. Query echoes
// the normalized form actually used for matching.
type SuggestionResponse struct {
	Suggestions []string `json:"suggestions"`
	Query       string   `json:"query"`
}
