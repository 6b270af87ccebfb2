package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationError(w http.ResponseWriter, details []string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Invalid search parameters",
		"details": details,
	})
}

// parseIntParam parses an integer parameter. Malformed values are
// reported, not silently defaulted, so client bugs surface immediately.
func parseIntParam(input string, fallback int) (int, bool) {
	if input == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(input)
	if err != nil {
		return fallback, false
	}
	return value, true
}

// parseFloatParam parses an optional numeric filter.
func parseFloatParam(input string) (*float64, bool) {
	if input == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return nil, false
	}
	return &value, true
}
