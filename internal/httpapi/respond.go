package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// errorBody is the error envelope of spec §6: `{ error, message, code }`.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("httpapi: error encoding response: %v\n", err)
	}
}

// respondError writes the error envelope with slug, using one of the
// closed set of slugs from spec §6: unauthenticated, forbidden,
// rate_limited, upstream_unavailable, validation_failed, not_found,
// internal, plus warming_up for a read before the first cycle completes.
func respondError(w http.ResponseWriter, status int, slug, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: slug, Message: message, Code: status}); err != nil {
		fmt.Printf("httpapi: error encoding error response: %v\n", err)
	}
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
