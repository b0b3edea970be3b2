// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"trendlens/internal/domain/topic"
)

// response is the envelope every JSON endpoint answers with. Source carries
// the resolution provenance so callers can tell real data from fallbacks.
type response struct {
	Success   bool             `json:"success"`
	Data      any              `json:"data"`
	Total     int              `json:"total,omitempty"`
	Source    topic.Provenance `json:"source,omitempty"`
	Artifact  string           `json:"artifact,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// errorResponse is the envelope for caller errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, errCode string) {
	respondWithJSON(w, code, errorResponse{Success: false, Error: errCode})
}

// respondWithResolverError maps a resolver error onto the HTTP surface.
// Only caller input errors become 4xx; anything else is a server fault,
// which the resolver's synthetic floor should normally prevent.
func respondWithResolverError(w http.ResponseWriter, err error) {
	var ve *topic.ValidationError
	if errors.As(err, &ve) {
		respondWithError(w, http.StatusBadRequest, ve.Field+"_required")
		return
	}
	respondWithError(w, http.StatusInternalServerError, "resolution_failed")
}
