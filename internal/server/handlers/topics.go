// internal/server/handlers/topics.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trendlens/internal/domain/topic"
)

// TopicHandler handles topic resolution HTTP requests
type TopicHandler struct {
	resolver topic.Resolver
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(resolver topic.Resolver) *TopicHandler {
	return &TopicHandler{
		resolver: resolver,
	}
}

// GetHotTopics returns the current hot topics, best source first
func (h *TopicHandler) GetHotTopics(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.resolver.HotTopics(r.Context(), limit)
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      res.Topics,
		Total:     res.Total,
		Source:    res.Provenance,
		Artifact:  res.Source,
		Timestamp: time.Now().UTC(),
	})
}

// searchRequest is the body of POST /api/topics/search
type searchRequest struct {
	Keyword string `json:"keyword"`
	Limit   int    `json:"limit"`
}

// SearchTopics returns topics matching a keyword
func (h *TopicHandler) SearchTopics(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	if strings.TrimSpace(req.Keyword) == "" {
		respondWithError(w, http.StatusBadRequest, "keyword_required")
		return
	}

	res, err := h.resolver.SearchTopics(r.Context(), req.Keyword, req.Limit)
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      res.Topics,
		Total:     res.Total,
		Source:    res.Provenance,
		Artifact:  res.Source,
		Timestamp: time.Now().UTC(),
	})
}

// GetTrendingKeywords returns keyword aggregates, hottest first
func (h *TopicHandler) GetTrendingKeywords(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.TrendingKeywords(r.Context())
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      res.Keywords,
		Source:    res.Provenance,
		Artifact:  res.Source,
		Timestamp: time.Now().UTC(),
	})
}

// GetPlatformStats returns platform-wide aggregate counters
func (h *TopicHandler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.PlatformStats(r.Context())
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      res.Stats,
		Source:    res.Provenance,
		Artifact:  res.Source,
		Timestamp: time.Now().UTC(),
	})
}
