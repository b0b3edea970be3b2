// internal/server/handlers/analysis.go

package handlers

import (
	"net/http"
	"time"

	"trendlens/internal/domain/topic"
	"trendlens/internal/service/analysis"
)

// analysisBatchSize is how many topics the analysis endpoints resolve to
// build their view of the platform.
const analysisBatchSize = 100

// AnalysisHandler serves audience-profile and trend-analysis requests over
// the currently resolvable topic batch.
type AnalysisHandler struct {
	resolver topic.Resolver
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(resolver topic.Resolver) *AnalysisHandler {
	return &AnalysisHandler{
		resolver: resolver,
	}
}

// GetUserProfile returns an audience profile computed over the resolvable batch
func (h *AnalysisHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.HotTopics(r.Context(), analysisBatchSize)
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	profile := analysis.BuildProfile(res.Topics)

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      profile,
		Source:    res.Provenance,
		Artifact:  res.Source,
		Timestamp: time.Now().UTC(),
	})
}

// GetTrends returns keyword, category and time trend analysis
func (h *AnalysisHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.resolver.TrendingKeywords(r.Context())
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	topics, err := h.resolver.HotTopics(r.Context(), analysisBatchSize)
	if err != nil {
		respondWithResolverError(w, err)
		return
	}

	report := analysis.BuildTrendReport(keywords.Keywords, topics.Topics)

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      report,
		Source:    keywords.Provenance,
		Timestamp: time.Now().UTC(),
	})
}
