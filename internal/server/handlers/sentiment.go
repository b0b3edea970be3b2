// internal/server/handlers/sentiment.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"trendlens/internal/service/sentiment"
)

// SentimentHandler serves ad-hoc sentiment classification requests
type SentimentHandler struct {
	classifier *sentiment.Classifier
}

// NewSentimentHandler creates a new sentiment handler
func NewSentimentHandler(classifier *sentiment.Classifier) *SentimentHandler {
	return &SentimentHandler{
		classifier: classifier,
	}
}

// sentimentRequest is the body of POST /api/ai/sentiment
type sentimentRequest struct {
	Text string `json:"text"`
}

// Classify labels a piece of text as positive, negative or neutral
func (h *SentimentHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "text_required")
		return
	}

	result := h.classifier.Classify(req.Text)

	respondWithJSON(w, http.StatusOK, response{
		Success:   true,
		Data:      result,
		Timestamp: time.Now().UTC(),
	})
}
