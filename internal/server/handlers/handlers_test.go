package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendlens/internal/config"
	"trendlens/internal/domain/topic"
	"trendlens/internal/server"
	"trendlens/internal/service/sentiment"
)

// stubResolver answers from fixed results and records the requests it saw.
type stubResolver struct {
	topics    *topic.TopicResult
	keywords  *topic.KeywordResult
	stats     *topic.StatsResult
	lastLimit int
	lastQuery string
}

func (s *stubResolver) HotTopics(_ context.Context, limit int) (*topic.TopicResult, error) {
	s.lastLimit = limit
	return s.topics, nil
}

func (s *stubResolver) SearchTopics(_ context.Context, keyword string, limit int) (*topic.TopicResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, topic.NewValidationError("keyword", "must not be empty")
	}
	s.lastQuery = keyword
	s.lastLimit = limit
	return s.topics, nil
}

func (s *stubResolver) TrendingKeywords(context.Context) (*topic.KeywordResult, error) {
	return s.keywords, nil
}

func (s *stubResolver) PlatformStats(context.Context) (*topic.StatsResult, error) {
	return s.stats, nil
}

func fixtureResolver() *stubResolver {
	return &stubResolver{
		topics: &topic.TopicResult{
			Topics: []topic.Topic{
				{ID: "t1", Title: "first", Category: "food", LikeCount: 900,
					Sentiment: topic.SentimentPositive, TrendScore: 71.2,
					PublishTime: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)},
				{ID: "t2", Title: "second", Category: "travel", LikeCount: 120,
					Sentiment: topic.SentimentNeutral, TrendScore: 44.0,
					PublishTime: time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)},
			},
			Provenance: topic.ProvenanceMassArtifact,
			Source:     "mass_real_notes.json",
			Total:      2,
		},
		keywords: &topic.KeywordResult{
			Keywords: []topic.KeywordTrend{
				{Keyword: "skincare", Count: 40, AvgLikes: 220, AvgComments: 18,
					AvgEngagement: 119, Trend: topic.TrendUp},
			},
			Provenance: topic.ProvenanceLegacyArtifact,
			Source:     "keyword_analysis.json",
		},
		stats: &topic.StatsResult{
			Stats:      topic.PlatformStats{TotalNotes: 91000, ActiveUsers: 2100000},
			Provenance: topic.ProvenanceSynthetic,
		},
	}
}

func newTestServer(t *testing.T, resolver *stubResolver) http.Handler {
	t.Helper()
	srv := server.NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 8080, CorsOrigins: []string{"*"}},
		resolver,
		sentiment.NewClassifier(sentiment.DefaultConfig()),
		nil,
		"trendlens.resolution",
		prometheus.NewRegistry(),
		zap.NewNop(),
	)
	return srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, _ := doJSON(t, h, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetHotTopics(t *testing.T) {
	resolver := fixtureResolver()
	h := newTestServer(t, resolver)

	rec, payload := doJSON(t, h, http.MethodGet, "/api/topics/hot?limit=3", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, resolver.lastLimit)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "mass_artifact", payload["source"])
	assert.Equal(t, "mass_real_notes.json", payload["artifact"])
	assert.Equal(t, float64(2), payload["total"])

	data, ok := payload["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "t1", first["id"])
	assert.Equal(t, 71.2, first["trendScore"])
}

func TestSearchTopics(t *testing.T) {
	resolver := fixtureResolver()
	h := newTestServer(t, resolver)

	rec, payload := doJSON(t, h, http.MethodPost, "/api/topics/search",
		`{"keyword":"matcha","limit":5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "matcha", resolver.lastQuery)
	assert.Equal(t, 5, resolver.lastLimit)
	assert.Equal(t, true, payload["success"])
}

func TestSearchTopicsEmptyKeyword(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodPost, "/api/topics/search", `{"keyword":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "keyword_required", payload["error"])
}

func TestSearchTopicsMalformedBody(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodPost, "/api/topics/search", `{"keyword":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", payload["error"])
}

func TestGetTrendingKeywords(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodGet, "/api/keywords/trending", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "legacy_artifact", payload["source"])
	data := payload["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "skincare", data[0].(map[string]any)["keyword"])
}

func TestGetPlatformStats(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodGet, "/api/stats/platform", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "synthetic", payload["source"])
	data := payload["data"].(map[string]any)
	assert.Equal(t, float64(91000), data["totalNotes"])
}

func TestGetUserProfile(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodGet, "/api/analysis/user-profile", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]any)
	assert.Equal(t, float64(2), data["totalNotes"])
	cats := data["topCategories"].([]any)
	require.Len(t, cats, 2)
}

func TestGetTrendAnalysis(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodGet, "/api/analysis/trends", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]any)
	kw := data["keywordTrends"].([]any)
	require.Len(t, kw, 1)
	assert.Equal(t, "skincare", kw[0].(map[string]any)["keyword"])
	assert.NotNil(t, data["predictions"])
}

func TestClassifySentiment(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodPost, "/api/ai/sentiment",
		`{"text":"this is amazing and totally worth it"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "positive", data["sentiment"])
}

func TestClassifySentimentEmptyText(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, payload := doJSON(t, h, http.MethodPost, "/api/ai/sentiment", `{"text":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text_required", payload["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, fixtureResolver())

	rec, _ := doJSON(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
