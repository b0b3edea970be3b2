package assemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trendlens/internal/domain/topic"
)

func TestAssembleSnakeCaseRecord(t *testing.T) {
	raw := Raw{
		"id":            "note_1",
		"title":         "weekend outfit ideas",
		"content":       "three looks for spring",
		"author":        "mia",
		"publish_time":  "2026-08-20T10:00:00Z",
		"like_count":    float64(1200),
		"comment_count": float64(40),
		"share_count":   float64(12),
		"view_count":    float64(9000),
		"category":      "fashion",
		"tags":          []any{"outfit", "spring"},
		"sentiment":     "positive",
	}

	got := Topic(raw, topic.ProvenanceMassArtifact)

	assert.Equal(t, "note_1", got.ID)
	assert.Equal(t, "weekend outfit ideas", got.Title)
	assert.Equal(t, "mia", got.Author)
	assert.Equal(t, 1200, got.LikeCount)
	assert.Equal(t, 40, got.CommentCount)
	assert.Equal(t, 12, got.ShareCount)
	assert.Equal(t, 9000, got.ViewCount)
	assert.Equal(t, "fashion", got.Category)
	assert.Equal(t, []string{"outfit", "spring"}, got.Tags)
	assert.Equal(t, topic.SentimentPositive, got.Sentiment)
	assert.Equal(t, topic.ProvenanceMassArtifact, got.Provenance)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), got.PublishTime.UTC())
}

func TestAssembleCamelCaseRecord(t *testing.T) {
	raw := Raw{
		"id":           "note_2",
		"likeCount":    float64(300),
		"commentCount": float64(5),
		"publishTime":  "2026-08-25T08:30:00Z",
	}

	got := Topic(raw, topic.ProvenanceLegacyArtifact)

	assert.Equal(t, 300, got.LikeCount)
	assert.Equal(t, 5, got.CommentCount)
}

func TestAssembleNestedInteractInfoWithStringCounters(t *testing.T) {
	raw := Raw{
		"id":    "note_3",
		"title": "city food crawl",
		"desc":  "five stalls you cannot miss",
		"time":  float64(1755600000), // unix seconds
		"interact_info": map[string]any{
			"liked_count":   "8421",
			"comment_count": "213",
			"share_count":   "97",
		},
		"user": map[string]any{"nickname": "ken"},
		"tag_list": []any{
			map[string]any{"name": "food", "type": "category"},
			map[string]any{"name": "street"},
		},
	}

	got := Topic(raw, topic.ProvenanceGenerator)

	assert.Equal(t, 8421, got.LikeCount)
	assert.Equal(t, 213, got.CommentCount)
	assert.Equal(t, 97, got.ShareCount)
	assert.Equal(t, "ken", got.Author)
	assert.Equal(t, "five stalls you cannot miss", got.Content)
	assert.Equal(t, []string{"food", "street"}, got.Tags)
	assert.Equal(t, int64(1755600000), got.PublishTime.Unix())
}

func TestAssembleDefaults(t *testing.T) {
	got := Topic(Raw{"id": "bare"}, topic.ProvenanceSynthetic)

	assert.Zero(t, got.LikeCount)
	assert.Zero(t, got.CommentCount)
	assert.Zero(t, got.ShareCount)
	assert.Zero(t, got.ViewCount)
	assert.Equal(t, topic.DefaultCategory, got.Category)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	// No source label: left empty for the resolver to classify.
	assert.Empty(t, got.Sentiment)
}

func TestAssemblePlatformStats(t *testing.T) {
	got := PlatformStats(Raw{
		"total_notes":        float64(90000),
		"activeUsers":        float64(2_400_000),
		"daily_posts":        float64(61000),
		"total_interactions": float64(1_200_000),
		"growth_rate": map[string]any{
			"notes":        5.2,
			"users":        -1.1,
			"interactions": 8.0,
		},
	})

	assert.Equal(t, int64(90000), got.TotalNotes)
	assert.Equal(t, int64(2_400_000), got.ActiveUsers)
	assert.Equal(t, int64(61000), got.DailyPosts)
	assert.Equal(t, int64(1_200_000), got.TotalInteractions)
	assert.InDelta(t, 5.2, got.GrowthRate.Notes, 1e-9)
	assert.InDelta(t, -1.1, got.GrowthRate.Users, 1e-9)
}

func TestAssembleClampsNegativeAndOversized(t *testing.T) {
	raw := Raw{
		"like_count": float64(-50),
		"trendScore": float64(180),
	}

	got := Topic(raw, topic.ProvenanceSynthetic)

	assert.Equal(t, 0, got.LikeCount)
	assert.Equal(t, 100.0, got.TrendScore)
}

func TestAssembleIdempotent(t *testing.T) {
	canonical := Raw{
		"id":           "note_9",
		"title":        "trail review",
		"content":      "a quiet loop with a view",
		"author":       "ana",
		"publishTime":  "2026-08-28T12:00:00Z",
		"likeCount":    float64(77),
		"commentCount": float64(3),
		"shareCount":   float64(1),
		"viewCount":    float64(410),
		"category":     "travel",
		"tags":         []any{"hike"},
		"sentiment":    "neutral",
		"trendScore":   float64(41.5),
	}

	first := Topic(canonical, topic.ProvenanceMassArtifact)
	second := Topic(canonical, topic.ProvenanceMassArtifact)

	assert.Equal(t, first, second)
	assert.Equal(t, 41.5, first.TrendScore)
	assert.Equal(t, "travel", first.Category)
}

func TestAssembleKeywordTrend(t *testing.T) {
	kt := KeywordTrend("skincare", Raw{
		"count":        float64(34),
		"avg_likes":    float64(220),
		"avg_comments": float64(18),
		"sentiment_distribution": map[string]any{
			"positive": 0.5,
			"neutral":  0.3,
			"negative": 0.2,
		},
	})

	assert.Equal(t, "skincare", kt.Keyword)
	assert.Equal(t, 34, kt.Count)
	assert.Equal(t, 220, kt.AvgLikes)
	assert.Equal(t, topic.TrendUp, kt.Trend)
	assert.Equal(t, (220+18)/2, kt.AvgEngagement)
	assert.InDelta(t, 0.5, kt.Sentiment[topic.SentimentPositive], 1e-9)
}

func TestKeywordTrendDirections(t *testing.T) {
	cases := []struct {
		avgLikes int
		want     topic.TrendDirection
	}{
		{220, topic.TrendUp},
		{101, topic.TrendUp},
		{100, topic.TrendStable},
		{50, topic.TrendStable},
		{49, topic.TrendDown},
		{0, topic.TrendDown},
	}

	for _, tc := range cases {
		kt := KeywordTrend("k", Raw{"avg_likes": float64(tc.avgLikes)})
		assert.Equal(t, tc.want, kt.Trend, "avgLikes=%d", tc.avgLikes)
	}
}
