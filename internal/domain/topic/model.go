// internal/domain/topic/model.go

package topic

import (
	"time"
)

// Sentiment is the label assigned to a piece of content by the classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Provenance identifies which resolution tier produced a result. Every
// response carries one so callers can tell real data from fallbacks.
type Provenance string

const (
	ProvenanceMassArtifact   Provenance = "mass_artifact"
	ProvenanceLegacyArtifact Provenance = "legacy_artifact"
	ProvenanceArtifactSearch Provenance = "artifact_search"
	ProvenanceGenerator      Provenance = "generator"
	ProvenanceSynthetic      Provenance = "synthetic"
)

// DefaultCategory is assigned when a source record carries no category.
const DefaultCategory = "uncategorized"

// Categories is the fixed taxonomy for topic categories.
var Categories = []string{
	"fashion", "beauty", "lifestyle", "food",
	"travel", "fitness", "study", "pets", "other",
}

// Topic is the canonical shape for a single piece of trending content.
// Topics are built fresh per request and never mutated after construction.
type Topic struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Author       string     `json:"author"`
	PublishTime  time.Time  `json:"publishTime"`
	LikeCount    int        `json:"likeCount"`
	CommentCount int        `json:"commentCount"`
	ShareCount   int        `json:"shareCount"`
	ViewCount    int        `json:"viewCount"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	Sentiment    Sentiment  `json:"sentiment"`
	TrendScore   float64    `json:"trendScore"`
	Provenance   Provenance `json:"provenance"`
}

// TrendDirection describes where a keyword is heading.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// KeywordTrend aggregates engagement for a single keyword.
type KeywordTrend struct {
	Keyword       string                `json:"keyword"`
	Count         int                   `json:"count"`
	AvgLikes      int                   `json:"avgLikes"`
	AvgComments   int                   `json:"avgComments"`
	AvgEngagement int                   `json:"avgEngagement"`
	Trend         TrendDirection        `json:"trend"`
	Sentiment     map[Sentiment]float64 `json:"sentiment"`
}

// Keyword trend direction thresholds on average likes.
const (
	TrendUpThreshold   = 100
	TrendDownThreshold = 50
)

// DirectionFor derives a trend direction from average likes.
func DirectionFor(avgLikes int) TrendDirection {
	switch {
	case avgLikes > TrendUpThreshold:
		return TrendUp
	case avgLikes < TrendDownThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// GrowthRate holds the per-counter growth percentages for platform stats.
type GrowthRate struct {
	Notes        float64 `json:"notes"`
	Users        float64 `json:"users"`
	Interactions float64 `json:"interactions"`
}

// PlatformStats holds platform-wide aggregate counters.
type PlatformStats struct {
	TotalNotes        int64      `json:"totalNotes"`
	ActiveUsers       int64      `json:"activeUsers"`
	DailyPosts        int64      `json:"dailyPosts"`
	TotalInteractions int64      `json:"totalInteractions"`
	GrowthRate        GrowthRate `json:"growthRate"`
}
