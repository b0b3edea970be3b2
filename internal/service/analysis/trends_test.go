package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/domain/topic"
)

func keyword(name string, count, avgLikes, avgComments int) topic.KeywordTrend {
	return topic.KeywordTrend{
		Keyword:       name,
		Count:         count,
		AvgLikes:      avgLikes,
		AvgComments:   avgComments,
		AvgEngagement: (avgLikes + avgComments) / 2,
		Trend:         topic.DirectionFor(avgLikes),
		Sentiment: map[topic.Sentiment]float64{
			topic.SentimentPositive: 0.5,
			topic.SentimentNeutral:  0.3,
			topic.SentimentNegative: 0.2,
		},
	}
}

func TestBuildTrendReportKeywordTrends(t *testing.T) {
	keywords := []topic.KeywordTrend{
		keyword("skincare", 40, 240, 18),
		keyword("workout", 12, 30, 4),
	}

	report := BuildTrendReport(keywords, nil)

	require.Len(t, report.KeywordTrends, 2)
	hot := report.KeywordTrends[0]
	assert.Equal(t, "skincare", hot.Keyword)
	assert.Equal(t, 129, hot.AvgEngagement)
	assert.Equal(t, "skincare", hot.Category)
	assert.Equal(t, 30.0, hot.Growth, "strong keywords saturate at the ceiling")

	cold := report.KeywordTrends[1]
	assert.Equal(t, -9.0, cold.Growth)
}

func TestGrowthForBounds(t *testing.T) {
	assert.Equal(t, growthFloor, growthFor(0))
	assert.Equal(t, growthCeil, growthFor(10000))
	assert.Equal(t, 0.0, growthFor(75), "stable band midpoint is flat")
	assert.Less(t, growthFor(40), 0.0)
	assert.Greater(t, growthFor(110), 0.0)
}

func TestCategoryTrendsFromBatch(t *testing.T) {
	topics := []topic.Topic{
		{Category: "food", LikeCount: 200, CommentCount: 20, PublishTime: at(9)},
		{Category: "food", LikeCount: 400, CommentCount: 40, PublishTime: at(10)},
		{Category: "fitness", LikeCount: 20, CommentCount: 2, PublishTime: at(20)},
	}

	report := BuildTrendReport(nil, topics)

	require.Len(t, report.CategoryTrends, 2)
	food := report.CategoryTrends[0]
	assert.Equal(t, "food", food.Category)
	assert.Equal(t, 2, food.Count)
	assert.Equal(t, 165, food.AvgEngagement)
	assert.Equal(t, topic.TrendUp, food.Direction)

	fitness := report.CategoryTrends[1]
	assert.Equal(t, topic.TrendDown, fitness.Direction)
}

func TestTimeAnalysisPeakSlot(t *testing.T) {
	topics := []topic.Topic{
		{PublishTime: at(20)},
		{PublishTime: at(21)},
		{PublishTime: at(9)},
	}

	report := BuildTrendReport(nil, topics)

	assert.Equal(t, SlotEvening, report.TimeAnalysis.PeakSlot)
	require.Len(t, report.TimeAnalysis.Slots, 2)
	assert.Equal(t, 2, report.TimeAnalysis.Slots[0].Count)
	assert.Equal(t, 66.7, report.TimeAnalysis.Slots[0].Percentage)
}

func TestPredictionsRankedAndCapped(t *testing.T) {
	keywords := []topic.KeywordTrend{
		keyword("a", 100, 10, 2),
		keyword("b", 30, 300, 50),
		keyword("c", 5, 80, 10),
		keyword("d", 2, 60, 5),
		keyword("e", 1, 40, 3),
		keyword("f", 1, 20, 1),
	}

	report := BuildTrendReport(keywords, nil)

	require.Len(t, report.Predictions, predictionLimit)
	best := report.Predictions[0]
	assert.Equal(t, "b", best.Keyword, "ranked by average engagement")
	assert.Equal(t, topic.TrendUp, best.Direction)
	assert.Equal(t, 0.8, best.Confidence)

	for _, p := range report.Predictions {
		assert.GreaterOrEqual(t, p.Confidence, 0.5)
		assert.LessOrEqual(t, p.Confidence, 0.9)
	}
}

func TestPredictionConfidenceCapped(t *testing.T) {
	report := BuildTrendReport([]topic.KeywordTrend{keyword("huge", 500, 200, 20)}, nil)

	require.Len(t, report.Predictions, 1)
	assert.Equal(t, 0.9, report.Predictions[0].Confidence)
}

func TestBuildTrendReportEmptyInputs(t *testing.T) {
	report := BuildTrendReport(nil, nil)

	assert.NotNil(t, report.KeywordTrends)
	assert.Empty(t, report.KeywordTrends)
	assert.NotNil(t, report.CategoryTrends)
	assert.NotNil(t, report.Predictions)
	assert.Empty(t, report.TimeAnalysis.PeakSlot)
}

func TestBuildTrendReportDeterministic(t *testing.T) {
	keywords := []topic.KeywordTrend{keyword("x", 10, 120, 15), keyword("y", 8, 45, 6)}
	topics := []topic.Topic{{Category: "food", LikeCount: 150, PublishTime: at(14)}}

	first := BuildTrendReport(keywords, topics)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildTrendReport(keywords, topics))
	}
}
