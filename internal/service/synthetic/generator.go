// internal/service/synthetic/generator.go

// Package synthetic produces plausible placeholder data when every real tier
// fails. It has no external dependencies and never fails, which makes it the
// resolver's floor.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"trendlens/internal/domain/topic"
	"trendlens/internal/service/scoring"
)

// Closed vocabularies for placeholder content.
var (
	categories = []string{"fashion", "beauty", "lifestyle", "food", "travel", "fitness", "study", "pets"}
	keywords   = []string{"outfit", "skincare", "finds", "recipes", "itinerary", "workout", "notes", "puppy"}
)

// Counter ranges for synthetic topics.
const (
	likeMin, likeSpan       = 1000, 50000
	commentMin, commentSpan = 50, 1000
	shareMin, shareSpan     = 10, 500
	viewMin, viewSpan       = 5000, 100000
	publishWindow           = 7 * 24 * time.Hour
)

// Sentiment draw weights: 30% positive, 40% neutral, 30% negative.
const (
	positiveWeight = 0.30
	neutralWeight  = 0.40
)

// Generator synthesizes topics, stats and keyword trends. Zero-value
// construction is seed-free; seeded construction is reproducible for tests.
type Generator struct {
	rng    *rand.Rand
	scorer scoring.Strategy
	now    func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSeed makes the generator reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a synthetic data generator.
func NewGenerator(scorer scoring.Strategy, opts ...Option) *Generator {
	g := &Generator{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		scorer: scorer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Topics synthesizes count placeholder topics sorted by trend score.
func (g *Generator) Topics(count int) []topic.Topic {
	now := g.now()
	topics := make([]topic.Topic, 0, count)

	for i := 0; i < count; i++ {
		category := categories[g.rng.Intn(len(categories))]
		keyword := keywords[g.rng.Intn(len(keywords))]

		t := topic.Topic{
			ID:           fmt.Sprintf("synthetic_%s", uuid.NewString()),
			Title:        fmt.Sprintf("%s picks #%d", keyword, i+1),
			Content:      fmt.Sprintf("a roundup of %s ideas with notes from this week", category),
			Author:       fmt.Sprintf("creator_%03d", g.rng.Intn(1000)),
			PublishTime:  now.Add(-time.Duration(g.rng.Int63n(int64(publishWindow)))),
			LikeCount:    likeMin + g.rng.Intn(likeSpan+1),
			CommentCount: commentMin + g.rng.Intn(commentSpan+1),
			ShareCount:   shareMin + g.rng.Intn(shareSpan+1),
			ViewCount:    viewMin + g.rng.Intn(viewSpan+1),
			Category:     category,
			Tags:         []string{keyword, category},
			Sentiment:    g.drawSentiment(),
			Provenance:   topic.ProvenanceSynthetic,
		}
		t.TrendScore = scoring.ScoreTopic(g.scorer, t, now)
		topics = append(topics, t)
	}

	scoring.SortByCompositeWeight(topics)
	return topics
}

// SearchTopics synthesizes topics tagged with the searched keyword so the
// search surface degrades like every other request kind.
func (g *Generator) SearchTopics(keyword string, count int) []topic.Topic {
	topics := g.Topics(count)
	for i := range topics {
		topics[i].Title = fmt.Sprintf("%s: %s", keyword, topics[i].Title)
		topics[i].Tags = append([]string{keyword}, topics[i].Tags...)
	}
	return topics
}

// Stats synthesizes platform counters from the documented ranges.
func (g *Generator) Stats() topic.PlatformStats {
	return topic.PlatformStats{
		TotalNotes:        80000 + g.rng.Int63n(50001),
		ActiveUsers:       2_000_000 + g.rng.Int63n(1_000_001),
		DailyPosts:        50000 + g.rng.Int63n(30001),
		TotalInteractions: 1_000_000 + g.rng.Int63n(500_001),
		GrowthRate: topic.GrowthRate{
			Notes:        round1((g.rng.Float64() - 0.5) * 30),
			Users:        round1((g.rng.Float64() - 0.5) * 20),
			Interactions: round1((g.rng.Float64() - 0.5) * 40),
		},
	}
}

// Keywords synthesizes one trend entry per keyword stem.
func (g *Generator) Keywords() []topic.KeywordTrend {
	trends := make([]topic.KeywordTrend, 0, len(keywords))
	for _, kw := range keywords {
		avgLikes := 20 + g.rng.Intn(300)
		avgComments := 5 + g.rng.Intn(60)
		pos := 0.2 + g.rng.Float64()*0.4
		neg := (1 - pos) * g.rng.Float64() * 0.5

		trends = append(trends, topic.KeywordTrend{
			Keyword:       kw,
			Count:         10 + g.rng.Intn(500),
			AvgLikes:      avgLikes,
			AvgComments:   avgComments,
			AvgEngagement: (avgLikes + avgComments) / 2,
			Trend:         topic.DirectionFor(avgLikes),
			Sentiment: map[topic.Sentiment]float64{
				topic.SentimentPositive: round2(pos),
				topic.SentimentNegative: round2(neg),
				topic.SentimentNeutral:  round2(1 - pos - neg),
			},
		})
	}
	return trends
}

func (g *Generator) drawSentiment() topic.Sentiment {
	switch draw := g.rng.Float64(); {
	case draw < positiveWeight:
		return topic.SentimentPositive
	case draw < positiveWeight+neutralWeight:
		return topic.SentimentNeutral
	default:
		return topic.SentimentNegative
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
