// internal/service/scoring/scorer.go

// Package scoring turns raw engagement counters into ranking weights and
// bounded trend scores.
package scoring

import (
	"math"
	"sort"
	"time"

	"trendlens/internal/domain/topic"
)

// Composite weight coefficients. The weight orders topics within a batch and
// is distinct from the stored bounded score.
const (
	weightComments = 3
	weightShares   = 5
)

// Bounded score coefficients.
const (
	engagementComments = 5
	engagementShares   = 10
	engagementDivisor  = 1000.0
	engagementShare    = 0.7
	recencyShare       = 0.3
	// Recency loses 10 points per day of age under linear decay.
	recencyLossPerDay = 10.0
	hoursPerDay       = 24.0
)

// CompositeWeight returns the ranking weight likes + 3*comments + 5*shares.
func CompositeWeight(t topic.Topic) int64 {
	return int64(t.LikeCount) + weightComments*int64(t.CommentCount) + weightShares*int64(t.ShareCount)
}

// SortByCompositeWeight orders topics descending by composite weight.
// The sort is stable: equal weights keep their original relative order.
func SortByCompositeWeight(topics []topic.Topic) {
	sort.SliceStable(topics, func(i, j int) bool {
		return CompositeWeight(topics[i]) > CompositeWeight(topics[j])
	})
}

// Strategy computes a bounded trend score from engagement counters and the
// elapsed time since publication. Implementations must return values in
// [0,100], non-decreasing in engagement for fixed age and non-increasing in
// age for fixed engagement.
type Strategy interface {
	Name() string
	Score(likes, comments, shares int, age time.Duration) float64
}

// ForStrategy returns the strategy registered under name, defaulting to
// linear decay for unknown names.
func ForStrategy(name string) Strategy {
	if name == "exponential" {
		return ExponentialDecay{}
	}
	return LinearDecay{}
}

// LinearDecay is the default strategy: an engagement component
// E = min(100, (likes + 5*comments + 10*shares)/1000) blended with a recency
// component T = max(0, 100 - ageDays*10) as round1(0.7E + 0.3T).
type LinearDecay struct{}

func (LinearDecay) Name() string { return "linear" }

func (LinearDecay) Score(likes, comments, shares int, age time.Duration) float64 {
	e := engagement(likes, comments, shares)
	t := math.Max(0, 100-ageDays(age)*recencyLossPerDay)
	return clamp(round1(e*engagementShare + t*recencyShare))
}

// ExponentialDecay replaces the linear recency ramp with 100*exp(-ageDays/10).
// Same contract: bounded, monotone in engagement, non-increasing in age.
type ExponentialDecay struct{}

func (ExponentialDecay) Name() string { return "exponential" }

func (ExponentialDecay) Score(likes, comments, shares int, age time.Duration) float64 {
	e := engagement(likes, comments, shares)
	t := 100 * math.Exp(-ageDays(age)/10)
	return clamp(round1(e*engagementShare + t*recencyShare))
}

// ScoreTopic applies the strategy to a topic against the reference time now.
func ScoreTopic(s Strategy, t topic.Topic, now time.Time) float64 {
	age := now.Sub(t.PublishTime)
	if age < 0 {
		age = 0
	}
	return s.Score(t.LikeCount, t.CommentCount, t.ShareCount, age)
}

func engagement(likes, comments, shares int) float64 {
	raw := float64(likes) + engagementComments*float64(comments) + engagementShares*float64(shares)
	return math.Min(100, raw/engagementDivisor)
}

func ageDays(age time.Duration) float64 {
	if age < 0 {
		return 0
	}
	return age.Hours() / hoursPerDay
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp(x float64) float64 {
	return math.Max(0, math.Min(100, x))
}
