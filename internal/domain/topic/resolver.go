// internal/domain/topic/resolver.go

package topic

import (
	"context"
)

// Kind names a resolvable request type.
type Kind string

const (
	KindTopics   Kind = "topics"
	KindSearch   Kind = "search"
	KindKeywords Kind = "keywords"
	KindStats    Kind = "stats"
)

// Params carries kind-specific request parameters.
type Params struct {
	Limit   int
	Keyword string
	Count   int
}

// TopicResult is a resolved batch of topics with its provenance.
type TopicResult struct {
	Topics     []Topic    `json:"topics"`
	Provenance Provenance `json:"provenance"`
	Source     string     `json:"source"`
	Total      int        `json:"total"`
}

// KeywordResult is a resolved keyword trend list with its provenance.
type KeywordResult struct {
	Keywords   []KeywordTrend `json:"keywords"`
	Provenance Provenance     `json:"provenance"`
	Source     string         `json:"source"`
}

// StatsResult is a resolved stats payload with its provenance.
type StatsResult struct {
	Stats      PlatformStats `json:"stats"`
	Provenance Provenance    `json:"provenance"`
	Source     string        `json:"source"`
}

// Resolver answers trending-content requests from an ordered cascade of
// tiers. The first tier that succeeds wins; the synthetic floor means a
// resolver never fails unless misconfigured.
type Resolver interface {
	// HotTopics returns topics sorted by composite weight, truncated to limit.
	HotTopics(ctx context.Context, limit int) (*TopicResult, error)

	// SearchTopics returns topics matching a keyword.
	SearchTopics(ctx context.Context, keyword string, limit int) (*TopicResult, error)

	// TrendingKeywords returns the current keyword trend list.
	TrendingKeywords(ctx context.Context) (*KeywordResult, error)

	// PlatformStats returns platform-wide aggregate counters.
	PlatformStats(ctx context.Context) (*StatsResult, error)
}
