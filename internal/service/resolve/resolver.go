// internal/service/resolve/resolver.go

// Package resolve orchestrates the ordered tier cascade behind every
// trending-content request. Tiers are tried in priority order; the first one
// whose backing data exists and parses wins, and lower tiers are never
// consulted. Tier failures are absorbed, logged and counted; only caller
// validation errors ever surface as request failures.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"trendlens/internal/adapter/cache"
	"trendlens/internal/adapter/events"
	"trendlens/internal/domain/topic"
	"trendlens/internal/metrics"
	"trendlens/internal/service/scoring"
	"trendlens/internal/service/sentiment"
)

// DefaultLimit caps topic batches when the caller does not pass one.
const DefaultLimit = 20

// Tier is one ranked strategy for producing a value. Load returns the
// records plus the concrete source name (for artifact tiers, the filename
// that answered); an error means fall through to the next tier.
type Tier[T any] struct {
	Name       string
	Provenance topic.Provenance
	Load       func(ctx context.Context, p topic.Params) (T, string, error)
}

// TierSet holds the ordered tier lists per request kind. Injectable so tests
// can spy on tier invocation order.
type TierSet struct {
	Topics   []Tier[[]topic.Topic]
	Search   []Tier[[]topic.Topic]
	Keywords []Tier[[]topic.KeywordTrend]
	Stats    []Tier[topic.PlatformStats]
}

// Config tunes the resolver.
type Config struct {
	// CacheTTL is how long resolved results stay cached; zero disables
	// caching entirely.
	CacheTTL time.Duration
}

// Resolver implements topic.Resolver over a TierSet.
type Resolver struct {
	tiers      TierSet
	scorer     scoring.Strategy
	classifier *sentiment.Classifier
	cache      cache.Cache
	events     *events.Publisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	cfg        Config
	now        func() time.Time
}

// NewResolver assembles a resolver. Pass cache.Noop{} to disable caching and
// a nil events publisher to disable audit events.
func NewResolver(
	tiers TierSet,
	scorer scoring.Strategy,
	classifier *sentiment.Classifier,
	resultCache cache.Cache,
	publisher *events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg Config,
) *Resolver {
	if resultCache == nil {
		resultCache = cache.Noop{}
	}
	return &Resolver{
		tiers:      tiers,
		scorer:     scorer,
		classifier: classifier,
		cache:      resultCache,
		events:     publisher,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// HotTopics returns topics sorted by composite weight, truncated to limit.
func (r *Resolver) HotTopics(ctx context.Context, limit int) (*topic.TopicResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	p := topic.Params{Limit: limit}

	key := cacheKey(topic.KindTopics, fmt.Sprintf("limit=%d", limit))
	if res, ok := getCached[topic.TopicResult](ctx, r, topic.KindTopics, key); ok {
		return res, nil
	}

	topics, tier, err := cascade(ctx, r, topic.KindTopics, r.tiers.Topics, p)
	if err != nil {
		return nil, err
	}

	res := &topic.TopicResult{
		Topics:     r.finalizeTopics(topics, tier.Provenance, limit),
		Provenance: tier.Provenance,
		Source:     tier.source,
		Total:      len(topics),
	}
	r.putCached(ctx, key, res)
	return res, nil
}

// SearchTopics returns topics matching keyword, truncated to limit.
func (r *Resolver) SearchTopics(ctx context.Context, keyword string, limit int) (*topic.TopicResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, topic.NewValidationError("keyword", "must not be empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	p := topic.Params{Keyword: keyword, Limit: limit}

	key := cacheKey(topic.KindSearch, fmt.Sprintf("keyword=%s&limit=%d", keyword, limit))
	if res, ok := getCached[topic.TopicResult](ctx, r, topic.KindSearch, key); ok {
		return res, nil
	}

	topics, tier, err := cascade(ctx, r, topic.KindSearch, r.tiers.Search, p)
	if err != nil {
		return nil, err
	}

	res := &topic.TopicResult{
		Topics:     r.finalizeTopics(topics, tier.Provenance, limit),
		Provenance: tier.Provenance,
		Source:     tier.source,
		Total:      len(topics),
	}
	r.putCached(ctx, key, res)
	return res, nil
}

// TrendingKeywords returns the current keyword trend list.
func (r *Resolver) TrendingKeywords(ctx context.Context) (*topic.KeywordResult, error) {
	key := cacheKey(topic.KindKeywords, "")
	if res, ok := getCached[topic.KeywordResult](ctx, r, topic.KindKeywords, key); ok {
		return res, nil
	}

	keywords, tier, err := cascade(ctx, r, topic.KindKeywords, r.tiers.Keywords, topic.Params{})
	if err != nil {
		return nil, err
	}

	res := &topic.KeywordResult{
		Keywords:   keywords,
		Provenance: tier.Provenance,
		Source:     tier.source,
	}
	r.putCached(ctx, key, res)
	return res, nil
}

// PlatformStats returns platform-wide aggregate counters.
func (r *Resolver) PlatformStats(ctx context.Context) (*topic.StatsResult, error) {
	key := cacheKey(topic.KindStats, "")
	if res, ok := getCached[topic.StatsResult](ctx, r, topic.KindStats, key); ok {
		return res, nil
	}

	stats, tier, err := cascade(ctx, r, topic.KindStats, r.tiers.Stats, topic.Params{})
	if err != nil {
		return nil, err
	}

	res := &topic.StatsResult{
		Stats:      stats,
		Provenance: tier.Provenance,
		Source:     tier.source,
	}
	r.putCached(ctx, key, res)
	return res, nil
}

// tierInfo identifies the tier that answered a cascade.
type tierInfo struct {
	Provenance topic.Provenance
	source     string
}

// cascade tries tiers in order and returns the first success. Every failed
// attempt is logged and counted; if no tier answers, the cascade reports
// ErrAllTiersExhausted; with the synthetic floor configured this indicates
// a configuration bug.
func cascade[T any](ctx context.Context, r *Resolver, kind topic.Kind, tiers []Tier[T], p topic.Params) (T, tierInfo, error) {
	start := r.now()

	for _, tier := range tiers {
		value, source, err := tier.Load(ctx, p)
		if err != nil {
			r.metrics.TierFailures.WithLabelValues(string(kind), tier.Name).Inc()
			r.logger.Debug("tier failed, falling through",
				zap.String("kind", string(kind)),
				zap.String("tier", tier.Name),
				zap.Error(err))
			continue
		}

		if source == "" {
			source = tier.Name
		}
		r.metrics.Resolutions.WithLabelValues(string(kind), string(tier.Provenance)).Inc()
		r.events.Publish(events.ResolutionEvent{
			Kind:       kind,
			Provenance: tier.Provenance,
			Source:     source,
			Records:    countOf(value),
			Elapsed:    r.now().Sub(start),
			Timestamp:  r.now(),
		})
		return value, tierInfo{Provenance: tier.Provenance, source: source}, nil
	}

	var zero T
	r.logger.Error("no tier produced data", zap.String("kind", string(kind)))
	return zero, tierInfo{}, fmt.Errorf("%s: %w", kind, topic.ErrAllTiersExhausted)
}

// finalizeTopics applies the uniform post-processing every answering tier's
// records go through: composite-weight ordering, truncation, provenance
// tagging, trend scoring, and sentiment classification for records that
// arrived unlabeled.
func (r *Resolver) finalizeTopics(topics []topic.Topic, prov topic.Provenance, limit int) []topic.Topic {
	scoring.SortByCompositeWeight(topics)
	if limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}

	now := r.now()
	for i := range topics {
		topics[i].Provenance = prov
		if topics[i].TrendScore == 0 {
			topics[i].TrendScore = scoring.ScoreTopic(r.scorer, topics[i], now)
		}
		if topics[i].Sentiment == "" {
			res := r.classifier.Classify(topics[i].Title + " " + topics[i].Content)
			topics[i].Sentiment = res.Label
		}
		if topics[i].Tags == nil {
			topics[i].Tags = []string{}
		}
	}
	return topics
}

func cacheKey(kind topic.Kind, params string) string {
	if params == "" {
		return fmt.Sprintf("trendlens:v1:%s", kind)
	}
	return fmt.Sprintf("trendlens:v1:%s:%s", kind, params)
}

func getCached[T any](ctx context.Context, r *Resolver, kind topic.Kind, key string) (*T, bool) {
	if r.cfg.CacheTTL <= 0 {
		return nil, false
	}
	raw, ok := r.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var res T
	if err := json.Unmarshal(raw, &res); err != nil {
		r.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	r.metrics.CacheHits.WithLabelValues(string(kind)).Inc()
	return &res, true
}

func (r *Resolver) putCached(ctx context.Context, key string, res any) {
	if r.cfg.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		r.logger.Warn("marshaling result for cache", zap.String("key", key), zap.Error(err))
		return
	}
	r.cache.Set(ctx, key, raw, r.cfg.CacheTTL)
}

func countOf(v any) int {
	switch records := v.(type) {
	case []topic.Topic:
		return len(records)
	case []topic.KeywordTrend:
		return len(records)
	default:
		return 1
	}
}
