// internal/service/resolve/tiers.go

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"trendlens/internal/adapter/artifact"
	"trendlens/internal/domain/topic"
	"trendlens/internal/metrics"
	"trendlens/internal/service/assemble"
	"trendlens/internal/service/generator"
	"trendlens/internal/service/synthetic"
)

// ArtifactOrder is the explicit per-kind priority list of artifact
// filenames. The defaults mirror the datasets the offline generator scripts
// produce.
type ArtifactOrder struct {
	// MassTopics is the pre-aggregated large topics artifact.
	MassTopics string
	// LegacyTopics are consulted in order when the mass artifact is absent.
	LegacyTopics []string
	// KeywordAnalysis is the keyword -> stats map artifact.
	KeywordAnalysis string
	// TrendingKeywords is the flat keyword list artifact.
	TrendingKeywords string
}

// DefaultArtifactOrder returns the documented artifact priority lists.
func DefaultArtifactOrder() ArtifactOrder {
	return ArtifactOrder{
		MassTopics: "mass_real_notes.json",
		LegacyTopics: []string{
			"enhanced_hot_topics.json",
			"enhanced_real_notes.json",
			"real_hot_topics.json",
			"notes.json",
			"hot_topics.json",
		},
		KeywordAnalysis:  "keyword_analysis.json",
		TrendingKeywords: "trending_keywords.json",
	}
}

// Timeouts holds the per-kind generator deadlines.
type Timeouts struct {
	Topics time.Duration
	Stats  time.Duration
}

// DefaultTimeouts matches the documented deadlines: 30s for topic fetches,
// 20s for stats.
func DefaultTimeouts() Timeouts {
	return Timeouts{Topics: 30 * time.Second, Stats: 20 * time.Second}
}

// Generator task names understood by the external generator script.
const (
	taskHotNotes      = "get_hot_notes"
	taskSearchTopics  = "search_topics"
	taskPlatformStats = "get_platform_stats"
)

// NewTierSet builds the production tier ordering for every request kind:
// cached artifacts first, then one generator invocation, then the synthetic
// floor. Pass a nil invoker to disable generator tiers (artifacts and
// synthetic data still serve).
func NewTierSet(
	store *artifact.Store,
	invoker *generator.Invoker,
	synth *synthetic.Generator,
	order ArtifactOrder,
	timeouts Timeouts,
	m *metrics.Metrics,
) TierSet {
	ts := TierSet{
		Topics: []Tier[[]topic.Topic]{
			massArtifactTier(store, order),
			legacyArtifactTier(store, order),
		},
		Search: []Tier[[]topic.Topic]{
			artifactSearchTier(store, order),
		},
		Keywords: []Tier[[]topic.KeywordTrend]{
			keywordAnalysisTier(store, order),
			trendingKeywordsTier(store, order),
		},
	}

	if invoker != nil {
		ts.Topics = append(ts.Topics, generatorTopicsTier(invoker, timeouts.Topics, m))
		ts.Search = append(ts.Search, generatorSearchTier(invoker, timeouts.Topics, m))
		ts.Stats = append(ts.Stats, generatorStatsTier(invoker, timeouts.Stats, m))
	}

	ts.Topics = append(ts.Topics, syntheticTopicsTier(synth))
	ts.Search = append(ts.Search, syntheticSearchTier(synth))
	ts.Keywords = append(ts.Keywords, syntheticKeywordsTier(synth))
	ts.Stats = append(ts.Stats, syntheticStatsTier(synth))

	return ts
}

func massArtifactTier(store *artifact.Store, order ArtifactOrder) Tier[[]topic.Topic] {
	return Tier[[]topic.Topic]{
		Name:       "mass_artifact",
		Provenance: topic.ProvenanceMassArtifact,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			var raws []assemble.Raw
			if err := store.Load(order.MassTopics, &raws); err != nil {
				return nil, "", err
			}
			return assemble.Topics(raws, topic.ProvenanceMassArtifact), order.MassTopics, nil
		},
	}
}

func legacyArtifactTier(store *artifact.Store, order ArtifactOrder) Tier[[]topic.Topic] {
	return Tier[[]topic.Topic]{
		Name:       "legacy_artifacts",
		Provenance: topic.ProvenanceLegacyArtifact,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			var raws []assemble.Raw
			name, err := store.FirstAvailable(order.LegacyTopics, &raws)
			if err != nil {
				return nil, "", err
			}
			return assemble.Topics(raws, topic.ProvenanceLegacyArtifact), name, nil
		},
	}
}

// artifactSearchTier filters whichever topics artifact is available by the
// search keyword. Zero matches fall through so the generator gets a chance
// to search sources the artifacts never covered.
func artifactSearchTier(store *artifact.Store, order ArtifactOrder) Tier[[]topic.Topic] {
	candidates := append([]string{order.MassTopics}, order.LegacyTopics...)
	return Tier[[]topic.Topic]{
		Name:       "artifact_search",
		Provenance: topic.ProvenanceArtifactSearch,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			var raws []assemble.Raw
			name, err := store.FirstAvailable(candidates, &raws)
			if err != nil {
				return nil, "", err
			}

			needle := strings.ToLower(p.Keyword)
			var matched []topic.Topic
			for _, t := range assemble.Topics(raws, topic.ProvenanceArtifactSearch) {
				if topicMatches(t, needle) {
					matched = append(matched, t)
				}
			}
			if len(matched) == 0 {
				return nil, "", fmt.Errorf("no artifact matches for %q: %w", p.Keyword, topic.ErrArtifactNotFound)
			}
			return matched, name, nil
		},
	}
}

func topicMatches(t topic.Topic, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Content), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func keywordAnalysisTier(store *artifact.Store, order ArtifactOrder) Tier[[]topic.KeywordTrend] {
	return Tier[[]topic.KeywordTrend]{
		Name:       "keyword_analysis",
		Provenance: topic.ProvenanceMassArtifact,
		Load: func(ctx context.Context, p topic.Params) ([]topic.KeywordTrend, string, error) {
			var analysis map[string]assemble.Raw
			if err := store.Load(order.KeywordAnalysis, &analysis); err != nil {
				return nil, "", err
			}

			trends := make([]topic.KeywordTrend, 0, len(analysis))
			for keyword, stats := range analysis {
				trends = append(trends, assemble.KeywordTrend(keyword, stats))
			}
			sort.Slice(trends, func(i, j int) bool {
				if trends[i].Count != trends[j].Count {
					return trends[i].Count > trends[j].Count
				}
				return trends[i].Keyword < trends[j].Keyword
			})
			return trends, order.KeywordAnalysis, nil
		},
	}
}

func trendingKeywordsTier(store *artifact.Store, order ArtifactOrder) Tier[[]topic.KeywordTrend] {
	return Tier[[]topic.KeywordTrend]{
		Name:       "trending_keywords",
		Provenance: topic.ProvenanceLegacyArtifact,
		Load: func(ctx context.Context, p topic.Params) ([]topic.KeywordTrend, string, error) {
			var raws []assemble.Raw
			if err := store.Load(order.TrendingKeywords, &raws); err != nil {
				return nil, "", err
			}

			trends := make([]topic.KeywordTrend, 0, len(raws))
			for _, raw := range raws {
				trends = append(trends, assemble.KeywordTrend("", raw))
			}
			return trends, order.TrendingKeywords, nil
		},
	}
}

func generatorTopicsTier(invoker *generator.Invoker, timeout time.Duration, m *metrics.Metrics) Tier[[]topic.Topic] {
	return Tier[[]topic.Topic]{
		Name:       "generator",
		Provenance: topic.ProvenanceGenerator,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			raws, err := invokeRecords(ctx, invoker, generator.Task{
				Name:   taskHotNotes,
				Params: map[string]any{"count": p.Limit},
			}, timeout, m)
			if err != nil {
				return nil, "", err
			}
			return assemble.Topics(raws, topic.ProvenanceGenerator), "", nil
		},
	}
}

func generatorSearchTier(invoker *generator.Invoker, timeout time.Duration, m *metrics.Metrics) Tier[[]topic.Topic] {
	return Tier[[]topic.Topic]{
		Name:       "generator",
		Provenance: topic.ProvenanceGenerator,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			raws, err := invokeRecords(ctx, invoker, generator.Task{
				Name:   taskSearchTopics,
				Params: map[string]any{"keyword": p.Keyword, "limit": p.Limit},
			}, timeout, m)
			if err != nil {
				return nil, "", err
			}
			return assemble.Topics(raws, topic.ProvenanceGenerator), "", nil
		},
	}
}

func generatorStatsTier(invoker *generator.Invoker, timeout time.Duration, m *metrics.Metrics) Tier[topic.PlatformStats] {
	return Tier[topic.PlatformStats]{
		Name:       "generator",
		Provenance: topic.ProvenanceGenerator,
		Load: func(ctx context.Context, p topic.Params) (topic.PlatformStats, string, error) {
			start := time.Now()
			out, err := invoker.Invoke(ctx, generator.Task{Name: taskPlatformStats}, timeout)
			m.GeneratorDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				return topic.PlatformStats{}, "", err
			}

			var raw assemble.Raw
			if err := json.Unmarshal(out.Data, &raw); err != nil {
				return topic.PlatformStats{}, "", &generator.ParseError{Task: taskPlatformStats, Err: err}
			}
			return assemble.PlatformStats(raw), "", nil
		},
	}
}

func invokeRecords(ctx context.Context, invoker *generator.Invoker, task generator.Task, timeout time.Duration, m *metrics.Metrics) ([]assemble.Raw, error) {
	start := time.Now()
	out, err := invoker.Invoke(ctx, task, timeout)
	m.GeneratorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	var raws []assemble.Raw
	if err := json.Unmarshal(out.Data, &raws); err != nil {
		return nil, &generator.ParseError{Task: task.Name, Err: err}
	}
	return raws, nil
}

func syntheticTopicsTier(synth *synthetic.Generator) Tier[[]topic.Topic] {
	return Tier[[]topic.Topic]{
		Name:       "synthetic",
		Provenance: topic.ProvenanceSynthetic,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			count := p.Limit
			if count <= 0 {
				count = DefaultLimit
			}
			return synth.Topics(count), "", nil
		},
	}
}

func syntheticSearchTier(synth *synthetic.Generator) Tier[[]topic.Topic] {
	return Tier[[]topic.Topic]{
		Name:       "synthetic",
		Provenance: topic.ProvenanceSynthetic,
		Load: func(ctx context.Context, p topic.Params) ([]topic.Topic, string, error) {
			count := p.Limit
			if count <= 0 {
				count = DefaultLimit
			}
			return synth.SearchTopics(p.Keyword, count), "", nil
		},
	}
}

func syntheticKeywordsTier(synth *synthetic.Generator) Tier[[]topic.KeywordTrend] {
	return Tier[[]topic.KeywordTrend]{
		Name:       "synthetic",
		Provenance: topic.ProvenanceSynthetic,
		Load: func(ctx context.Context, p topic.Params) ([]topic.KeywordTrend, string, error) {
			return synth.Keywords(), "", nil
		},
	}
}

func syntheticStatsTier(synth *synthetic.Generator) Tier[topic.PlatformStats] {
	return Tier[topic.PlatformStats]{
		Name:       "synthetic",
		Provenance: topic.ProvenanceSynthetic,
		Load: func(ctx context.Context, p topic.Params) (topic.PlatformStats, string, error) {
			return synth.Stats(), "", nil
		},
	}
}
