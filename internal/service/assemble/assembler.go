// internal/service/assemble/assembler.go

// Package assemble maps heterogeneous source records onto the canonical
// Topic shape. Assembly is pure: no I/O, no randomness, no clock reads.
package assemble

import (
	"strconv"
	"strings"
	"time"

	"trendlens/internal/domain/topic"
)

// Raw is one source record before normalization. Field names may arrive
// snake_cased, camelCased, or nested under an interact_info substructure
// with string-typed counters.
type Raw map[string]any

// Topic normalizes a raw record into the canonical shape, filling defaults:
// missing counters become 0 (negative values are clamped to 0), a missing
// category becomes the uncategorized bucket, missing tags become an empty
// list, never nil. Assembling an already-canonical record returns it
// unchanged.
func Topic(raw Raw, source topic.Provenance) topic.Topic {
	t := topic.Topic{
		ID:           pickString(raw, "id"),
		Title:        pickString(raw, "title"),
		Content:      pickString(raw, "content", "desc", "body"),
		Author:       pickString(raw, "author"),
		PublishTime:  pickTime(raw, "publishTime", "publish_time", "time"),
		LikeCount:    pickCount(raw, "likeCount", "like_count", "liked_count"),
		CommentCount: pickCount(raw, "commentCount", "comment_count"),
		ShareCount:   pickCount(raw, "shareCount", "share_count"),
		ViewCount:    pickCount(raw, "viewCount", "view_count"),
		Category:     pickString(raw, "category"),
		Tags:         pickStrings(raw, "tags", "tag_list"),
		Sentiment:    pickSentiment(raw),
		TrendScore:   clampScore(pickFloat(raw, "trendScore", "trend_score", "quality_score")),
		Provenance:   source,
	}

	if t.Author == "" {
		if user, ok := raw["user"].(map[string]any); ok {
			t.Author = pickString(user, "nickname", "name")
		}
	}

	if t.Category == "" {
		t.Category = topic.DefaultCategory
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	return t
}

// Topics normalizes a batch.
func Topics(raws []Raw, source topic.Provenance) []topic.Topic {
	out := make([]topic.Topic, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Topic(raw, source))
	}
	return out
}

// PlatformStats normalizes a stats payload, tolerating snake and camel
// counter names.
func PlatformStats(raw Raw) topic.PlatformStats {
	return topic.PlatformStats{
		TotalNotes:        int64(pickCount(raw, "totalNotes", "total_notes", "totalItems", "total_items")),
		ActiveUsers:       int64(pickCount(raw, "activeUsers", "active_users")),
		DailyPosts:        int64(pickCount(raw, "dailyPosts", "daily_posts")),
		TotalInteractions: int64(pickCount(raw, "totalInteractions", "total_interactions")),
		GrowthRate:        pickGrowthRate(raw),
	}
}

func pickGrowthRate(raw Raw) topic.GrowthRate {
	nested, ok := raw["growthRate"].(map[string]any)
	if !ok {
		nested, ok = raw["growth_rate"].(map[string]any)
	}
	if !ok {
		return topic.GrowthRate{}
	}
	return topic.GrowthRate{
		Notes:        pickFloat(nested, "notes"),
		Users:        pickFloat(nested, "users"),
		Interactions: pickFloat(nested, "interactions"),
	}
}

// KeywordTrend normalizes one keyword aggregate. The map form of the
// analysis artifact keys records by keyword, so the keyword arrives
// separately from its stats.
func KeywordTrend(keyword string, raw Raw) topic.KeywordTrend {
	avgLikes := pickCount(raw, "avgLikes", "avg_likes")
	avgComments := pickCount(raw, "avgComments", "avg_comments")

	kt := topic.KeywordTrend{
		Keyword:       keyword,
		Count:         pickCount(raw, "count"),
		AvgLikes:      avgLikes,
		AvgComments:   avgComments,
		AvgEngagement: (avgLikes + avgComments) / 2,
		Trend:         topic.DirectionFor(avgLikes),
		Sentiment:     pickDistribution(raw, "sentiment", "sentiment_distribution"),
	}
	if kw := pickString(raw, "keyword"); kw != "" {
		kt.Keyword = kw
	}
	return kt
}

func pickString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// pickCount resolves an integer counter, also checking the nested
// interact_info substructure where counters arrive as strings.
func pickCount(raw map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if n, ok := asInt(v); ok {
				if n < 0 {
					return 0
				}
				return n
			}
		}
	}

	if info, ok := raw["interact_info"].(map[string]any); ok {
		for _, k := range keys {
			if v, ok := info[k]; ok {
				if n, ok := asInt(v); ok && n >= 0 {
					return n
				}
			}
		}
	}

	return 0
}

func pickFloat(raw map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			switch n := v.(type) {
			case float64:
				return n
			case int:
				return float64(n)
			case string:
				if f, err := strconv.ParseFloat(n, 64); err == nil {
					return f
				}
			}
		}
	}
	return 0
}

func pickTime(raw map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if ts, err := time.Parse(layout, val); err == nil {
					return ts
				}
			}
		case float64:
			// Unix seconds, the generator's native representation.
			return time.Unix(int64(val), 0).UTC()
		case time.Time:
			return val
		}
	}
	return time.Time{}
}

func pickStrings(raw map[string]any, keys ...string) []string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch list := v.(type) {
		case []string:
			return list
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				switch entry := item.(type) {
				case string:
					out = append(out, entry)
				case map[string]any:
					// tag_list entries are objects with a name field.
					if name := pickString(entry, "name"); name != "" {
						out = append(out, name)
					}
				}
			}
			return out
		}
	}
	return nil
}

// pickSentiment keeps a source-provided label and leaves the zero value for
// records without one, so the resolver knows to run the classifier.
func pickSentiment(raw map[string]any) topic.Sentiment {
	switch strings.ToLower(pickString(raw, "sentiment")) {
	case string(topic.SentimentPositive):
		return topic.SentimentPositive
	case string(topic.SentimentNegative):
		return topic.SentimentNegative
	case string(topic.SentimentNeutral):
		return topic.SentimentNeutral
	default:
		return ""
	}
}

func pickDistribution(raw map[string]any, keys ...string) map[topic.Sentiment]float64 {
	dist := map[topic.Sentiment]float64{
		topic.SentimentPositive: 0,
		topic.SentimentNegative: 0,
		topic.SentimentNeutral:  0,
	}
	for _, k := range keys {
		nested, ok := raw[k].(map[string]any)
		if !ok {
			continue
		}
		for label, v := range nested {
			if f, ok := asFloat(v); ok {
				dist[topic.Sentiment(strings.ToLower(label))] = f
			}
		}
		return dist
	}
	return dist
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
