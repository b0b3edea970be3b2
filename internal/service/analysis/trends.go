package analysis

import (
	"sort"

	"trendlens/internal/domain/topic"
)

// KeywordInsight is one keyword's entry in a trend report.
type KeywordInsight struct {
	Keyword       string                      `json:"keyword"`
	Count         int                         `json:"count"`
	AvgEngagement int                         `json:"avgEngagement"`
	Growth        float64                     `json:"growth"`
	Sentiment     map[topic.Sentiment]float64 `json:"sentiment"`
	Category      string                      `json:"category"`
}

// CategoryTrend aggregates a category's activity across the batch.
type CategoryTrend struct {
	Category      string               `json:"category"`
	Count         int                  `json:"count"`
	AvgEngagement int                  `json:"avgEngagement"`
	Direction     topic.TrendDirection `json:"direction"`
}

// TimeAnalysis reports posting activity per slot and the busiest slot.
type TimeAnalysis struct {
	Slots    []TimeSlotShare `json:"slots"`
	PeakSlot string          `json:"peakSlot"`
}

// Prediction is a forward call on a keyword, derived from its current
// engagement rather than sampled.
type Prediction struct {
	Keyword    string               `json:"keyword"`
	Direction  topic.TrendDirection `json:"direction"`
	Confidence float64              `json:"confidence"`
}

// TrendReport is the full payload of the trend-analysis endpoint.
type TrendReport struct {
	KeywordTrends  []KeywordInsight `json:"keywordTrends"`
	CategoryTrends []CategoryTrend  `json:"categoryTrends"`
	TimeAnalysis   TimeAnalysis     `json:"timeAnalysis"`
	Predictions    []Prediction     `json:"predictions"`
}

// Growth mapping bounds, in percent.
const (
	growthFloor = -10.0
	growthCeil  = 30.0
)

// predictionLimit bounds how many keywords get a forward call.
const predictionLimit = 5

// BuildTrendReport derives a trend report from resolved keyword aggregates
// and the topic batch. Both inputs may be empty.
func BuildTrendReport(keywords []topic.KeywordTrend, topics []topic.Topic) TrendReport {
	report := TrendReport{
		KeywordTrends:  make([]KeywordInsight, 0, len(keywords)),
		CategoryTrends: []CategoryTrend{},
		Predictions:    []Prediction{},
	}

	for _, k := range keywords {
		report.KeywordTrends = append(report.KeywordTrends, KeywordInsight{
			Keyword:       k.Keyword,
			Count:         k.Count,
			AvgEngagement: k.AvgEngagement,
			Growth:        growthFor(k.AvgLikes),
			Sentiment:     k.Sentiment,
			Category:      k.Keyword,
		})
	}

	report.CategoryTrends = categoryTrends(topics)
	report.TimeAnalysis = timeAnalysis(topics)
	report.Predictions = predictions(keywords)
	return report
}

// growthFor maps average likes onto a growth percentage. Centered on the
// stable band midpoint so keywords below the down threshold come out
// negative and strong keywords saturate at the ceiling.
func growthFor(avgLikes int) float64 {
	mid := float64(topic.TrendUpThreshold+topic.TrendDownThreshold) / 2
	g := (float64(avgLikes) - mid) / 5
	if g < growthFloor {
		g = growthFloor
	}
	if g > growthCeil {
		g = growthCeil
	}
	return round1(g)
}

func categoryTrends(topics []topic.Topic) []CategoryTrend {
	type agg struct {
		count    int
		likes    int
		comments int
	}
	byCat := map[string]*agg{}
	for _, t := range topics {
		cat := t.Category
		if cat == "" {
			cat = topic.DefaultCategory
		}
		a := byCat[cat]
		if a == nil {
			a = &agg{}
			byCat[cat] = a
		}
		a.count++
		a.likes += t.LikeCount
		a.comments += t.CommentCount
	}

	out := make([]CategoryTrend, 0, len(byCat))
	for cat, a := range byCat {
		avgLikes := a.likes / a.count
		out = append(out, CategoryTrend{
			Category:      cat,
			Count:         a.count,
			AvgEngagement: (a.likes + a.comments) / (2 * a.count),
			Direction:     topic.DirectionFor(avgLikes),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func timeAnalysis(topics []topic.Topic) TimeAnalysis {
	counts := map[string]int{}
	for _, t := range topics {
		counts[slotFor(t.PublishTime.Hour())]++
	}

	ta := TimeAnalysis{Slots: []TimeSlotShare{}}
	n := len(topics)
	for slot, c := range counts {
		ta.Slots = append(ta.Slots, TimeSlotShare{
			TimeSlot:   slot,
			Count:      c,
			Percentage: round1(float64(c) / float64(n) * 100),
		})
	}
	sort.Slice(ta.Slots, func(i, j int) bool {
		a, b := ta.Slots[i], ta.Slots[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TimeSlot < b.TimeSlot
	})
	if len(ta.Slots) > 0 {
		ta.PeakSlot = ta.Slots[0].TimeSlot
	}
	return ta
}

func predictions(keywords []topic.KeywordTrend) []Prediction {
	ranked := make([]topic.KeywordTrend, len(keywords))
	copy(ranked, keywords)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AvgEngagement != ranked[j].AvgEngagement {
			return ranked[i].AvgEngagement > ranked[j].AvgEngagement
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > predictionLimit {
		ranked = ranked[:predictionLimit]
	}

	out := make([]Prediction, 0, len(ranked))
	for _, k := range ranked {
		conf := 0.5 + float64(k.Count)/100
		if conf > 0.9 {
			conf = 0.9
		}
		out = append(out, Prediction{
			Keyword:    k.Keyword,
			Direction:  topic.DirectionFor(k.AvgLikes),
			Confidence: round2(conf),
		})
	}
	return out
}
