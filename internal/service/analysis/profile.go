// Package analysis derives audience and trend insights from a resolved
// topic batch. Everything here is a pure function of its inputs so the
// handlers can serve consistent answers regardless of which tier supplied
// the underlying data.
package analysis

import (
	"math"
	"sort"

	"trendlens/internal/domain/topic"
)

// Posting-time slot boundaries (hour of day, half-open).
const (
	SlotNight     = "night"     // 00:00-05:59
	SlotMorning   = "morning"   // 06:00-11:59
	SlotAfternoon = "afternoon" // 12:00-17:59
	SlotEvening   = "evening"   // 18:00-23:59
)

// CategoryShare summarises one category's footprint in the batch.
type CategoryShare struct {
	Category    string  `json:"category"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
	AvgLikes    int     `json:"avgLikes"`
	AvgComments int     `json:"avgComments"`
}

// TimeSlotShare summarises posting activity in one slot of the day.
type TimeSlotShare struct {
	TimeSlot   string  `json:"timeSlot"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Profile is the audience profile computed over a topic batch.
type Profile struct {
	TotalNotes            int                         `json:"totalNotes"`
	TotalLikes            int                         `json:"totalLikes"`
	TotalComments         int                         `json:"totalComments"`
	AvgLikes              int                         `json:"avgLikes"`
	AvgComments           int                         `json:"avgComments"`
	TopCategories         []CategoryShare             `json:"topCategories"`
	SentimentDistribution map[topic.Sentiment]float64 `json:"sentimentDistribution"`
	ActiveTimeSlots       []TimeSlotShare             `json:"activeTimeSlots"`
	EngagementRate        float64                     `json:"engagementRate"`
}

// topCategoryLimit bounds how many categories a profile reports.
const topCategoryLimit = 5

// BuildProfile computes an audience profile over the batch. An empty batch
// yields a zero profile with empty (non-nil) collections.
func BuildProfile(topics []topic.Topic) Profile {
	p := Profile{
		TopCategories: []CategoryShare{},
		SentimentDistribution: map[topic.Sentiment]float64{
			topic.SentimentPositive: 0,
			topic.SentimentNegative: 0,
			topic.SentimentNeutral:  0,
		},
		ActiveTimeSlots: []TimeSlotShare{},
	}
	if len(topics) == 0 {
		return p
	}

	type catAgg struct {
		count    int
		likes    int
		comments int
	}
	cats := map[string]*catAgg{}
	sentiments := map[topic.Sentiment]int{}
	slots := map[string]int{}

	for _, t := range topics {
		cat := t.Category
		if cat == "" {
			cat = topic.DefaultCategory
		}
		agg := cats[cat]
		if agg == nil {
			agg = &catAgg{}
			cats[cat] = agg
		}
		agg.count++
		agg.likes += t.LikeCount
		agg.comments += t.CommentCount

		s := t.Sentiment
		if s == "" {
			s = topic.SentimentNeutral
		}
		sentiments[s]++

		slots[slotFor(t.PublishTime.Hour())]++

		p.TotalLikes += t.LikeCount
		p.TotalComments += t.CommentCount
	}

	n := len(topics)
	p.TotalNotes = n
	p.AvgLikes = p.TotalLikes / n
	p.AvgComments = p.TotalComments / n

	for cat, agg := range cats {
		p.TopCategories = append(p.TopCategories, CategoryShare{
			Category:    cat,
			Count:       agg.count,
			Percentage:  round1(float64(agg.count) / float64(n) * 100),
			AvgLikes:    agg.likes / agg.count,
			AvgComments: agg.comments / agg.count,
		})
	}
	sort.Slice(p.TopCategories, func(i, j int) bool {
		a, b := p.TopCategories[i], p.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if len(p.TopCategories) > topCategoryLimit {
		p.TopCategories = p.TopCategories[:topCategoryLimit]
	}

	for s, c := range sentiments {
		p.SentimentDistribution[s] = round1(float64(c) / float64(n) * 100)
	}

	for slot, c := range slots {
		p.ActiveTimeSlots = append(p.ActiveTimeSlots, TimeSlotShare{
			TimeSlot:   slot,
			Count:      c,
			Percentage: round1(float64(c) / float64(n) * 100),
		})
	}
	sort.Slice(p.ActiveTimeSlots, func(i, j int) bool {
		a, b := p.ActiveTimeSlots[i], p.ActiveTimeSlots[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TimeSlot < b.TimeSlot
	})

	p.EngagementRate = round2(float64(p.TotalLikes+p.TotalComments) / float64(n*100) * 100)
	return p
}

func slotFor(hour int) string {
	switch {
	case hour < 6:
		return SlotNight
	case hour < 12:
		return SlotMorning
	case hour < 18:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
