// internal/service/sentiment/classifier.go

// Package sentiment implements a lexicon-based text classifier. Lexicons are
// configuration, not algorithm: language- and domain-specific term sets are
// swappable without touching the classifier.
package sentiment

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"trendlens/internal/domain/topic"
)

// Lexicon is one configured term set with its confidence parameters.
type Lexicon struct {
	Label topic.Sentiment `json:"label"`
	Terms []string        `json:"terms"`
	Base  float64         `json:"base"`
	Step  float64         `json:"step"`
	Cap   float64         `json:"cap"`
}

// Config holds the three lexicons the classifier matches against.
type Config struct {
	Positive Lexicon `json:"positive"`
	Negative Lexicon `json:"negative"`
	Neutral  Lexicon `json:"neutral"`
}

// DefaultConfig returns the built-in lexicons with the documented confidence
// parameters: positive/negative base 0.6 step 0.1 cap 0.9, neutral base 0.5
// step 0.1 cap 0.8.
func DefaultConfig() Config {
	return Config{
		Positive: Lexicon{
			Label: topic.SentimentPositive,
			Terms: []string{
				"good", "great", "love", "like", "recommend", "amazing",
				"perfect", "excellent", "worth", "beautiful", "awesome",
				"satisfied", "best", "super", "wonderful",
			},
			Base: 0.6, Step: 0.1, Cap: 0.9,
		},
		Negative: Lexicon{
			Label: topic.SentimentNegative,
			Terms: []string{
				"bad", "terrible", "awful", "disappointed", "regret",
				"worst", "hate", "useless", "waste", "trash", "boring",
				"annoying", "disgusting", "avoid",
			},
			Base: 0.6, Step: 0.1, Cap: 0.9,
		},
		Neutral: Lexicon{
			Label: topic.SentimentNeutral,
			Terms: []string{
				"okay", "fine", "average", "ordinary", "passable", "so-so",
			},
			Base: 0.5, Step: 0.1, Cap: 0.8,
		},
	}
}

// LoadConfig reads lexicon configuration from a JSON file. Missing confidence
// parameters fall back to the defaults for that label.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading lexicon config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing lexicon config: %w", err)
	}

	cfg.Positive.Label = topic.SentimentPositive
	cfg.Negative.Label = topic.SentimentNegative
	cfg.Neutral.Label = topic.SentimentNeutral
	return cfg, nil
}

// Result is a classification outcome. MatchedTerms lists the lexicon terms
// found in the text, for explainability and testing.
type Result struct {
	Label        topic.Sentiment              `json:"sentiment"`
	Confidence   float64                      `json:"confidence"`
	Scores       map[topic.Sentiment]int      `json:"scores"`
	MatchedTerms map[topic.Sentiment][]string `json:"matchedTerms"`
}

// Classifier matches case-normalized lexicon terms against text using a
// single Aho-Corasick automaton over all three lexicons.
type Classifier struct {
	config  Config
	matcher *ahocorasick.Matcher
	terms   []string
	labels  []topic.Sentiment
}

// NewClassifier builds the automaton from the configured lexicons.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{config: cfg}

	for _, lex := range []Lexicon{cfg.Positive, cfg.Negative, cfg.Neutral} {
		for _, term := range lex.Terms {
			normalized := strings.ToLower(strings.TrimSpace(term))
			if normalized == "" {
				continue
			}
			c.terms = append(c.terms, normalized)
			c.labels = append(c.labels, lex.Label)
		}
	}

	if len(c.terms) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(c.terms)
	}
	return c
}

// Classify labels text by the lexicon with the strictly highest number of
// distinct matched terms. Ties resolve to neutral; no matches yield neutral
// with confidence 0.5. Pure: identical text and config always produce an
// identical result.
func (c *Classifier) Classify(text string) Result {
	res := Result{
		Label:      topic.SentimentNeutral,
		Confidence: c.config.Neutral.Base,
		Scores: map[topic.Sentiment]int{
			topic.SentimentPositive: 0,
			topic.SentimentNegative: 0,
			topic.SentimentNeutral:  0,
		},
		MatchedTerms: map[topic.Sentiment][]string{},
	}

	if c.matcher == nil || text == "" {
		return res
	}

	hits := c.matcher.Match([]byte(strings.ToLower(text)))
	for _, idx := range hits {
		if idx >= len(c.terms) {
			continue
		}
		label := c.labels[idx]
		res.Scores[label]++
		res.MatchedTerms[label] = append(res.MatchedTerms[label], c.terms[idx])
	}
	for _, terms := range res.MatchedTerms {
		sort.Strings(terms)
	}

	pos := res.Scores[topic.SentimentPositive]
	neg := res.Scores[topic.SentimentNegative]
	neu := res.Scores[topic.SentimentNeutral]

	switch {
	case pos > neg && pos > neu:
		res.Label = topic.SentimentPositive
		res.Confidence = confidence(c.config.Positive, pos)
	case neg > pos && neg > neu:
		res.Label = topic.SentimentNegative
		res.Confidence = confidence(c.config.Negative, neg)
	case neu > 0:
		res.Label = topic.SentimentNeutral
		res.Confidence = confidence(c.config.Neutral, neu)
	}

	return res
}

func confidence(lex Lexicon, matches int) float64 {
	v := lex.Base + float64(matches)*lex.Step
	if v > lex.Cap {
		return lex.Cap
	}
	return v
}
