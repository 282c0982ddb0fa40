// Task classification - heuristic complexity scoring.
//
// Five independent indicators, each normalized to [0,1], averaged onto a
// 0-10 scale and nudged by pattern memory. The keyword lists and tier
// boundaries are tunable heuristics, not load-bearing constants; they are
// kept stable for behavioral compatibility.
//
// Information Hiding:
// - Keyword and domain vocabularies hidden
// - Pattern-boost lookup hidden

package swarm

import (
	"context"
	"strings"
	"unicode"

	"github.com/X10NLUN1X/xionimus/model"
)

// Complexity keywords signal architectural or integration work.
var complexityKeywords = []string{
	"integrate", "integration", "optimize", "optimization", "architecture",
	"scalable", "scale", "migrate", "migration", "refactor", "distributed",
	"orchestrate", "pipeline", "automate", "redesign",
}

// Technical terms signal implementation depth.
var technicalTerms = []string{
	"microservice", "database", "kubernetes", "docker", "api", "cache",
	"queue", "authentication", "encryption", "latency", "deployment",
	"concurrency", "websocket", "algorithm", "index", "sharding",
	"replication", "grpc", "transaction", "schema",
}

// Domain vocabularies for multi-domain detection.
var domainKeywords = map[string][]string{
	"web":     {"frontend", "react", "vue", "css", "html", "ui", "website", "browser"},
	"backend": {"backend", "server", "api", "database", "microservice", "rest", "grpc"},
	"ai":      {"ai", "ml", "llm", "model", "training", "neural", "embedding"},
	"devops":  {"docker", "kubernetes", "deploy", "deployment", "pipeline", "terraform", "monitoring"},
	"mobile":  {"android", "ios", "mobile", "flutter", "app"},
	"data":    {"data", "analytics", "etl", "warehouse", "sql", "dataset", "visualization"},
}

// Context cues signal dependency on prior conversation state.
var contextCues = []string{
	"previous", "earlier", "continue", "again", "remember", "last", "before",
}

// Normalization divisors for the indicators.
const (
	lengthWordTarget   = 100.0
	keywordTarget      = 5.0
	technicalTarget    = 8.0
	domainTarget       = 3.0
	contextCueTarget   = 3.0
	contextSizeDivisor = 10.0
)

// defaultScore is the silent fallback when indicator computation fails:
// availability over correctness, the downstream pipeline always receives
// a valid tier.
const defaultScore = 5.0

// Classifier scores requests along heuristic complexity dimensions.
type Classifier struct {
	patterns PatternStore
}

// NewClassifier creates a classifier backed by the given pattern store.
func NewClassifier(patterns PatternStore) *Classifier {
	return &Classifier{patterns: patterns}
}

// Classify scores a request and maps it to a complexity tier.
//
// Never fails: any internal panic recovers to a moderate/5.0 default so
// downstream components always receive a valid classification. Given the
// same text, conversation context and pattern-store state, the result is
// deterministic.
func (c *Classifier) Classify(ctx context.Context, text string, convCtx map[string]string) (req ClassifiedRequest) {
	defer func() {
		if r := recover(); r != nil {
			req = ClassifiedRequest{
				RawText:    text,
				Indicators: map[string]float64{},
				Score:      defaultScore,
				Tier:       model.TierForScore(defaultScore),
			}
		}
	}()

	wordCount := len(strings.Fields(text))
	words := tokenize(text)
	indicators := map[string]float64{
		IndicatorLength:      clamp01(float64(wordCount) / lengthWordTarget),
		IndicatorKeywords:    clamp01(countMatches(words, complexityKeywords) / keywordTarget),
		IndicatorTechnical:   clamp01(countMatches(words, technicalTerms) / technicalTarget),
		IndicatorMultiDomain: clamp01(countDomains(words) / domainTarget),
		IndicatorContext:     clamp01(countMatches(words, contextCues)/contextCueTarget + float64(len(convCtx))/contextSizeDivisor),
	}

	sum := 0.0
	for _, v := range indicators {
		sum += v
	}
	score := sum / float64(len(indicators)) * 10

	if c.patterns != nil {
		boost, err := c.patterns.Boost(ctx, indicators)
		if err == nil {
			score += boost
		}
	}

	score = clampScore(score)

	return ClassifiedRequest{
		RawText:    text,
		Indicators: indicators,
		Score:      score,
		Tier:       model.TierForScore(score),
	}
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(text string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// countMatches counts vocabulary entries present in the token set.
func countMatches(words map[string]bool, vocabulary []string) float64 {
	n := 0.0
	for _, term := range vocabulary {
		if words[term] {
			n++
		}
	}
	return n
}

// countDomains counts distinct domains with at least one keyword hit.
func countDomains(words map[string]bool) float64 {
	n := 0.0
	for _, vocabulary := range domainKeywords {
		if countMatches(words, vocabulary) > 0 {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
