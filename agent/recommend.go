// Capability recommendation - ranks agent kinds for a request.
//
// The selector consumes this as an injected collaborator; the default
// implementation is plain keyword matching, which is all the routing
// intelligence the system carries.

package agent

import (
	"strings"

	"github.com/X10NLUN1X/xionimus/model"
)

// Recommendation ranks agent kinds by confidence for one request.
type Recommendation struct {
	// Confidence maps each candidate kind to a score in [0,1].
	Confidence map[Kind]float64

	// Primary is the detected primary domain of the request.
	Primary model.Domain
}

// Recommender scores agent kinds for a request.
type Recommender interface {
	// Recommend returns per-kind confidence and the primary domain.
	Recommend(text string, convCtx map[string]string) Recommendation

	// Fallback picks a single best-effort kind when no recommendation
	// clears the selector's confidence threshold.
	Fallback(text string) Kind
}

// KeywordRecommender scores kinds by keyword density in the request text.
type KeywordRecommender struct{}

// NewKeywordRecommender creates the default keyword-based recommender.
func NewKeywordRecommender() *KeywordRecommender {
	return &KeywordRecommender{}
}

// Confidence starts at a base per keyword hit; two hits clear the
// selector's 0.4 threshold.
const keywordConfidenceStep = 0.2

// Recommend scores every kind by how many of its keywords appear in the text.
func (r *KeywordRecommender) Recommend(text string, convCtx map[string]string) Recommendation {
	lower := strings.ToLower(text)

	confidence := make(map[Kind]float64, len(AllKinds))
	best := KindCode
	bestScore := 0.0

	for _, kind := range AllKinds {
		score := 0.0
		for _, kw := range kind.Spec().Keywords {
			if strings.Contains(lower, kw) {
				score += keywordConfidenceStep
			}
		}
		if score > 1 {
			score = 1
		}
		confidence[kind] = score
		if score > bestScore {
			bestScore = score
			best = kind
		}
	}

	primary := model.DomainGeneral
	if bestScore > 0 {
		primary = best.Domain()
	}

	return Recommendation{Confidence: confidence, Primary: primary}
}

// Fallback returns the first kind with any keyword hit, defaulting to the
// code agent for requests that match nothing.
func (r *KeywordRecommender) Fallback(text string) Kind {
	lower := strings.ToLower(text)
	for _, kind := range AllKinds {
		for _, kw := range kind.Spec().Keywords {
			if strings.Contains(lower, kw) {
				return kind
			}
		}
	}
	return KindCode
}

// Verify KeywordRecommender implements Recommender
var _ Recommender = (*KeywordRecommender)(nil)
