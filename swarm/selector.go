// Agent selection - maps a classified request to a ranked agent set.
//
// Primary ranking comes from the injected recommender; complementary
// agents and sub-agent labels come from keyword matching. Hard caps:
// 4 primary agents, 3 sub-agent labels.

package swarm

import (
	"sort"
	"strings"

	"github.com/X10NLUN1X/xionimus/agent"
	"github.com/X10NLUN1X/xionimus/model"
)

// confidenceThreshold filters recommender output; below it the selector
// falls back to a single best-effort agent.
const confidenceThreshold = 0.4

// Default hard caps on a swarm's size.
const (
	DefaultMaxAgents    = 4
	DefaultMaxSubAgents = 3
)

// Complementary kinds appended by keyword match after the primary ranking.
var complementaryKinds = []agent.Kind{
	agent.KindResearch, agent.KindWriting, agent.KindQA, agent.KindData,
}

// subAgentLabel pairs a trigger keyword with a specialist label.
// Sub-agents are descriptive only; nothing dispatches them.
type subAgentLabel struct {
	keyword string
	label   string
}

var subAgentLabels = []subAgentLabel{
	{"ui", "UI/UX Specialist"},
	{"frontend", "UI/UX Specialist"},
	{"database", "Database Architecture"},
	{"schema", "Database Architecture"},
	{"security", "Security Audit"},
	{"authentication", "Security Audit"},
	{"performance", "Performance Tuning"},
	{"latency", "Performance Tuning"},
	{"api", "API Design"},
	{"deploy", "Deployment Engineering"},
	{"deployment", "Deployment Engineering"},
}

// Selector chooses agents for a classified request.
type Selector struct {
	recommender  agent.Recommender
	maxAgents    int
	maxSubAgents int
}

// NewSelector creates a selector with the default caps.
func NewSelector(recommender agent.Recommender) *Selector {
	return &Selector{
		recommender:  recommender,
		maxAgents:    DefaultMaxAgents,
		maxSubAgents: DefaultMaxSubAgents,
	}
}

// WithCaps overrides the primary and sub-agent caps.
func (s *Selector) WithCaps(maxAgents, maxSubAgents int) *Selector {
	if maxAgents > 0 {
		s.maxAgents = maxAgents
	}
	if maxSubAgents >= 0 {
		s.maxSubAgents = maxSubAgents
	}
	return s
}

// Select produces the agent set and collaboration mode for a request.
// The conversation context is forwarded to the recommender. The returned
// agents contain no duplicates and never exceed the caps.
func (s *Selector) Select(req ClassifiedRequest, convCtx map[string]string) Selection {
	rec := s.recommender.Recommend(req.RawText, convCtx)

	agents, fellBack := s.rankPrimary(rec.Confidence)
	if fellBack {
		agents = []agent.Kind{s.recommender.Fallback(req.RawText)}
	}

	agents = s.appendComplementary(agents, req.RawText)

	var subAgents []string
	if req.Tier == model.TierComplex || req.Tier == model.TierAdaptive {
		subAgents = s.deriveSubAgents(req.RawText)
	}

	return Selection{
		Agents:    agents,
		SubAgents: subAgents,
		Mode:      collaborationMode(req.Tier, len(agents)),
		FellBack:  fellBack,
	}
}

// rankPrimary keeps recommendations at or above the confidence threshold,
// sorted descending with the catalog order as a deterministic tie-break.
func (s *Selector) rankPrimary(confidence map[agent.Kind]float64) ([]agent.Kind, bool) {
	type ranked struct {
		kind agent.Kind
		conf float64
	}

	var candidates []ranked
	for _, kind := range agent.AllKinds {
		if conf, ok := confidence[kind]; ok && conf >= confidenceThreshold {
			candidates = append(candidates, ranked{kind, conf})
		}
	}

	if len(candidates) == 0 {
		return nil, true
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].conf > candidates[j].conf
	})

	if len(candidates) > s.maxAgents {
		candidates = candidates[:s.maxAgents]
	}

	agents := make([]agent.Kind, len(candidates))
	for i, c := range candidates {
		agents[i] = c.kind
	}
	return agents, false
}

// appendComplementary adds keyword-matched support agents up to the cap.
func (s *Selector) appendComplementary(agents []agent.Kind, text string) []agent.Kind {
	lower := strings.ToLower(text)

	present := make(map[agent.Kind]bool, len(agents))
	for _, k := range agents {
		present[k] = true
	}

	for _, kind := range complementaryKinds {
		if len(agents) >= s.maxAgents {
			break
		}
		if present[kind] {
			continue
		}
		for _, kw := range kind.Spec().Keywords {
			if strings.Contains(lower, kw) {
				agents = append(agents, kind)
				present[kind] = true
				break
			}
		}
	}

	return agents
}

// deriveSubAgents picks up to maxSubAgents specialist labels by keyword.
func (s *Selector) deriveSubAgents(text string) []string {
	words := tokenize(text)

	var labels []string
	seen := make(map[string]bool)
	for _, sl := range subAgentLabels {
		if len(labels) >= s.maxSubAgents {
			break
		}
		if words[sl.keyword] && !seen[sl.label] {
			labels = append(labels, sl.label)
			seen[sl.label] = true
		}
	}
	return labels
}

// collaborationMode decides how the selected agents run.
func collaborationMode(tier model.ComplexityTier, agentCount int) model.CollaborationMode {
	switch {
	case tier == model.TierSimple || agentCount <= 1:
		return model.ModeSequential
	case tier == model.TierAdaptive:
		return model.ModeAdaptive
	default:
		return model.ModeParallel
	}
}
