// Result synthesis - merges per-agent outputs into one answer.
//
// The primary result is chosen by fixed agent priority; everything else
// becomes contributor metadata. Insight annotation is an explicit
// post-processing step producing templated strings, not analysis.

package swarm

import (
	"fmt"
	"strings"

	"github.com/X10NLUN1X/xionimus/agent"
)

// synthesisPriority is the fixed order for picking the primary result.
var synthesisPriority = []agent.Kind{
	agent.KindCode, agent.KindResearch, agent.KindWriting, agent.KindData,
}

// Insight thresholds.
const (
	insightWordThreshold  = 50
	insightAgentThreshold = 3
)

// Synthesize merges agents' raw outputs into a single result.
//
// When no agent succeeded the synthesis is a structured error payload
// enumerating every per-agent failure; the caller never sees an exception.
func Synthesize(results []AgentResult) Synthesis {
	var completed []AgentResult
	var failures []string
	for _, r := range results {
		if r.Status != agent.StatusError {
			completed = append(completed, r)
		} else {
			failures = append(failures, fmt.Sprintf("%s: %s", r.Agent, r.Error))
		}
	}

	if len(completed) == 0 {
		return Synthesis{
			Status: SynthesisError,
			Errors: failures,
		}
	}

	primary := pickPrimary(completed)

	contributors := make([]string, len(completed))
	for i, r := range completed {
		contributors[i] = r.Agent
	}

	return Synthesis{
		Status:        SynthesisSuccess,
		Primary:       primary.Agent,
		Content:       primary.Content,
		Contributors:  contributors,
		PartialErrors: failures,
		Insights:      Annotate(completed),
	}
}

// pickPrimary walks the fixed priority order, falling back to the first
// completed result when no priority kind contributed.
func pickPrimary(completed []AgentResult) AgentResult {
	for _, kind := range synthesisPriority {
		for _, r := range completed {
			if r.Kind == kind && r.Completed() {
				return r
			}
		}
	}
	return completed[0]
}

// Annotate produces the canned collective-insight strings. These are
// threshold-triggered annotations kept for behavioral compatibility;
// replacing them with real analysis is a localized change here.
func Annotate(completed []AgentResult) []string {
	var insights []string

	totalWords := 0
	for _, r := range completed {
		totalWords += len(strings.Fields(r.Content))
	}

	if totalWords >= insightWordThreshold {
		insights = append(insights, "Collective intelligence identified a complex multi-domain solution")
	}
	if len(completed) >= insightAgentThreshold {
		insights = append(insights, "Multi-agent collaboration produced a comprehensive solution")
	}

	return insights
}
