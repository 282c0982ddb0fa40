package swarm

import (
	"testing"

	"github.com/X10NLUN1X/xionimus/agent"
	"github.com/X10NLUN1X/xionimus/model"
)

// fakeRecommender returns scripted confidence scores.
type fakeRecommender struct {
	confidence map[agent.Kind]float64
	fallback   agent.Kind
}

func (f fakeRecommender) Recommend(text string, convCtx map[string]string) agent.Recommendation {
	return agent.Recommendation{Confidence: f.confidence}
}

func (f fakeRecommender) Fallback(text string) agent.Kind {
	return f.fallback
}

// capturingRecommender records the conversation context it receives.
type capturingRecommender struct {
	got map[string]string
}

func (c *capturingRecommender) Recommend(text string, convCtx map[string]string) agent.Recommendation {
	c.got = convCtx
	return agent.Recommendation{Confidence: map[agent.Kind]float64{agent.KindCode: 0.9}}
}

func (c *capturingRecommender) Fallback(text string) agent.Kind {
	return agent.KindCode
}

func TestSelectForwardsConversationContext(t *testing.T) {
	rec := &capturingRecommender{}
	s := NewSelector(rec)

	convCtx := map[string]string{"session_topic": "payments refactor"}
	s.Select(ClassifiedRequest{RawText: "solve this problem", Tier: model.TierModerate}, convCtx)

	if rec.got["session_topic"] != "payments refactor" {
		t.Errorf("expected conversation context forwarded to recommender, got %v", rec.got)
	}
}

func TestSelectCapsPrimaryAgents(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{
		agent.KindCode:     0.9,
		agent.KindResearch: 0.8,
		agent.KindWriting:  0.7,
		agent.KindData:     0.6,
		agent.KindQA:       0.5,
	}}
	s := NewSelector(rec)

	sel := s.Select(ClassifiedRequest{RawText: "solve this problem", Tier: model.TierModerate}, nil)

	if len(sel.Agents) != DefaultMaxAgents {
		t.Fatalf("expected %d agents, got %d", DefaultMaxAgents, len(sel.Agents))
	}
	want := []agent.Kind{agent.KindCode, agent.KindResearch, agent.KindWriting, agent.KindData}
	for i, k := range want {
		if sel.Agents[i] != k {
			t.Errorf("agent %d: expected %s, got %s", i, k, sel.Agents[i])
		}
	}
	if sel.FellBack {
		t.Error("expected no fallback with confident recommendations")
	}
}

func TestSelectSortsByConfidence(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{
		agent.KindCode:    0.5,
		agent.KindWriting: 0.9,
	}}
	s := NewSelector(rec)

	sel := s.Select(ClassifiedRequest{RawText: "solve this problem", Tier: model.TierModerate}, nil)

	if len(sel.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(sel.Agents))
	}
	if sel.Agents[0] != agent.KindWriting {
		t.Errorf("expected Writing Agent first, got %s", sel.Agents[0])
	}
	if sel.Agents[1] != agent.KindCode {
		t.Errorf("expected Code Agent second, got %s", sel.Agents[1])
	}
}

func TestSelectFallbackBelowThreshold(t *testing.T) {
	rec := fakeRecommender{
		confidence: map[agent.Kind]float64{agent.KindCode: 0.2, agent.KindQA: 0.39},
		fallback:   agent.KindWriting,
	}
	s := NewSelector(rec)

	sel := s.Select(ClassifiedRequest{RawText: "solve this problem", Tier: model.TierModerate}, nil)

	if !sel.FellBack {
		t.Error("expected fallback when nothing clears the threshold")
	}
	if len(sel.Agents) != 1 || sel.Agents[0] != agent.KindWriting {
		t.Errorf("expected single Writing Agent, got %v", sel.Agents)
	}
	if sel.Mode != model.ModeSequential {
		t.Errorf("expected sequential mode for single agent, got %s", sel.Mode)
	}
}

func TestSelectAppendsComplementaryAgents(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{agent.KindCode: 0.9}}
	s := NewSelector(rec)

	sel := s.Select(ClassifiedRequest{
		RawText: "implement the pipeline, test it and add data checks",
		Tier:    model.TierModerate,
	}, nil)

	want := []agent.Kind{agent.KindCode, agent.KindQA, agent.KindData}
	if len(sel.Agents) != len(want) {
		t.Fatalf("expected %d agents, got %v", len(want), sel.Agents)
	}
	for i, k := range want {
		if sel.Agents[i] != k {
			t.Errorf("agent %d: expected %s, got %s", i, k, sel.Agents[i])
		}
	}
}

func TestSelectNoDuplicateAgents(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{
		agent.KindCode: 0.9,
		agent.KindData: 0.8,
	}}
	s := NewSelector(rec)

	// "data" would also trigger Data Agent as complementary.
	sel := s.Select(ClassifiedRequest{RawText: "analyze the data", Tier: model.TierModerate}, nil)

	seen := make(map[agent.Kind]bool)
	for _, k := range sel.Agents {
		if seen[k] {
			t.Errorf("duplicate agent %s in %v", k, sel.Agents)
		}
		seen[k] = true
	}
}

func TestSelectSubAgentsForComplexTiers(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{agent.KindCode: 0.9}}
	s := NewSelector(rec)
	text := "frontend ui database security performance api deployment"

	simple := s.Select(ClassifiedRequest{RawText: text, Tier: model.TierSimple}, nil)
	if len(simple.SubAgents) != 0 {
		t.Errorf("expected no sub-agents for simple tier, got %v", simple.SubAgents)
	}

	hard := s.Select(ClassifiedRequest{RawText: text, Tier: model.TierComplex}, nil)
	if len(hard.SubAgents) != DefaultMaxSubAgents {
		t.Fatalf("expected %d sub-agents, got %v", DefaultMaxSubAgents, hard.SubAgents)
	}
	want := []string{"UI/UX Specialist", "Database Architecture", "Security Audit"}
	for i, label := range want {
		if hard.SubAgents[i] != label {
			t.Errorf("sub-agent %d: expected %q, got %q", i, label, hard.SubAgents[i])
		}
	}
}

func TestSelectSubAgentLabelsDeduplicated(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{agent.KindCode: 0.9}}
	s := NewSelector(rec)

	// "ui" and "frontend" map to the same specialist label.
	sel := s.Select(ClassifiedRequest{RawText: "ui frontend polish", Tier: model.TierComplex}, nil)

	if len(sel.SubAgents) != 1 {
		t.Errorf("expected 1 deduplicated label, got %v", sel.SubAgents)
	}
}

func TestSelectCollaborationMode(t *testing.T) {
	multi := map[agent.Kind]float64{agent.KindCode: 0.9, agent.KindWriting: 0.8}

	cases := []struct {
		name       string
		tier       model.ComplexityTier
		confidence map[agent.Kind]float64
		want       model.CollaborationMode
	}{
		{"simple tier", model.TierSimple, multi, model.ModeSequential},
		{"single agent", model.TierComplex, map[agent.Kind]float64{agent.KindCode: 0.9}, model.ModeSequential},
		{"complex multi-agent", model.TierComplex, multi, model.ModeParallel},
		{"moderate multi-agent", model.TierModerate, multi, model.ModeParallel},
		{"adaptive tier", model.TierAdaptive, multi, model.ModeAdaptive},
	}

	for _, c := range cases {
		s := NewSelector(fakeRecommender{confidence: c.confidence})
		sel := s.Select(ClassifiedRequest{RawText: "solve this problem", Tier: c.tier}, nil)
		if sel.Mode != c.want {
			t.Errorf("%s: expected %s mode, got %s", c.name, c.want, sel.Mode)
		}
	}
}

func TestSelectWithCaps(t *testing.T) {
	rec := fakeRecommender{confidence: map[agent.Kind]float64{
		agent.KindCode:     0.9,
		agent.KindResearch: 0.8,
		agent.KindWriting:  0.7,
	}}
	s := NewSelector(rec).WithCaps(2, 1)

	sel := s.Select(ClassifiedRequest{
		RawText: "frontend database security",
		Tier:    model.TierComplex,
	}, nil)

	if len(sel.Agents) != 2 {
		t.Errorf("expected 2 agents under custom cap, got %v", sel.Agents)
	}
	if len(sel.SubAgents) != 1 {
		t.Errorf("expected 1 sub-agent under custom cap, got %v", sel.SubAgents)
	}
}
