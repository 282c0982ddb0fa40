// Orchestrator - the top of the pipeline.
//
// request text -> classifier -> selector -> coordinator -> synthesizer.
// Pattern memory is read during classification and written by the
// coordinator after execution.

package swarm

import (
	"context"

	"github.com/X10NLUN1X/xionimus/agent"
)

// Config holds orchestration tuning knobs.
type Config struct {
	// MaxAgents caps primary agents per swarm.
	MaxAgents int

	// MaxSubAgents caps descriptive sub-agent labels.
	MaxSubAgents int
}

// DefaultConfig returns the default orchestration configuration.
func DefaultConfig() Config {
	return Config{
		MaxAgents:    DefaultMaxAgents,
		MaxSubAgents: DefaultMaxSubAgents,
	}
}

// Orchestrator wires the pipeline together.
// Safe for concurrent use: all mutable state lives in the injected
// pattern store and the coordinator's active-task table, both locked.
type Orchestrator struct {
	classifier  *Classifier
	selector    *Selector
	coordinator *Coordinator
}

// NewOrchestrator builds the pipeline from its collaborators.
func NewOrchestrator(cfg Config, invoker agent.Invoker, recommender agent.Recommender, patterns PatternStore) *Orchestrator {
	return &Orchestrator{
		classifier:  NewClassifier(patterns),
		selector:    NewSelector(recommender).WithCaps(cfg.MaxAgents, cfg.MaxSubAgents),
		coordinator: NewCoordinator(invoker, patterns),
	}
}

// Verbose enables progress output across the pipeline.
func (o *Orchestrator) Verbose(enabled bool) *Orchestrator {
	o.coordinator.Verbose(enabled)
	return o
}

// Classifier exposes the classifier for offline classification.
func (o *Orchestrator) Classifier() *Classifier {
	return o.classifier
}

// Coordinator exposes the coordinator (active-task inspection).
func (o *Orchestrator) Coordinator() *Coordinator {
	return o.coordinator
}

// Orchestrate runs the full pipeline for one request. The response is
// always well-formed: per-agent failures surface as partial errors and a
// fully failed swarm surfaces as an error synthesis, never as a panic.
func (o *Orchestrator) Orchestrate(ctx context.Context, text string, convCtx map[string]string) SwarmResponse {
	classified := o.classifier.Classify(ctx, text, convCtx)
	selection := o.selector.Select(classified, convCtx)

	task := NewSwarmTask(text, classified, selection)
	outcome := o.coordinator.Run(ctx, task)

	agents := make([]string, len(task.Agents))
	for i, k := range task.Agents {
		agents[i] = k.String()
	}

	return SwarmResponse{
		TaskID:       task.ID,
		Tier:         classified.Tier,
		Score:        classified.Score,
		Agents:       agents,
		SubAgents:    task.SubAgents,
		Mode:         task.Mode,
		Synthesis:    Synthesize(outcome.Results),
		Coordination: outcome.Coordination,
	}
}
