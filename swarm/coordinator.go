// Swarm coordination - decompose, dispatch, collect.
//
// Parallel mode fans out all agents concurrently and joins on completion;
// sequential and adaptive modes chain agents, each seeing the accumulated
// results of its predecessors. Per-agent failures are recorded without
// aborting siblings; the synthesizer decides what a fully failed run means.
//
// Information Hiding:
// - Dispatch strategy per mode hidden
// - Active-task bookkeeping hidden
// - Pattern recording hidden

package swarm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/X10NLUN1X/xionimus/agent"
	"github.com/X10NLUN1X/xionimus/model"
)

// qualityLengthTarget is the output length at which the length bonus of
// the result-quality heuristic saturates.
const qualityLengthTarget = 800

// Coordinator runs swarm tasks against an injected invoker.
type Coordinator struct {
	invoker  agent.Invoker
	patterns PatternStore

	mu     sync.Mutex
	active map[uuid.UUID]*SwarmTask

	verbose bool
}

// NewCoordinator creates a coordinator.
func NewCoordinator(invoker agent.Invoker, patterns PatternStore) *Coordinator {
	return &Coordinator{
		invoker:  invoker,
		patterns: patterns,
		active:   make(map[uuid.UUID]*SwarmTask),
	}
}

// Verbose enables progress output during runs.
func (c *Coordinator) Verbose(enabled bool) *Coordinator {
	c.verbose = enabled
	return c
}

// ActiveCount returns the number of in-flight swarm tasks.
func (c *Coordinator) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Run executes the task's agents per its collaboration mode and records a
// pattern when the run succeeds broadly enough. Zero successful agents is
// not an error here; the synthesizer turns it into a structured payload.
func (c *Coordinator) Run(ctx context.Context, task *SwarmTask) RunOutcome {
	c.register(task)
	defer c.unregister(task)

	started := time.Now()

	var results []AgentResult
	if task.Mode == model.ModeParallel {
		results = c.runParallel(ctx, task)
	} else {
		results = c.runChained(ctx, task)
	}

	outcome := RunOutcome{
		Results:      results,
		Coordination: summarize(task.Mode, results, time.Since(started)),
	}

	if c.patterns != nil && outcome.Coordination.SuccessRate >= patternSuccessThreshold && len(results) > 0 {
		// Best-effort: a failed write must not fail the run.
		_ = c.patterns.Record(ctx, buildPattern(task, outcome))
	}

	return outcome
}

// runParallel fans out every agent concurrently and waits for all of them.
// All invocations are issued before any result is consumed.
func (c *Coordinator) runParallel(ctx context.Context, task *SwarmTask) []AgentResult {
	results := make([]AgentResult, len(task.Agents))

	var wg sync.WaitGroup
	for i, kind := range task.Agents {
		wg.Add(1)
		go func(i int, kind agent.Kind) {
			defer wg.Done()
			results[i] = c.invokeOne(ctx, task, kind, nil)
		}(i, kind)
	}
	wg.Wait()

	return results
}

// runChained runs agents one at a time; agent N observes the results of
// agents 1..N-1 through the accumulated context.
func (c *Coordinator) runChained(ctx context.Context, task *SwarmTask) []AgentResult {
	results := make([]AgentResult, 0, len(task.Agents))
	accumulated := make(map[string]string)

	for _, kind := range task.Agents {
		res := c.invokeOne(ctx, task, kind, accumulated)
		results = append(results, res)

		if res.Completed() {
			accumulated[res.Agent+"_output"] = res.Content
		}
	}

	return results
}

// invokeOne dispatches a single agent with timing and failure capture.
// A failing invocation becomes an error entry; it never propagates.
func (c *Coordinator) invokeOne(ctx context.Context, task *SwarmTask, kind agent.Kind, extra map[string]string) AgentResult {
	prompt := kind.SubPrompt(task.Request)
	c.progress(task, kind.String(), "dispatched", "")

	if c.verbose {
		fmt.Printf("[swarm %s] -> %s\n", shortID(task.ID), kind)
	}

	started := time.Now()
	invocation, err := c.safeInvoke(ctx, kind, prompt, extra)
	seconds := time.Since(started).Seconds()

	if err != nil {
		c.progress(task, kind.String(), "error", err.Error())
		return AgentResult{
			Kind:    kind,
			Agent:   kind.String(),
			Status:  agent.StatusError,
			Error:   err.Error(),
			Seconds: seconds,
		}
	}

	if invocation.Status == agent.StatusError {
		c.progress(task, kind.String(), "error", invocation.Error)
		return AgentResult{
			Kind:    kind,
			Agent:   kind.String(),
			Status:  agent.StatusError,
			Error:   invocation.Error,
			Seconds: seconds,
		}
	}

	result := AgentResult{
		Kind:    kind,
		Agent:   kind.String(),
		Status:  agent.StatusCompleted,
		Content: invocation.Content,
		Seconds: seconds,
	}
	result.Quality = resultQuality(result)

	c.progress(task, kind.String(), "completed", "")
	return result
}

// safeInvoke converts invoker panics into errors so one agent can never
// take down its siblings.
func (c *Coordinator) safeInvoke(ctx context.Context, kind agent.Kind, prompt string, extra map[string]string) (res agent.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent %q panicked: %v", kind, r)
		}
	}()
	return c.invoker.Invoke(ctx, kind, prompt, extra)
}

// resultQuality is the heuristic result-quality score:
// 0.5 base + 0.3 for completion + up to 0.2 scaled by output length.
func resultQuality(r AgentResult) float64 {
	quality := 0.5
	if r.Completed() {
		quality += 0.3
	}

	lengthShare := float64(len(r.Content)) / qualityLengthTarget
	if lengthShare > 1 {
		lengthShare = 1
	}
	quality += 0.2 * lengthShare

	return quality
}

// summarize computes the run's coordination metadata. The coordination
// quality blends success rate (70%) with execution-time balance (30%).
func summarize(mode model.CollaborationMode, results []AgentResult, elapsed time.Duration) Coordination {
	coord := Coordination{
		Mode:         mode,
		TotalSeconds: elapsed.Seconds(),
		TimeBalance:  1,
	}

	if len(results) == 0 {
		return coord
	}

	completed := 0
	sum, min, max := 0.0, results[0].Seconds, results[0].Seconds
	for _, r := range results {
		if r.Completed() {
			completed++
		}
		sum += r.Seconds
		if r.Seconds < min {
			min = r.Seconds
		}
		if r.Seconds > max {
			max = r.Seconds
		}
	}

	coord.SuccessRate = float64(completed) / float64(len(results))
	coord.AvgSeconds = sum / float64(len(results))
	if max > 0 {
		coord.TimeBalance = min / max
	}
	coord.Quality = 0.7*coord.SuccessRate + 0.3*coord.TimeBalance

	return coord
}

func (c *Coordinator) register(task *SwarmTask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[task.ID] = task
}

func (c *Coordinator) unregister(task *SwarmTask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, task.ID)
}

// progress appends a step to the task under the coordinator's lock;
// parallel dispatch writes steps concurrently.
func (c *Coordinator) progress(task *SwarmTask, agentName, status, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	task.Progress = append(task.Progress, ProgressStep{
		Agent:  agentName,
		Status: status,
		Detail: detail,
		At:     time.Now(),
	})
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
