// Package swarm provides multi-agent task routing and coordination.
//
// Control flow for one request: classify -> select agents -> coordinate
// (decompose, dispatch, collect) -> synthesize. Pattern memory is read
// during classification and written after coordination, forming the only
// feedback loop in the system.
package swarm

import (
	"time"

	"github.com/google/uuid"

	"github.com/X10NLUN1X/xionimus/agent"
	"github.com/X10NLUN1X/xionimus/model"
)

// Indicator names produced by the classifier.
const (
	IndicatorLength      = "length"
	IndicatorKeywords    = "keywords"
	IndicatorTechnical   = "technical_depth"
	IndicatorMultiDomain = "multi_domain"
	IndicatorContext     = "context_dependency"
)

// ClassifiedRequest is the immutable result of classifying one request.
type ClassifiedRequest struct {
	// RawText is the original request text.
	RawText string `json:"raw_text"`

	// Indicators maps indicator name to a value in [0,1].
	Indicators map[string]float64 `json:"indicators"`

	// Score is the aggregate complexity score, clamped to [0,10].
	Score float64 `json:"score"`

	// Tier is derived deterministically from Score.
	Tier model.ComplexityTier `json:"tier"`
}

// Selection is the agent set chosen for a classified request.
type Selection struct {
	// Agents are the primary agents, capped at the configured maximum.
	Agents []agent.Kind

	// SubAgents are descriptive specialist labels for complex tasks.
	// They are labels only and are never dispatched.
	SubAgents []string

	// Mode governs how the agents collaborate.
	Mode model.CollaborationMode

	// FellBack reports that no recommendation cleared the confidence
	// threshold and a single best-effort agent was chosen instead.
	FellBack bool
}

// ProgressStep records one coordination event within a swarm run.
type ProgressStep struct {
	Agent  string    `json:"agent"`
	Status string    `json:"status"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// SwarmTask is one orchestration run. Created when a run starts, mutated
// by the coordinator as steps complete, and removed from the active-task
// table when the run finishes. No persistence across requests.
type SwarmTask struct {
	ID         uuid.UUID
	Request    string
	Classified ClassifiedRequest
	Agents     []agent.Kind
	SubAgents  []string
	Mode       model.CollaborationMode
	Progress   []ProgressStep
	CreatedAt  time.Time
}

// NewSwarmTask creates a task for one orchestration run.
func NewSwarmTask(request string, classified ClassifiedRequest, sel Selection) *SwarmTask {
	return &SwarmTask{
		ID:         uuid.New(),
		Request:    request,
		Classified: classified,
		Agents:     sel.Agents,
		SubAgents:  sel.SubAgents,
		Mode:       sel.Mode,
		CreatedAt:  time.Now(),
	}
}

// AgentResult is one agent's outcome within a swarm run.
type AgentResult struct {
	Kind    agent.Kind `json:"-"`
	Agent   string     `json:"agent"`
	Status  string     `json:"status"`
	Content string     `json:"content,omitempty"`
	Error   string     `json:"error,omitempty"`

	// Seconds is the wall-clock execution time of the invocation.
	Seconds float64 `json:"execution_time_seconds"`

	// Quality is a heuristic result-quality score in [0,1].
	Quality float64 `json:"quality"`
}

// Completed reports whether this agent finished successfully.
func (r AgentResult) Completed() bool {
	return r.Status == agent.StatusCompleted
}

// Coordination summarizes how a swarm run went.
type Coordination struct {
	Mode         model.CollaborationMode `json:"mode"`
	SuccessRate  float64                 `json:"success_rate"`
	TotalSeconds float64                 `json:"total_seconds"`
	AvgSeconds   float64                 `json:"avg_agent_seconds"`

	// TimeBalance is min/max agent execution time, 1.0 when perfectly
	// balanced. Feeds the coordination-quality blend.
	TimeBalance float64 `json:"time_balance"`

	// Quality is 70% success rate, 30% time balance.
	Quality float64 `json:"quality"`
}

// RunOutcome is everything a swarm run produced.
type RunOutcome struct {
	Results      []AgentResult
	Coordination Coordination
}

// DiscoveredPattern is a recorded characteristic vector plus outcome from
// a past successful swarm run, used to bias future complexity scoring.
// The collaboration mode is a dedicated field, not a characteristic
// dimension, so it never dilutes the match ratio.
type DiscoveredPattern struct {
	ID                  uuid.UUID               `json:"pattern_id"`
	SuccessRate         float64                 `json:"success_rate"`
	AgentCombination    []string                `json:"agent_combination"`
	Mode                model.CollaborationMode `json:"collaboration_mode"`
	TaskCharacteristics map[string]float64      `json:"task_characteristics"`
	PerformanceMetrics  map[string]float64      `json:"performance_metrics"`
	DiscoveredAt        time.Time               `json:"discovered_at"`
	UsageCount          int                     `json:"usage_count"`
}

// Synthesis statuses.
const (
	SynthesisSuccess = "success"
	SynthesisError   = "error"
)

// Synthesis merges multiple agents' raw outputs into one final answer.
type Synthesis struct {
	Status string `json:"status"`

	// Primary is the display name of the agent whose result was chosen.
	Primary string `json:"primary,omitempty"`

	// Content is the primary agent's output.
	Content string `json:"content,omitempty"`

	// Contributors lists every agent that completed.
	Contributors []string `json:"contributors,omitempty"`

	// PartialErrors lists failed agents' messages when at least one
	// agent succeeded.
	PartialErrors []string `json:"partial_errors,omitempty"`

	// Errors enumerates all per-agent failures when nothing succeeded.
	Errors []string `json:"errors,omitempty"`

	// Insights are templated annotations, not computed analysis.
	Insights []string `json:"collective_insights,omitempty"`
}

// SwarmResponse is the caller-facing result of one orchestration.
// The caller always receives a well-formed response, never a panic.
type SwarmResponse struct {
	TaskID       uuid.UUID               `json:"task_id"`
	Tier         model.ComplexityTier    `json:"complexity_tier"`
	Score        float64                 `json:"complexity_score"`
	Agents       []string                `json:"assigned_agents"`
	SubAgents    []string                `json:"sub_agents,omitempty"`
	Mode         model.CollaborationMode `json:"collaboration_mode"`
	Synthesis    Synthesis               `json:"synthesis"`
	Coordination Coordination            `json:"coordination"`
}
