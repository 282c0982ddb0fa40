// Package agent provides the specialized agent catalog.
//
// An agent is a fixed (provider, model, prompt template) triple identified
// by a display name. The catalog is a closed set of kinds so that unknown
// agents are caught at compile time rather than by string lookups at runtime.
//
// Information Hiding:
// - Provider/model assignment per kind hidden behind Spec lookup
// - Prompt templates encapsulated

package agent

import (
	"fmt"

	"github.com/X10NLUN1X/xionimus/llm"
	"github.com/X10NLUN1X/xionimus/model"
)

// Kind identifies a specialized agent.
type Kind int

const (
	KindCode Kind = iota
	KindResearch
	KindWriting
	KindData
	KindQA
)

// AllKinds lists every agent kind in priority order.
// The order doubles as the synthesis priority: earlier kinds win when
// picking a primary result.
var AllKinds = []Kind{KindCode, KindResearch, KindWriting, KindData, KindQA}

// String returns the agent's display name.
func (k Kind) String() string {
	return k.Spec().Name
}

// Domain returns the subject area this kind serves.
func (k Kind) Domain() model.Domain {
	switch k {
	case KindCode:
		return model.DomainCode
	case KindResearch:
		return model.DomainResearch
	case KindWriting:
		return model.DomainWriting
	case KindData:
		return model.DomainDataAnalysis
	case KindQA:
		return model.DomainTesting
	default:
		return model.DomainGeneral
	}
}

// ParseKind parses a display name back into a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range AllKinds {
		if k.Spec().Name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown agent: %s", name)
}

// Spec describes an agent kind's fixed configuration.
type Spec struct {
	// Name is the display name (e.g. "Code Agent").
	Name string

	// Description explains what this agent does (used by recommenders).
	Description string

	// Provider is the LLM provider this agent is bound to.
	Provider llm.ProviderType

	// Model is the model identifier within the provider.
	Model string

	// SystemPrompt guides the agent's behavior.
	SystemPrompt string

	// Template is the sub-prompt template for task decomposition.
	// Applied with fmt.Sprintf to the request text.
	Template string

	// Keywords trigger this agent as a complementary selection.
	Keywords []string
}

var specs = map[Kind]Spec{
	KindCode: {
		Name:         "Code Agent",
		Description:  "Writes and reviews code, designs implementations",
		Provider:     llm.ProviderAnthropic,
		Model:        llm.ModelAnthropicClaudeSonnet4,
		SystemPrompt: "You are a senior software engineer. Produce working, well-structured code.",
		Template:     "Generate code implementation for: %s",
		Keywords:     []string{"code", "implement", "function", "bug", "debug", "refactor", "api"},
	},
	KindResearch: {
		Name:         "Research Agent",
		Description:  "Gathers background information and compares approaches",
		Provider:     llm.ProviderPerplexity,
		Model:        llm.ModelPerplexitySonar,
		SystemPrompt: "You are a research assistant. Give sourced, up-to-date answers.",
		Template:     "Research background and best practices for: %s",
		Keywords:     []string{"research", "find", "compare", "investigate", "latest", "search"},
	},
	KindWriting: {
		Name:         "Writing Agent",
		Description:  "Drafts documentation, explanations and prose",
		Provider:     llm.ProviderOpenAI,
		Model:        llm.ModelOpenAIGPT4o,
		SystemPrompt: "You are a technical writer. Write clear, structured prose.",
		Template:     "Write documentation or explanatory text for: %s",
		Keywords:     []string{"write", "document", "explain", "summarize", "draft", "readme"},
	},
	KindData: {
		Name:         "Data Agent",
		Description:  "Analyzes data, designs schemas and queries",
		Provider:     llm.ProviderOpenAI,
		Model:        llm.ModelOpenAIGPT4o,
		SystemPrompt: "You are a data analyst. Reason carefully about data and schemas.",
		Template:     "Analyze the data aspects of: %s",
		Keywords:     []string{"data", "analyze", "query", "schema", "statistics", "dataset"},
	},
	KindQA: {
		Name:         "QA Agent",
		Description:  "Designs tests and reviews solutions for defects",
		Provider:     llm.ProviderAnthropic,
		Model:        llm.ModelAnthropicClaudeHaiku35,
		SystemPrompt: "You are a QA engineer. Find defects and design tests.",
		Template:     "Design tests and review quality for: %s",
		Keywords:     []string{"test", "verify", "validate", "quality", "review", "coverage"},
	},
}

// Spec returns the fixed configuration for this kind.
func (k Kind) Spec() Spec {
	spec, ok := specs[k]
	if !ok {
		// Unknown kinds fall back to the code agent's spec; the closed
		// enum makes this unreachable from well-typed callers.
		return specs[KindCode]
	}
	return spec
}

// SubPrompt renders the kind's decomposition template for a request.
func (k Kind) SubPrompt(request string) string {
	return fmt.Sprintf(k.Spec().Template, request)
}
