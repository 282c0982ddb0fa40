// Agent invocation - the boundary between the orchestration core and LLMs.
//
// The core treats invocation purely as an interface; any conforming
// implementation is acceptable (real providers, mocks, recordings).
//
// Information Hiding:
// - Per-kind provider client construction hidden
// - Timeout enforcement hidden

package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/X10NLUN1X/xionimus/config"
	"github.com/X10NLUN1X/xionimus/llm"
)

// Result statuses reported by invokers.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Result is the outcome of a single agent invocation.
type Result struct {
	Status  string `json:"status"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Completed reports whether the invocation finished successfully.
func (r Result) Completed() bool {
	return r.Status == StatusCompleted
}

// Invoker dispatches a prompt to a specific agent kind.
//
// Implementations MUST enforce a per-call deadline: a hung upstream call
// must surface as an error result, never block forever. The coordinator
// treats a timeout like any other per-agent failure.
type Invoker interface {
	Invoke(ctx context.Context, kind Kind, prompt string, extra map[string]string) (Result, error)
}

// LLMInvoker dispatches to real LLM providers via the catalog's
// per-kind (provider, model) assignment.
type LLMInvoker struct {
	clients map[Kind]*llm.Client
	timeout time.Duration
	verbose bool
}

// DefaultInvokeTimeout bounds a single agent call.
const DefaultInvokeTimeout = 120 * time.Second

// NewLLMInvoker builds clients for every agent kind from API keys in the
// environment, applying the shared generation tuning (LLM_MAX_TOKENS,
// LLM_TEMPERATURE). Kinds whose provider has no key configured are
// skipped; invoking them returns an error result.
func NewLLMInvoker(timeout time.Duration) (*LLMInvoker, error) {
	if timeout <= 0 {
		timeout = DefaultInvokeTimeout
	}

	maxTokens, temperature, err := config.NewTuning()
	if err != nil {
		return nil, err
	}

	clients := make(map[Kind]*llm.Client)
	for _, kind := range AllKinds {
		spec := kind.Spec()
		provider, err := spec.Provider.Model(spec.Model).
			MaxTokens(maxTokens).
			Temperature(float32(temperature)).
			FromEnv()
		if err != nil {
			continue // provider not configured; kind stays unavailable
		}
		clients[kind] = llm.NewClient(provider)
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no LLM provider configured: set at least one of OPENAI_API_KEY, ANTHROPIC_API_KEY, PERPLEXITY_API_KEY")
	}

	return &LLMInvoker{clients: clients, timeout: timeout}, nil
}

// WithClient overrides the client for a kind (useful for tests and
// single-provider deployments).
func (inv *LLMInvoker) WithClient(kind Kind, client *llm.Client) *LLMInvoker {
	inv.clients[kind] = client
	return inv
}

// Verbose enables progress output during invocations.
func (inv *LLMInvoker) Verbose(enabled bool) *LLMInvoker {
	inv.verbose = enabled
	return inv
}

// Available reports whether a kind has a configured client.
func (inv *LLMInvoker) Available(kind Kind) bool {
	_, ok := inv.clients[kind]
	return ok
}

// Invoke sends the prompt to the kind's bound model with a hard deadline.
func (inv *LLMInvoker) Invoke(ctx context.Context, kind Kind, prompt string, extra map[string]string) (Result, error) {
	client, ok := inv.clients[kind]
	if !ok {
		return Result{}, fmt.Errorf("agent %q has no configured provider (%s)", kind, kind.Spec().Provider)
	}

	callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	messages := []llm.ChatMessage{
		llm.SystemMessage(kind.Spec().SystemPrompt),
	}
	if section := renderExtra(extra); section != "" {
		messages = append(messages, llm.UserMessage(section))
	}
	messages = append(messages, llm.UserMessage(prompt))

	if inv.verbose {
		fmt.Printf("[%s] invoking %s/%s\n", kind, kind.Spec().Provider, kind.Spec().Model)
		content, err := inv.streamInvoke(callCtx, kind, client, messages)
		if err != nil {
			return Result{}, fmt.Errorf("agent %q invocation failed: %w", kind, err)
		}
		return Result{Status: StatusCompleted, Content: content}, nil
	}

	content, err := client.Chat(callCtx, messages)
	if err != nil {
		return Result{}, fmt.Errorf("agent %q invocation failed: %w", kind, err)
	}

	return Result{Status: StatusCompleted, Content: content}, nil
}

// streamInvoke prints chunks as they arrive and assembles the full reply.
// The invoker owns the chunk channel; the provider only sends on it.
func (inv *LLMInvoker) streamInvoke(ctx context.Context, kind Kind, client *llm.Client, messages []llm.ChatMessage) (string, error) {
	chunks := make(chan string)
	done := make(chan struct{})

	var reply strings.Builder
	go func() {
		defer close(done)
		for chunk := range chunks {
			reply.WriteString(chunk)
			fmt.Print(chunk)
		}
	}()

	usage, err := client.StreamChat(ctx, messages, chunks)
	close(chunks)
	<-done
	fmt.Println()

	if err != nil {
		return "", err
	}
	if usage != nil {
		fmt.Printf("[%s] %d tokens (%d prompt, %d completion)\n",
			kind, usage.TotalTokens, usage.PromptTokens, usage.CompletionTokens)
	}

	return reply.String(), nil
}

// renderExtra formats collaboration context (prior agent results, session
// state) as a prompt section. Keys are sorted for deterministic prompts.
func renderExtra(extra map[string]string) string {
	if len(extra) == 0 {
		return ""
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Context from prior work:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, extra[k])
	}
	return b.String()
}

// Verify LLMInvoker implements Invoker
var _ Invoker = (*LLMInvoker)(nil)
