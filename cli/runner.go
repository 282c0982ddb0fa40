// Command execution for CLI commands.
//
// Information Hiding:
// - Orchestrator setup hidden
// - Pattern store selection hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/X10NLUN1X/xionimus/agent"
	"github.com/X10NLUN1X/xionimus/config"
	"github.com/X10NLUN1X/xionimus/storage"
	"github.com/X10NLUN1X/xionimus/swarm"
)

// Options holds CLI execution options.
type Options struct {
	// DBPath is the SQLite path for persistent pattern memory.
	// Empty falls back to SWARM_PATTERN_DB, then to in-memory.
	DBPath string

	// Timeout overrides the per-agent invocation deadline.
	Timeout time.Duration

	Verbose bool
}

// Orchestrate runs the full swarm pipeline for one request and prints the
// synthesized result.
func Orchestrate(ctx context.Context, request string, opts Options) error {
	cfg, err := config.NewSwarm()
	if err != nil {
		return err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = cfg.AgentTimeout
	}

	invoker, err := agent.NewLLMInvoker(timeout)
	if err != nil {
		return err
	}
	if opts.Verbose {
		invoker = invoker.Verbose(true)
	}

	patterns, cleanup, err := openPatternStore(opts.DBPath, cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	orch := swarm.NewOrchestrator(swarm.Config{
		MaxAgents:    cfg.MaxAgents,
		MaxSubAgents: cfg.MaxSubAgents,
	}, invoker, agent.NewKeywordRecommender(), patterns).Verbose(opts.Verbose)

	fmt.Printf("Orchestrating request...\n\n")

	started := time.Now()
	resp := orch.Orchestrate(ctx, request, nil)

	printResponse(resp, time.Since(started))

	if resp.Synthesis.Status == swarm.SynthesisError {
		return fmt.Errorf("all agents failed")
	}
	return nil
}

// Classify scores a request without dispatching any agents and prints the
// classification plus the agent set that would run.
func Classify(ctx context.Context, request string, opts Options) error {
	cfg, err := config.NewSwarm()
	if err != nil {
		return err
	}

	patterns, cleanup, err := openPatternStore(opts.DBPath, cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	classified := swarm.NewClassifier(patterns).Classify(ctx, request, nil)
	selection := swarm.NewSelector(agent.NewKeywordRecommender()).
		WithCaps(cfg.MaxAgents, cfg.MaxSubAgents).
		Select(classified, nil)

	fmt.Printf("Score: %.2f (%s)\n\n", classified.Score, classified.Tier)

	fmt.Println("Indicators:")
	names := make([]string, 0, len(classified.Indicators))
	for name := range classified.Indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-20s %.2f\n", name, classified.Indicators[name])
	}

	fmt.Printf("\nWould dispatch (%s):\n", selection.Mode)
	for _, kind := range selection.Agents {
		spec := kind.Spec()
		fmt.Printf("  %s (%s/%s)\n", spec.Name, spec.Provider, spec.Model)
	}
	if selection.FellBack {
		fmt.Println("  (fallback: no recommendation cleared the confidence threshold)")
	}
	for _, label := range selection.SubAgents {
		fmt.Printf("  + %s\n", label)
	}

	return nil
}

// ShowPatterns lists the patterns stored in a SQLite pattern database.
func ShowPatterns(ctx context.Context, dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("--db is required for this command")
	}

	store, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	patterns, err := store.Patterns(ctx)
	if err != nil {
		return err
	}

	if len(patterns) == 0 {
		fmt.Println("No patterns recorded yet.")
		return nil
	}

	fmt.Printf("%d discovered patterns:\n\n", len(patterns))
	for _, p := range patterns {
		fmt.Printf("  %s\n", p.ID)
		fmt.Printf("    agents: %s (%s)\n", strings.Join(p.AgentCombination, ", "), p.Mode)
		fmt.Printf("    success rate: %.0f%%  used: %d  discovered: %s\n",
			p.SuccessRate*100, p.UsageCount, p.DiscoveredAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// openPatternStore picks the pattern store: explicit SQLite path, then the
// configured path, then bounded memory.
func openPatternStore(dbPath string, cfg config.SwarmConfig) (swarm.PatternStore, func(), error) {
	path := dbPath
	if path == "" {
		path = cfg.PatternDB
	}

	if path != "" {
		store, err := storage.OpenSqlite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open pattern database: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	}

	store, err := swarm.NewMemoryPatternStore(cfg.PatternCapacity)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}

// printResponse formats a swarm response for the terminal.
func printResponse(resp swarm.SwarmResponse, elapsed time.Duration) {
	fmt.Printf("Complexity: %.2f (%s)  Mode: %s\n", resp.Score, resp.Tier, resp.Mode)
	fmt.Printf("Agents: %s\n", strings.Join(resp.Agents, ", "))
	if len(resp.SubAgents) > 0 {
		fmt.Printf("Specialists: %s\n", strings.Join(resp.SubAgents, ", "))
	}
	fmt.Println()

	if resp.Synthesis.Status == swarm.SynthesisError {
		fmt.Fprintln(os.Stderr, "All agents failed:")
		for _, e := range resp.Synthesis.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return
	}

	fmt.Printf("%s\n\n", resp.Synthesis.Content)

	if len(resp.Synthesis.Contributors) > 1 {
		fmt.Printf("Contributors: %s (primary: %s)\n",
			strings.Join(resp.Synthesis.Contributors, ", "), resp.Synthesis.Primary)
	}
	for _, e := range resp.Synthesis.PartialErrors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
	}
	for _, insight := range resp.Synthesis.Insights {
		fmt.Printf("Insight: %s\n", insight)
	}

	fmt.Printf("\nCompleted in %s (success rate %.0f%%, quality %.2f)\n",
		elapsed.Round(time.Millisecond),
		resp.Coordination.SuccessRate*100,
		resp.Coordination.Quality)
}
