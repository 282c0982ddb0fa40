// Package main provides the xionimus CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/X10NLUN1X/xionimus/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "xionimus",
		Short: "Multi-agent task orchestration",
		Long: `Route requests across specialized LLM agents.

Each request is scored for complexity, matched to a set of specialized
agents (code, research, writing, data, QA), and executed sequentially,
in parallel, or adaptively depending on the score. Successful agent
combinations are remembered and bias the scoring of similar future
requests.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(orchestrateCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(patternsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func orchestrateCmd() *cobra.Command {
	var dbPath string
	var timeout int

	cmd := &cobra.Command{
		Use:   "orchestrate [request]",
		Short: "Run a request through the agent swarm",
		Long: `Classify a request, select agents, execute them, and synthesize
one answer from their results.

Requires at least one provider API key in the environment
(OPENAI_API_KEY, ANTHROPIC_API_KEY, PERPLEXITY_API_KEY). Agents whose
provider has no key are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{
				DBPath:  dbPath,
				Timeout: time.Duration(timeout) * time.Second,
				Verbose: verbose,
			}
			return cli.Orchestrate(context.Background(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path for persistent pattern memory")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Timeout in seconds per agent (0 uses SWARM_AGENT_TIMEOUT_SECONDS)")

	return cmd
}

func classifyCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "classify [request]",
		Short: "Score a request without dispatching agents",
		Long: `Score a request's complexity and show which agents would run.

No API keys are needed; nothing is dispatched. With --db, stored
patterns contribute their boost to the score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{DBPath: dbPath, Verbose: verbose}
			return cli.Classify(context.Background(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path for persistent pattern memory")

	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agent catalog and availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.ListAgents(verbose)
			return nil
		},
	}
}

func patternsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List discovered patterns in a pattern database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ShowPatterns(context.Background(), dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path for persistent pattern memory")

	return cmd
}
