// Agent catalog listing for CLI commands.
//
// Information Hiding:
// - Availability detection hidden (API key presence per provider)

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/X10NLUN1X/xionimus/agent"
)

// ListAgents prints the agent catalog with per-agent availability.
// Verbose adds the selection keywords each agent responds to.
func ListAgents(verbose bool) {
	fmt.Println("Available agents:")
	fmt.Println()

	for _, kind := range agent.AllKinds {
		spec := kind.Spec()

		status := "ready"
		if os.Getenv(spec.Provider.EnvVar()) == "" {
			status = fmt.Sprintf("unavailable (%s not set)", spec.Provider.EnvVar())
		}

		fmt.Printf("  %-16s %s\n", spec.Name, spec.Description)
		fmt.Printf("  %-16s %s/%s - %s\n", "", spec.Provider, spec.Model, status)
		if verbose {
			fmt.Printf("  %-16s keywords: %s\n", "", strings.Join(spec.Keywords, ", "))
		}
		fmt.Println()
	}
}
