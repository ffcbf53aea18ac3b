package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "janus",
	Short: "Janus - hierarchical policy decision engine",
	Long: `Janus is a policy decision engine for agent governance.

It evaluates structured requests (who, what action, on what resource,
with what attributes) against declaratively defined rules organized
into precedence tiers (enterprise, domain, agent) and returns a single
allow/deny/require-approval verdict plus a full per-policy trace.

Policies are plain YAML files; when no policy governs a request the
answer is always deny.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
