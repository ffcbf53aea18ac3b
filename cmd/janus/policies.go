package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"janus-hq/janus/pkg/policy/store"
)

var policiesFlags struct {
	dir    string
	format string
}

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the loaded policy set",
	Long: `Load the policy directory and print the resulting policy set in the
deterministic store order (sorted by id), with the level, priority,
effect and patterns of each policy.

Examples:
  # Table output
  janus policies --dir ./policies

  # JSON output
  janus policies --dir ./policies --format json`,
	RunE: runPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)

	policiesCmd.Flags().StringVar(&policiesFlags.dir, "dir", "./policies", "policy directory")
	policiesCmd.Flags().StringVar(&policiesFlags.format, "format", "table", "output format: table, json")
}

func runPolicies(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st := store.New(nil, logger)
	report, err := st.LoadDirectory(policiesFlags.dir)
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}

	policies := st.List()

	switch policiesFlags.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"version":  st.Version(),
			"count":    len(policies),
			"skipped":  report.Skipped,
			"policies": policies,
		})

	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLEVEL\tPRIORITY\tEFFECT\tSUBJECT\tACTION\tRESOURCE")
		for _, p := range policies {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				p.ID, p.Level, p.Priority, p.Effect, p.Subject, p.Action, p.Resource)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d policies (version %s)", len(policies), st.Version())
		if len(report.Skipped) > 0 {
			fmt.Printf(", %d skipped", len(report.Skipped))
		}
		fmt.Println()
		return nil

	default:
		return fmt.Errorf("unknown format %q (want table or json)", policiesFlags.format)
	}
}
