package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"janus-hq/janus/pkg/policy/store"
)

var lintFlags struct {
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint <dir|file>...",
	Short: "Validate policy files",
	Long: `Validate policy sources and report every entry that would be skipped.

The lint command loads the given files or directories exactly the way
the decision service does and prints the count of valid policies plus a
(source, reason) pair for every skipped entry or unreadable source.
The exit code is non-zero when anything was skipped, so it can gate
policy changes in CI.

Examples:
  # Lint a policy directory
  janus lint ./policies

  # Lint individual files
  janus lint policies/enterprise.yaml policies/finance.yaml

  # JSON output for CI/CD
  janus lint ./policies --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: lintPolicies,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintPolicies(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	total, err := lintPaths(args, logger)
	if err != nil {
		return err
	}

	switch lintFlags.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(total); err != nil {
			return err
		}

	case "text":
		fmt.Printf("Valid policies: %d\n", total.Loaded)
		if len(total.Skipped) > 0 {
			fmt.Printf("Skipped: %d\n", len(total.Skipped))
			for _, sk := range total.Skipped {
				fmt.Printf("  %s: %s\n", sk.Source, sk.Reason)
			}
		}

	default:
		return fmt.Errorf("unknown format %q (want text or json)", lintFlags.format)
	}

	if len(total.Skipped) > 0 {
		return fmt.Errorf("%d policy entries skipped", len(total.Skipped))
	}
	return nil
}

// lintPaths loads every given file or directory the way the decision
// service does and merges the reports. Unloadable paths do not abort
// the run; their errors are aggregated and returned together so one
// bad argument still lets the rest be checked.
func lintPaths(paths []string, logger *slog.Logger) (store.LoadReport, error) {
	var total store.LoadReport
	var errs store.ErrorList

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs.Add(&store.LoadError{FilePath: path, Message: "cannot access path", Cause: err})
			continue
		}

		st := store.New(nil, logger)
		var report store.LoadReport
		if info.IsDir() {
			report, err = st.LoadDirectory(path)
		} else {
			report, err = st.LoadFile(path)
		}
		if err != nil {
			errs.Add(err)
			continue
		}

		total.Loaded += report.Loaded
		total.Skipped = append(total.Skipped, report.Skipped...)
	}

	if errs.HasErrors() {
		return total, errs.ToError()
	}
	return total, nil
}
