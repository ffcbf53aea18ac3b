package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"janus-hq/janus/pkg/policy"
	"janus-hq/janus/pkg/policy/pdp"
	"janus-hq/janus/pkg/policy/store"
)

var evaluateFlags struct {
	policyDir string
	subject   string
	action    string
	resource  string
	attrs     []string
	format    string
	showTrace bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one request against the policy set",
	Long: `Evaluate a single request context against the policy set and print
the decision.

Attributes are passed as repeated --attr key=value flags. Values that
parse as numbers or booleans are typed accordingly; everything else is
a string.

Examples:
  # Simple decision
  janus evaluate --policies ./policies \
      --subject finance-agent-1 --action payment.execute --attr amount=1200

  # Include the per-policy trace
  janus evaluate --policies ./policies \
      --subject finance-agent-1 --action data.export --resource external \
      --attr data_classification=pii --trace

  # JSON output for scripting
  janus evaluate --policies ./policies \
      --subject ops-agent --action deploy.rollout --format json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateFlags.policyDir, "policies", "./policies", "policy directory")
	evaluateCmd.Flags().StringVar(&evaluateFlags.subject, "subject", "", "requesting subject")
	evaluateCmd.Flags().StringVar(&evaluateFlags.action, "action", "", "requested action")
	evaluateCmd.Flags().StringVar(&evaluateFlags.resource, "resource", "", "target resource (default any)")
	evaluateCmd.Flags().StringArrayVar(&evaluateFlags.attrs, "attr", nil, "request attribute key=value (repeatable)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json")
	evaluateCmd.Flags().BoolVar(&evaluateFlags.showTrace, "trace", false, "print the per-policy trace")

	_ = evaluateCmd.MarkFlagRequired("action")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))

	st := store.New(nil, logger)
	report, err := st.LoadDirectory(evaluateFlags.policyDir)
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}
	for _, sk := range report.Skipped {
		logger.Warn("policy skipped", "source", sk.Source, "reason", sk.Reason)
	}

	attrs, err := parseAttrs(evaluateFlags.attrs)
	if err != nil {
		return err
	}

	decider := pdp.New(st, pdp.WithLogger(logger))
	decision := decider.Evaluate(policy.RequestContext{
		Subject:    evaluateFlags.subject,
		Action:     evaluateFlags.action,
		Resource:   evaluateFlags.resource,
		Attributes: attrs,
	})

	switch evaluateFlags.format {
	case "json":
		out := decision
		if !evaluateFlags.showTrace {
			out.Trace = nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case "text":
		fmt.Printf("Effect:  %s\n", decision.Effect)
		fmt.Printf("Allow:   %t\n", decision.Allow)
		if decision.MatchedPolicy != "" {
			fmt.Printf("Policy:  %s\n", decision.MatchedPolicy)
		}
		fmt.Printf("Reason:  %s\n", decision.Reason)
		if evaluateFlags.showTrace {
			fmt.Printf("\nTrace (%d policies):\n", len(decision.Trace))
			for _, t := range decision.Trace {
				marker := " "
				if t.Applicable {
					marker = "*"
				}
				fmt.Printf("  %s %-30s level=%-10s priority=%-4d effect=%s\n",
					marker, t.PolicyID, t.Level, t.Priority, t.Effect)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q (want text or json)", evaluateFlags.format)
	}
}

// parseAttrs converts repeated key=value flags into typed attributes.
func parseAttrs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q (want key=value)", pair)
		}
		attrs[key] = parseScalar(value)
	}
	return attrs, nil
}

// parseScalar types a flag value the way YAML would: number, boolean,
// or string.
func parseScalar(s string) any {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
