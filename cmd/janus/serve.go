package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"janus-hq/janus/pkg/config"
	"janus-hq/janus/pkg/policy/pdp"
	"janus-hq/janus/pkg/policy/store"
	"janus-hq/janus/pkg/server"
	"janus-hq/janus/pkg/telemetry/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the policy decision service",
	Long: `Start the HTTP policy decision service.

The service loads all policy sources under the configured directory,
then answers decision requests:

  POST /v1/evaluate   evaluate a request context, returns the decision
  GET  /v1/policies   list the active policy set
  GET  /healthz       liveness plus policy set version
  GET  /metrics       Prometheus metrics (when enabled)

Policy files are hot-reloaded when they change on disk; an optional
cron schedule forces periodic full re-syncs.

Examples:
  # Start with defaults (policies under ./policies)
  janus serve

  # Start with a config file
  janus serve --config /etc/janus/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	st := store.New(&store.LoaderConfig{
		MaxFileSize:       cfg.Policy.MaxFileSize,
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}, logger)

	report, err := st.LoadDirectory(cfg.Policy.Dir)
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}
	for _, sk := range report.Skipped {
		logger.Warn("policy skipped", "source", sk.Source, "reason", sk.Reason)
	}

	decider := pdp.New(st, pdp.WithLogger(logger))

	srv, err := server.New(cfg, st, decider, logger)
	if err != nil {
		return err
	}

	return srv.Start(context.Background())
}

// loadConfig reads the config file when present; a missing default
// config file falls back to the built-in defaults so "janus serve"
// works out of the box.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if cfgFile != "config.yaml" {
			return nil, fmt.Errorf("config file %q not found", cfgFile)
		}
		cfg := config.DefaultConfig()
		if verbose {
			cfg.Telemetry.Logging.Level = "debug"
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}
