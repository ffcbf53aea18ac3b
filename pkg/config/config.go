// Package config defines the configuration tree for the Janus decision
// service: YAML-backed, with explicit defaults and a validation step.
package config

import "time"

// Config is the root configuration structure for Janus.
type Config struct {
	// Server contains the HTTP decision service configuration.
	Server ServerConfig `yaml:"server"`

	// Policy contains the policy store configuration: where sources
	// live and how they are reloaded.
	Policy PolicyConfig `yaml:"policy"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP decision service.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8181".
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body. Default: 10s.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. Default: 10s.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled. Default: 120s.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 15s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header parsing. Default: 1MB.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// PolicyConfig contains configuration for policy loading and reload.
type PolicyConfig struct {
	// Dir is the root directory policy sources are discovered under,
	// recursively. Default: "./policies".
	Dir string `yaml:"dir"`

	// Watch enables debounced hot reload of the policy directory via
	// file-system notifications. Default: true.
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period after the last file change
	// before a reload fires. Default: 100ms.
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// ReloadSchedule is an optional cron expression for scheduled full
	// re-syncs of the policy directory (e.g. "*/5 * * * *"), in
	// addition to the watcher. Empty disables scheduled reloads.
	ReloadSchedule string `yaml:"reload_schedule"`

	// MaxFileSize is the maximum policy source size in bytes.
	// Default: 1MB.
	MaxFileSize int64 `yaml:"max_file_size"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info".
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text". Default: "json".
	Format string `yaml:"format"`

	// AddSource includes file:line in log records. Default: false.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "janus".
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem segment. Default: "pdp".
	Subsystem string `yaml:"subsystem"`
}
