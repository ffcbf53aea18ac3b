package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// rawConfig mirrors Config with pointer booleans so that an unset field
// can be told apart from an explicit false when applying defaults.
type rawConfig struct {
	Server ServerConfig `yaml:"server"`
	Policy struct {
		Dir              string        `yaml:"dir"`
		Watch            *bool         `yaml:"watch"`
		DebounceInterval time.Duration `yaml:"debounce_interval"`
		ReloadSchedule   string        `yaml:"reload_schedule"`
		MaxFileSize      int64         `yaml:"max_file_size"`
	} `yaml:"policy"`
	Telemetry struct {
		Logging LoggingConfig `yaml:"logging"`
		Metrics struct {
			Enabled   *bool  `yaml:"enabled"`
			Namespace string `yaml:"namespace"`
			Subsystem string `yaml:"subsystem"`
		} `yaml:"metrics"`
	} `yaml:"telemetry"`
}

// LoadConfig loads configuration from a YAML file, applies the
// documented defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	cfg := &Config{
		Server: raw.Server,
		Policy: PolicyConfig{
			Dir:              raw.Policy.Dir,
			Watch:            boolOr(raw.Policy.Watch, DefaultPolicyWatch),
			DebounceInterval: raw.Policy.DebounceInterval,
			ReloadSchedule:   raw.Policy.ReloadSchedule,
			MaxFileSize:      raw.Policy.MaxFileSize,
		},
		Telemetry: TelemetryConfig{
			Logging: raw.Telemetry.Logging,
			Metrics: MetricsConfig{
				Enabled:   boolOr(raw.Telemetry.Metrics.Enabled, DefaultMetricsEnabled),
				Namespace: raw.Telemetry.Metrics.Namespace,
				Subsystem: raw.Telemetry.Metrics.Subsystem,
			},
		},
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
