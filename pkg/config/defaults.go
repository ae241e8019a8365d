package config

import (
	"strings"
	"time"
)

// Default values for optional configuration fields.
const (
	// DefaultMetricsPort is the port for the Prometheus metrics endpoint.
	DefaultMetricsPort = 9090

	// DefaultPageSize is the number of records requested per page.
	DefaultPageSize = 25

	// DefaultSourceTimeout bounds each page request.
	DefaultSourceTimeout = 10 * time.Second

	// DefaultSourceEndpoint is a placeholder endpoint written by
	// `loadctl init`; users are expected to replace it.
	DefaultSourceEndpoint = "http://localhost:8080/records"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applySourceDefaults(&cfg.Source)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultMetricsPort
	}
}

// applySourceDefaults sets record source defaults.
func applySourceDefaults(cfg *SourceConfig) {
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultSourceTimeout
	}
}

// GetDefaultConfig returns a fully populated default configuration, used
// when no config file exists and written out by `loadctl init`.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Source: SourceConfig{
			Endpoint: DefaultSourceEndpoint,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
