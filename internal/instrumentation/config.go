package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter types
const (
	ExporterPrometheus = "prometheus"
	ExporterNone       = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: calbot)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	ServiceInstanceID string

	// Enabled determines if instrumentation is active (default: true)
	// Set to false via INSTRUMENTATION_ENABLED=false to disable metrics
	Enabled bool

	// MetricsExporter specifies the metrics exporter type
	// Options: "prometheus", "none" (default: "prometheus")
	MetricsExporter string
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for anything unset.
func ConfigFromEnv(version string) Config {
	enabled := true
	if v := os.Getenv("INSTRUMENTATION_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			enabled = parsed
		}
	}

	return Config{
		ServiceName:     getEnvOrDefault("SERVICE_NAME", "calbot"),
		ServiceVersion:  version,
		Enabled:         enabled,
		MetricsExporter: getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
	}
}

// Validate checks the configuration for invalid combinations.
func (c Config) Validate() error {
	if c.MetricsExporter != "" && c.MetricsExporter != ExporterPrometheus && c.MetricsExporter != ExporterNone {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, none", c.MetricsExporter)
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
