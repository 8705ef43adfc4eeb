package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("METRICS_EXPORTER", "")

	config := ConfigFromEnv("1.2.3")
	if config.ServiceName != "calbot" {
		t.Errorf("ServiceName = %q, want calbot", config.ServiceName)
	}
	if config.ServiceVersion != "1.2.3" {
		t.Errorf("ServiceVersion = %q", config.ServiceVersion)
	}
	if !config.Enabled {
		t.Error("instrumentation should default to enabled")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want prometheus", config.MetricsExporter)
	}
}

func TestConfigFromEnv_Disabled(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "false")

	config := ConfigFromEnv("dev")
	if config.Enabled {
		t.Error("INSTRUMENTATION_ENABLED=false should disable instrumentation")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{MetricsExporter: ExporterPrometheus}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := Config{MetricsExporter: "otlp"}
	if err := invalid.Validate(); err == nil {
		t.Error("expected error for unsupported exporter")
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if provider.Enabled() {
		t.Error("provider should be disabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("disabled provider must still return a metrics recorder")
	}
	if provider.MetricsHandler() != nil {
		t.Error("disabled provider must not expose a metrics handler")
	}

	// The no-op recorder must tolerate every record call.
	m := provider.Metrics()
	ctx := context.Background()
	m.RecordSessionStarted(ctx, "create")
	m.RecordSessionTerminated(ctx, "create", ResultCompleted)
	m.RecordGatewayOperation(ctx, "insert", "success", time.Second)
	m.RecordReminderScheduled(ctx)
	m.RecordReminderFired(ctx)

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewProvider_Prometheus(t *testing.T) {
	config := Config{
		ServiceName:     "calbot-test",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	}

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	}()

	if !provider.Enabled() {
		t.Error("provider should be enabled")
	}
	if provider.MetricsHandler() == nil {
		t.Error("enabled provider must expose a metrics handler")
	}

	ctx := context.Background()
	provider.Metrics().RecordSessionStarted(ctx, "create")
	provider.Metrics().RecordGatewayOperation(ctx, "freebusy", "success", 120*time.Millisecond)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, MetricsExporter: "bogus"})
	if err == nil {
		t.Error("expected error for invalid exporter")
	}
}
