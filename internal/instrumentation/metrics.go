package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency
const (
	attrWorkflow  = "workflow"
	attrResult    = "result"
	attrOperation = "operation"
	attrStatus    = "status"
)

// Session results recorded on termination.
const (
	ResultCompleted = "completed"
	ResultCancelled = "cancelled"
	ResultError     = "error"
	ResultAbandoned = "abandoned"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder.
type Metrics struct {
	sessionsStartedTotal    metric.Int64Counter
	sessionsTerminatedTotal metric.Int64Counter
	activeSessions          metric.Int64UpDownCounter

	gatewayOperationsTotal   metric.Int64Counter
	gatewayOperationDuration metric.Float64Histogram

	remindersScheduledTotal metric.Int64Counter
	remindersFiredTotal     metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.sessionsStartedTotal, err = meter.Int64Counter(
		"sessions_started_total",
		metric.WithDescription("Total number of workflow sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions_started_total counter: %w", err)
	}

	m.sessionsTerminatedTotal, err = meter.Int64Counter(
		"sessions_terminated_total",
		metric.WithDescription("Total number of workflow sessions terminated"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions_terminated_total counter: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active workflow sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	m.gatewayOperationsTotal, err = meter.Int64Counter(
		"calendar_gateway_operations_total",
		metric.WithDescription("Total number of Calendar API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_gateway_operations_total counter: %w", err)
	}

	m.gatewayOperationDuration, err = meter.Float64Histogram(
		"calendar_gateway_operation_duration_seconds",
		metric.WithDescription("Calendar API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_gateway_operation_duration_seconds histogram: %w", err)
	}

	m.remindersScheduledTotal, err = meter.Int64Counter(
		"reminders_scheduled_total",
		metric.WithDescription("Total number of event reminders scheduled"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminders_scheduled_total counter: %w", err)
	}

	m.remindersFiredTotal, err = meter.Int64Counter(
		"reminders_fired_total",
		metric.WithDescription("Total number of event reminders delivered"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminders_fired_total counter: %w", err)
	}

	return m, nil
}

// RecordSessionStarted records the start of a workflow session.
func (m *Metrics) RecordSessionStarted(ctx context.Context, workflow string) {
	if m.sessionsStartedTotal == nil || m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.sessionsStartedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrWorkflow, workflow),
	))
	m.activeSessions.Add(ctx, 1)
}

// RecordSessionTerminated records the end of a workflow session.
// Result should be one of ResultCompleted, ResultCancelled, ResultError
// or ResultAbandoned.
func (m *Metrics) RecordSessionTerminated(ctx context.Context, workflow, result string) {
	if m.sessionsTerminatedTotal == nil || m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.sessionsTerminatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrWorkflow, workflow),
		attribute.String(attrResult, result),
	))
	m.activeSessions.Add(ctx, -1)
}

// RecordGatewayOperation records a Calendar API operation.
//
// Parameters:
//   - operation: list, insert, update, delete, freebusy
//   - status: "success" or "error"
//   - duration: time taken for the call
func (m *Metrics) RecordGatewayOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.gatewayOperationsTotal == nil || m.gatewayOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.gatewayOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.gatewayOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordReminderScheduled records that a reminder delivery was scheduled.
func (m *Metrics) RecordReminderScheduled(ctx context.Context) {
	if m.remindersScheduledTotal == nil {
		return // Instrumentation not initialized
	}
	m.remindersScheduledTotal.Add(ctx, 1)
}

// RecordReminderFired records that a reminder delivery fired.
func (m *Metrics) RecordReminderFired(ctx context.Context) {
	if m.remindersFiredTotal == nil {
		return // Instrumentation not initialized
	}
	m.remindersFiredTotal.Add(ctx, 1)
}
