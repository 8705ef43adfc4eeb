// Package instrumentation provides OpenTelemetry metrics for the bot:
// session lifecycle counters, Calendar API operation counters and
// latency histograms, and reminder delivery counters, exported through
// a Prometheus endpoint.
package instrumentation
