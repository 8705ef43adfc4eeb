// Package stats aggregates calendar events into workload statistics:
// event counts, total busy hours, and a per-day hours breakdown that
// can be rendered as a bar chart.
package stats
