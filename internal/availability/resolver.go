package availability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mitkov/calbot/internal/interval"
	"github.com/mitkov/calbot/internal/logging"
)

// DefaultStep is the default search granularity for free-slot enumeration.
const DefaultStep = 15 * time.Minute

// FreeBusySource answers combined free/busy queries for a set of
// calendar identifiers. The Calendar Gateway implements this.
type FreeBusySource interface {
	// QueryFreeBusy returns the busy intervals per calendar identifier
	// within [timeMin, timeMax).
	QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) (map[string][]interval.Interval, error)
}

// Resolver merges busy periods across calendars and tests candidate
// intervals against them.
type Resolver struct {
	source FreeBusySource
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given free/busy source.
// If logger is nil, slog.Default() is used.
func NewResolver(source FreeBusySource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// HasConflict reports whether any of the given calendars has busy time
// inside the candidate interval. The query window already bounds the
// result, so any raw busy entry at all means a conflict; no client-side
// merge is needed for a single candidate.
//
// A failed or malformed free/busy query is returned as an error, never
// treated as "no conflict": a silent false negative would double-book.
func (r *Resolver) HasConflict(ctx context.Context, candidate interval.Interval, calendarIDs []string) (bool, error) {
	busy, err := r.source.QueryFreeBusy(ctx, candidate.Start, candidate.End, calendarIDs)
	if err != nil {
		return false, fmt.Errorf("free/busy query failed: %w", err)
	}

	for calendarID, entries := range busy {
		if len(entries) > 0 {
			r.logger.Debug("conflict detected",
				logging.Calendar(anonymize(calendarID)),
				slog.Time("start", candidate.Start),
				slog.Time("end", candidate.End))
			return true, nil
		}
	}
	return false, nil
}

// anonymize hides attendee emails in logs. Plain identifiers like
// "primary" pass through.
func anonymize(calendarID string) string {
	if strings.Contains(calendarID, "@") {
		return logging.AnonymizeEmail(calendarID)
	}
	return calendarID
}

// FindFreeSlots enumerates every slot of exactly the requested duration
// inside the window that overlaps no busy period of any given calendar.
// Probe positions advance by step from the window start; a probe whose
// end would pass the window end is omitted, never clamped. Slots are
// returned in ascending start order. A step of zero or less falls back
// to DefaultStep.
func (r *Resolver) FindFreeSlots(ctx context.Context, window interval.Interval, duration time.Duration, calendarIDs []string, step time.Duration) ([]interval.Interval, error) {
	if step <= 0 {
		step = DefaultStep
	}

	busyByCalendar, err := r.source.QueryFreeBusy(ctx, window.Start, window.End, calendarIDs)
	if err != nil {
		return nil, fmt.Errorf("free/busy query failed: %w", err)
	}

	// Busy time from any participant blocks a slot, so all sources
	// collapse into one canonical busy list.
	var all []interval.Interval
	for _, entries := range busyByCalendar {
		all = append(all, entries...)
	}
	busy := interval.Merge(all)

	var slots []interval.Interval
	for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(step) {
		probe := interval.Interval{Start: start, End: start.Add(duration)}
		free := true
		for _, b := range busy {
			if probe.Overlaps(b) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, probe)
		}
	}

	r.logger.Debug("free slot search finished",
		slog.Int("calendars", len(calendarIDs)),
		slog.Int("busy", len(busy)),
		slog.Int("slots", len(slots)))
	return slots, nil
}
