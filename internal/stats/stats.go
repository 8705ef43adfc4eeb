package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/mitkov/calbot/internal/calendar"
)

// Report summarizes the workload over a date range.
type Report struct {
	// EventCount is the number of non-cancelled events.
	EventCount int

	// CancelledCount is the number of cancelled events.
	CancelledCount int

	// TotalHours sums the duration of non-cancelled events that have
	// concrete start and end instants. All-day entries carry no
	// time-of-day and are excluded from the sum.
	TotalHours float64

	// DailyHours maps "2006-01-02" dates to the total hours of
	// non-cancelled timed events starting on that day.
	DailyHours map[string]float64
}

// Compute aggregates events into a Report. Days are attributed in loc.
func Compute(events []calendar.Event, loc *time.Location) Report {
	if loc == nil {
		loc = time.Local
	}

	report := Report{DailyHours: make(map[string]float64)}
	for _, ev := range events {
		if ev.Status == calendar.StatusCancelled {
			report.CancelledCount++
			continue
		}
		report.EventCount++

		if ev.AllDay || ev.Start.IsZero() || ev.End.IsZero() {
			continue
		}

		hours := ev.End.Sub(ev.Start).Hours()
		report.TotalHours += hours

		day := ev.Start.In(loc).Format("2006-01-02")
		report.DailyHours[day] += hours
	}

	return report
}

// Summary renders the report as the user-facing text message.
func (r Report) Summary(from, to string) string {
	return fmt.Sprintf("Statistics %s - %s:\nEvents: %d\nTotal duration: %.2f h\nCancelled: %d",
		from, to, r.EventCount, r.TotalHours, r.CancelledCount)
}

// Days returns the chart days in ascending date order.
func (r Report) Days() []string {
	days := make([]string, 0, len(r.DailyHours))
	for day := range r.DailyHours {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
