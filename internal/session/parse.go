package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitkov/calbot/internal/interval"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	clockLayout    = "15:04"
)

// parseDate parses a YYYY-MM-DD date in the manager's location.
func (m *Manager) parseDate(text string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(text), m.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", strings.TrimSpace(text))
	}
	return date, nil
}

// parseDateTime parses a "YYYY-MM-DD HH:MM" instant in the manager's
// location.
func (m *Manager) parseDateTime(text string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, strings.TrimSpace(text), m.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q, expected YYYY-MM-DD HH:MM", strings.TrimSpace(text))
	}
	return t, nil
}

// parseSpan builds the candidate interval of a create draft from its
// raw date and clock-time fields.
func (m *Manager) parseSpan(date, startTime, endTime string) (interval.Interval, error) {
	day, err := m.parseDate(date)
	if err != nil {
		return interval.Interval{}, err
	}
	start, err := parseClock(startTime)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.New(start.at(day, m.loc), end.at(day, m.loc))
}

// parseClock parses an "HH:MM" time of day.
func parseClock(text string) (timeOfDay, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(text))
	if err != nil {
		return timeOfDay{}, fmt.Errorf("invalid time %q, expected HH:MM", strings.TrimSpace(text))
	}
	return timeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// parseClockRange parses an "HH:MM-HH:MM" window.
func parseClockRange(text string) (timeOfDay, timeOfDay, error) {
	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return timeOfDay{}, timeOfDay{}, fmt.Errorf("invalid range %q, expected HH:MM-HH:MM", text)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return timeOfDay{}, timeOfDay{}, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return timeOfDay{}, timeOfDay{}, err
	}
	return start, end, nil
}

// parseAttendees splits a comma-separated email list, dropping blanks.
// The keyword "none" (the create prompt offers it) yields no attendees.
func parseAttendees(text string) []string {
	if strings.EqualFold(strings.TrimSpace(text), "none") {
		return nil
	}
	var attendees []string
	for _, part := range strings.Split(text, ",") {
		if email := strings.TrimSpace(part); email != "" {
			attendees = append(attendees, email)
		}
	}
	return attendees
}
