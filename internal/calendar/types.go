package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/mitkov/calbot/internal/interval"
)

// Event status values as reported by the Calendar API.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Event is a calendar event as consumed by the bot.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool // date-only start/end, no time of day
	Attendees   []string
	Status      string
	HTMLLink    string
}

// Interval returns the event's occupied time as a half-open interval.
func (e Event) Interval() interval.Interval {
	return interval.Interval{Start: e.Start, End: e.End}
}

// EventInput represents the input for creating or updating a calendar event.
// Zero-valued fields are left untouched on update.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string

	// ReminderMinutes adds explicit email and popup reminder overrides
	// this many minutes before the event start. Zero keeps the
	// calendar's default reminders.
	ReminderMinutes int64
}

// ListOptions bound and filter an event listing.
type ListOptions struct {
	// MaxResults caps the number of returned events; zero means the
	// API default.
	MaxResults int64

	// IncludeCancelled also returns cancelled events.
	IncludeCancelled bool
}

// toEvent converts a Google Calendar event to an Event.
func toEvent(ev *calendar.Event) Event {
	if ev == nil {
		return Event{}
	}

	e := Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Status:      ev.Status,
		HTMLLink:    ev.HtmlLink,
	}

	if ev.Start != nil {
		e.Start, e.AllDay = parseEventTime(ev.Start)
	}
	if ev.End != nil {
		e.End, _ = parseEventTime(ev.End)
	}

	for _, attendee := range ev.Attendees {
		if attendee != nil && attendee.Email != "" {
			e.Attendees = append(e.Attendees, attendee.Email)
		}
	}

	return e
}

// parseEventTime parses an event start or end, which is either a
// date-time or a date-only value for all-day events.
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t, false
		}
		return time.Time{}, false
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, true
}

// toGoogleEvent converts an EventInput into the wire representation.
func toGoogleEvent(input EventInput) *calendar.Event {
	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	ev := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: tz,
		},
	}

	for _, email := range input.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}

	if input.ReminderMinutes > 0 {
		ev.Reminders = &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: input.ReminderMinutes},
				{Method: "popup", Minutes: input.ReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		}
	}

	return ev
}
