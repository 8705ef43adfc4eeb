package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitkov/calbot/internal/instrumentation"
	"github.com/mitkov/calbot/internal/interval"
)

// findTimeSummary is the title given to events booked through the
// free-slot search.
const findTimeSummary = "Meeting"

func (m *Manager) startFindTime(ctx context.Context, s *Session) {
	s.find = &FindTimeQuery{}
	s.State = StateFindDate
	m.send(ctx, s.ID, "Enter the date to search (YYYY-MM-DD):")
}

// handleFindTime advances the free-slot search: date, duration,
// attendees and a working-hours window, then slot enumeration and
// booking of the chosen slot.
func (m *Manager) handleFindTime(ctx context.Context, s *Session, in Input) {
	switch s.State {
	case StateConfirmOverlap:
		m.handleConfirmOverlap(ctx, s, in)

	case StateFindDate:
		if in.Kind != InputText {
			return
		}
		s.find.Date = in.Payload
		s.State = StateFindDuration
		m.send(ctx, s.ID, "Enter the meeting duration in minutes:")

	case StateFindDuration:
		if in.Kind != InputText {
			return
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(in.Payload))
		if err != nil || minutes <= 0 {
			m.send(ctx, s.ID, "Enter the duration as a whole number of minutes:")
			return
		}
		s.find.Duration = time.Duration(minutes) * time.Minute
		s.State = StateFindAttendees
		m.send(ctx, s.ID, "Enter attendee emails separated by commas (or 'none'):")

	case StateFindAttendees:
		if in.Kind != InputText {
			return
		}
		s.find.Attendees = parseAttendees(in.Payload)
		s.State = StateFindHours
		m.send(ctx, s.ID, "Enter the working hours to search within (HH:MM-HH:MM):")

	case StateFindHours:
		if in.Kind != InputText {
			return
		}
		start, end, err := parseClockRange(in.Payload)
		if err != nil {
			m.send(ctx, s.ID, "Invalid format. Enter the working hours as HH:MM-HH:MM:")
			return
		}
		s.find.WindowStart = start
		s.find.WindowEnd = end
		m.resolveFindTime(ctx, s)

	case StateFindSelectSlot:
		if in.Kind != InputButton {
			return
		}
		m.bookSlot(ctx, s, in.Payload)
	}
}

// resolveFindTime runs the free-slot search over the accumulated query
// and offers the results. A bad date or an empty result loops back to
// the date prompt rather than terminating.
func (m *Manager) resolveFindTime(ctx context.Context, s *Session) {
	day, err := m.parseDate(s.find.Date)
	if err != nil {
		s.State = StateFindDate
		m.send(ctx, s.ID, fmt.Sprintf("%v. Enter another date (YYYY-MM-DD):", err))
		return
	}

	window, err := interval.New(s.find.WindowStart.at(day, m.loc), s.find.WindowEnd.at(day, m.loc))
	if err != nil {
		s.State = StateFindDate
		m.send(ctx, s.ID, fmt.Sprintf("%v. Enter another date (YYYY-MM-DD):", err))
		return
	}

	slots, err := m.availability.FindFreeSlots(ctx, window, s.find.Duration, m.conflictCalendars(s.find.Attendees), m.slotStep)
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to search for free slots: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	if len(slots) == 0 {
		s.State = StateFindDate
		m.send(ctx, s.ID, "No available slots on that date. Enter another date (YYYY-MM-DD):")
		return
	}

	s.find.Slots = slots
	options := make([]Option, 0, len(slots))
	for i, slot := range slots {
		label := fmt.Sprintf("%s - %s",
			slot.Start.In(m.loc).Format(clockLayout),
			slot.End.In(m.loc).Format(clockLayout))
		options = append(options, Option{Label: label, Value: strconv.Itoa(i)})
	}

	s.State = StateFindSelectSlot
	m.sendOptions(ctx, s.ID, "Choose a slot:", options)
}

// bookSlot books the chosen slot. Availability is re-checked right
// before the insert: the slot list may have gone stale while the user
// was choosing.
func (m *Manager) bookSlot(ctx context.Context, s *Session, value string) {
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 || idx >= len(s.find.Slots) {
		m.send(ctx, s.ID, "Error: unknown slot selected.")
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}
	slot := s.find.Slots[idx]

	candidate := PendingEvent{
		Summary:   findTimeSummary,
		Span:      slot,
		Attendees: s.find.Attendees,
	}

	conflict, err := m.availability.HasConflict(ctx, slot, m.conflictCalendars(s.find.Attendees))
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to create the event: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	if conflict {
		s.find.Pending = &candidate
		s.State = StateConfirmOverlap
		m.sendOptions(ctx, s.ID, "The slot is no longer free. Book it anyway?", []Option{
			{Label: "Yes", Value: confirmYes},
			{Label: "No", Value: confirmNo},
		})
		return
	}

	// Slot bookings never get the bot-side reminder; only the create
	// workflow schedules one.
	m.insertAndFinish(ctx, s, candidate, false)
}
