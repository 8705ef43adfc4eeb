package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/instrumentation"
	"github.com/mitkov/calbot/internal/logging"
)

// Button values for the overlap confirmation branch.
const (
	confirmYes = "confirm_yes"
	confirmNo  = "confirm_no"
)

func (m *Manager) startCreate(ctx context.Context, s *Session) {
	s.draft = &EventDraft{}
	s.State = StateCreateTitle
	m.send(ctx, s.ID, "Enter the event title:")
}

// handleCreate advances the create-event workflow: a linear field
// collection ending in a conflict check, with an optional description
// step and an overlap-confirmation branch.
func (m *Manager) handleCreate(ctx context.Context, s *Session, in Input) {
	if s.State == StateConfirmOverlap {
		m.handleConfirmOverlap(ctx, s, in)
		return
	}

	if in.Kind != InputText {
		return
	}
	text := in.Payload

	switch s.State {
	case StateCreateTitle:
		s.draft.Title = text
		s.State = StateCreateDate
		m.send(ctx, s.ID, "Enter the event date (YYYY-MM-DD):")

	case StateCreateDate:
		s.draft.Date = text
		s.State = StateCreateStartTime
		m.send(ctx, s.ID, "Enter the start time (HH:MM):")

	case StateCreateStartTime:
		s.draft.StartTime = text
		s.State = StateCreateEndTime
		m.send(ctx, s.ID, "Enter the end time (HH:MM):")

	case StateCreateEndTime:
		s.draft.EndTime = text
		s.State = StateCreateAttendees
		m.send(ctx, s.ID, "Enter attendee emails separated by commas (or 'none'):")

	case StateCreateAttendees:
		s.draft.Attendees = parseAttendees(text)
		s.State = StateCreateDescriptionChoice
		m.send(ctx, s.ID, "Add a description? (yes/no)")

	case StateCreateDescriptionChoice:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "yes":
			s.State = StateCreateDescriptionText
			m.send(ctx, s.ID, "Enter the event description:")
		case "no":
			m.resolveCreate(ctx, s)
		default:
			// Any other reply is taken as the description itself.
			s.draft.Description = text
			m.resolveCreate(ctx, s)
		}

	case StateCreateDescriptionText:
		s.draft.Description = text
		m.resolveCreate(ctx, s)
	}
}

// resolveCreate parses the accumulated draft into a candidate interval
// and either inserts it or branches to overlap confirmation.
func (m *Manager) resolveCreate(ctx context.Context, s *Session) {
	span, err := m.parseSpan(s.draft.Date, s.draft.StartTime, s.draft.EndTime)
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to create the event: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	candidate := PendingEvent{
		Summary:     s.draft.Title,
		Description: s.draft.Description,
		Span:        span,
		Attendees:   s.draft.Attendees,
	}

	conflict, err := m.availability.HasConflict(ctx, span, m.conflictCalendars(s.draft.Attendees))
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to create the event: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	if conflict {
		s.draft.Pending = &candidate
		s.State = StateConfirmOverlap
		m.sendOptions(ctx, s.ID, "The time overlaps another event. Create it anyway?", []Option{
			{Label: "Yes", Value: confirmYes},
			{Label: "No", Value: confirmNo},
		})
		return
	}

	m.insertAndFinish(ctx, s, candidate, true)
}

// handleConfirmOverlap reacts to the yes/no answer after a detected
// conflict. It serves both the create and find-time workflows, which
// share this branch. Text input while awaiting the button is ignored.
func (m *Manager) handleConfirmOverlap(ctx context.Context, s *Session, in Input) {
	if in.Kind != InputButton {
		return
	}

	if in.Payload != confirmYes {
		m.send(ctx, s.ID, "Event creation cancelled.")
		m.terminate(ctx, s, instrumentation.ResultCancelled)
		return
	}

	pending := s.pending()
	if pending == nil {
		m.send(ctx, s.ID, "Error: no pending event data.")
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	// The user accepted the overlap knowingly; the insert proceeds
	// without the bot-side reminder.
	m.insertAndFinish(ctx, s, *pending, false)
}

// insertAndFinish writes the event through the gateway, reports the
// outcome, optionally schedules the bot-side reminder, and terminates
// the session.
func (m *Manager) insertAndFinish(ctx context.Context, s *Session, ev PendingEvent, withReminder bool) {
	input := calendar.EventInput{
		Summary:         ev.Summary,
		Description:     ev.Description,
		Start:           ev.Span.Start,
		End:             ev.Span.End,
		TimeZone:        m.loc.String(),
		Attendees:       ev.Attendees,
		ReminderMinutes: calendarReminderMinutes,
	}

	created, err := m.gateway.InsertEvent(ctx, m.calendarID, input)
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to create the event: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	for _, email := range ev.Attendees {
		m.logger.Debug("attendee invited",
			logging.EventID(created.ID),
			logging.UserHash(email))
	}

	if created.HTMLLink != "" {
		m.send(ctx, s.ID, fmt.Sprintf("Event created: %s", created.HTMLLink))
	} else {
		m.send(ctx, s.ID, "Event created.")
	}

	if withReminder {
		m.scheduleReminder(ctx, s.ID, created.ID, ev)
	}

	m.terminate(ctx, s, instrumentation.ResultCompleted)
}

// scheduleReminder registers the one-shot pre-event reminder when the
// event starts far enough in the future. Events starting within the
// lead time get no reminder at all.
func (m *Manager) scheduleReminder(ctx context.Context, sessionID, eventID string, ev PendingEvent) {
	if m.reminders == nil {
		return
	}

	remindAt := ev.Span.Start.Add(-m.reminderLead)
	if !remindAt.After(m.now()) {
		return
	}

	title := ev.Summary
	timeLabel := ev.Span.Start.In(m.loc).Format(clockLayout)
	m.reminders.Schedule(eventID, remindAt, func() {
		m.metrics.RecordReminderFired(context.Background())
		if err := m.transport.Send(context.Background(), sessionID, fmt.Sprintf("Reminder: %q at %s", title, timeLabel)); err != nil {
			m.logger.Error("failed to deliver reminder",
				logging.Session(sessionID),
				logging.EventID(eventID),
				logging.Err(err))
		}
	})

	m.metrics.RecordReminderScheduled(ctx)
	m.logger.Info("reminder scheduled",
		logging.Session(sessionID),
		logging.EventID(eventID))
	m.send(ctx, sessionID, fmt.Sprintf("A reminder will be sent %d minutes before the start.", int(m.reminderLead.Minutes())))
}
