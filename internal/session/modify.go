package session

import (
	"context"
	"fmt"
	"time"

	"github.com/mitkov/calbot/internal/calendar"
	"github.com/mitkov/calbot/internal/instrumentation"
)

// Field values for the modify workflow's field-choice buttons.
const (
	fieldDateTime    = "field_datetime"
	fieldTitle       = "field_title"
	fieldDescription = "field_description"
	fieldDelete      = "field_delete"
)

// modifyListMax caps how many upcoming events are offered for editing.
const modifyListMax = 20

// startModify lists the upcoming events and asks which one to edit.
// The listing window runs from now to the end of the current year.
func (m *Manager) startModify(ctx context.Context, s *Session) {
	now := m.now().In(m.loc)
	yearEnd := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, m.loc)

	events, err := m.gateway.ListEvents(ctx, m.calendarID, now, yearEnd, calendar.ListOptions{MaxResults: modifyListMax})
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to load events: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}
	if len(events) == 0 {
		m.send(ctx, s.ID, "No upcoming events.")
		m.terminate(ctx, s, instrumentation.ResultCompleted)
		return
	}

	s.modify = &ModifyContext{Events: make(map[string]calendar.Event, len(events))}
	options := make([]Option, 0, len(events))
	for _, ev := range events {
		s.modify.Events[ev.ID] = ev
		options = append(options, Option{Label: eventLabel(ev, m.loc), Value: ev.ID})
	}

	s.State = StateModifySelect
	m.sendOptions(ctx, s.ID, "Choose an event to edit:", options)
}

// eventLabel renders one event for the selection list.
func eventLabel(ev calendar.Event, loc *time.Location) string {
	title := ev.Summary
	if title == "" {
		title = "Untitled"
	}
	if ev.AllDay {
		return fmt.Sprintf("%s (%s)", title, ev.Start.In(loc).Format(dateLayout))
	}
	return fmt.Sprintf("%s (%s)", title, ev.Start.In(loc).Format(dateTimeLayout))
}

func (m *Manager) handleModify(ctx context.Context, s *Session, in Input) {
	switch s.State {
	case StateModifySelect:
		if in.Kind != InputButton {
			return
		}
		ev, ok := s.modify.Events[in.Payload]
		if !ok {
			m.send(ctx, s.ID, "Error: unknown event selected.")
			m.terminate(ctx, s, instrumentation.ResultError)
			return
		}
		s.modify.SelectedID = ev.ID
		s.State = StateModifyField
		m.sendOptions(ctx, s.ID, "What do you want to change?", []Option{
			{Label: "Date/time", Value: fieldDateTime},
			{Label: "Title", Value: fieldTitle},
			{Label: "Description", Value: fieldDescription},
			{Label: "Delete event", Value: fieldDelete},
		})

	case StateModifyField:
		if in.Kind != InputButton {
			return
		}
		switch in.Payload {
		case fieldDelete:
			if err := m.gateway.DeleteEvent(ctx, m.calendarID, s.modify.SelectedID); err != nil {
				m.send(ctx, s.ID, fmt.Sprintf("Failed to delete the event: %v", err))
				m.terminate(ctx, s, instrumentation.ResultError)
				return
			}
			m.send(ctx, s.ID, "Event deleted.")
			m.terminate(ctx, s, instrumentation.ResultCompleted)
		case fieldDateTime:
			s.modify.Field = fieldDateTime
			s.State = StateModifyNewValue
			m.send(ctx, s.ID, "Enter the new start (YYYY-MM-DD HH:MM):")
		case fieldTitle:
			s.modify.Field = fieldTitle
			s.State = StateModifyNewValue
			m.send(ctx, s.ID, "Enter the new title:")
		case fieldDescription:
			s.modify.Field = fieldDescription
			s.State = StateModifyNewValue
			m.send(ctx, s.ID, "Enter the new description:")
		}

	case StateModifyNewValue:
		if in.Kind != InputText {
			return
		}
		m.applyModify(ctx, s, in.Payload)
	}
}

// applyModify writes the new value through the gateway. Only the
// targeted field is set on the patch; the gateway keeps everything
// else as is.
func (m *Manager) applyModify(ctx context.Context, s *Session, value string) {
	var patch calendar.EventInput

	switch s.modify.Field {
	case fieldDateTime:
		start, err := m.parseDateTime(value)
		if err != nil {
			m.send(ctx, s.ID, fmt.Sprintf("Failed to update the event: %v", err))
			m.terminate(ctx, s, instrumentation.ResultError)
			return
		}
		// The event keeps its original duration at the new start.
		ev := s.modify.Events[s.modify.SelectedID]
		patch.Start = start
		patch.End = start.Add(ev.End.Sub(ev.Start))
		patch.TimeZone = m.loc.String()
	case fieldTitle:
		patch.Summary = value
	case fieldDescription:
		patch.Description = value
	}

	updated, err := m.gateway.UpdateEvent(ctx, m.calendarID, s.modify.SelectedID, patch)
	if err != nil {
		m.send(ctx, s.ID, fmt.Sprintf("Failed to update the event: %v", err))
		m.terminate(ctx, s, instrumentation.ResultError)
		return
	}

	if updated.HTMLLink != "" {
		m.send(ctx, s.ID, fmt.Sprintf("Event updated: %s", updated.HTMLLink))
	} else {
		m.send(ctx, s.ID, "Event updated.")
	}
	m.terminate(ctx, s, instrumentation.ResultCompleted)
}
